package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"idcard/internal/adapters/storage"
	domain "idcard/internal/domain/profile"
)

const profileColumns = "id, name, father_name, mother_name, date_of_birth, date_of_baptism, issue_date, postal_address, parish, deanery, qualification, phone, involvement_since, level, designation, photo, created_at, updated_at"

// Date-only layout for the birth, baptism and issue columns.
const dateOnly = "2006-01-02"

// Timestamp layout for created_at/updated_at.
const timestampLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new ProfileStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	query := "SELECT " + profileColumns + " FROM profile WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Record{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := strings.Split(profileColumns, ", ")
	placeholders := make([]string, len(fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	var updates []string
	for _, f := range fields {
		if f == "id" || f == "created_at" {
			continue
		}
		updates = append(updates, f+"=excluded."+f)
	}

	query := fmt.Sprintf(
		"INSERT INTO profile (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		profileColumns,
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var updatedAt interface{}
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(timestampLayout)
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.FatherName,
		entity.MotherName,
		formatDate(entity.DateOfBirth),
		formatDate(entity.DateOfBaptism),
		formatDate(entity.IssueDate),
		entity.PostalAddress,
		entity.Parish,
		entity.Deanery,
		entity.Qualification,
		entity.Phone,
		entity.InvolvementSince,
		entity.Level,
		entity.Designation,
		entity.Photo,
		entity.CreatedAt.Format(timestampLayout),
		updatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Profile from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profile WHERE id = ?", id)
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Deanery != "" {
		where += " AND deanery = ?"
		args = append(args, filter.Deanery)
	}
	if filter.Parish != "" {
		where += " AND parish = ?"
		args = append(args, filter.Parish)
	}
	if filter.Level != "" {
		where += " AND level = ?"
		args = append(args, filter.Level)
	}
	if filter.Designation != "" {
		where += " AND designation = ?"
		args = append(args, filter.Designation)
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR phone LIKE ? OR parish LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name": "name", "parish": "parish",
		"deanery": "deanery", "level": "level",
		"created_at": "created_at",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY created_at DESC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of profiles matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profile"+where, args...).Scan(&count)
	return count, err
}

// List retrieves a list of Profiles based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Record, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + profileColumns + " FROM profile" + where
	query += sortClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		entity, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// FilterOptions returns the distinct filter values currently stored.
// PRE: none
// POST: Each slice is sorted ascending and free of empty strings
func (s *SQLiteStore) FilterOptions(ctx context.Context) (Options, error) {
	var opts Options
	columns := []struct {
		column string
		dest   *[]string
	}{
		{"deanery", &opts.Deaneries},
		{"parish", &opts.Parishes},
		{"level", &opts.Levels},
		{"designation", &opts.Designations},
	}
	for _, c := range columns {
		values, err := s.distinctValues(ctx, c.column)
		if err != nil {
			return Options{}, err
		}
		*c.dest = values
	}
	return opts, nil
}

func (s *SQLiteStore) distinctValues(ctx context.Context, column string) ([]string, error) {
	query := "SELECT DISTINCT " + column + " FROM profile WHERE " + column + " != '' ORDER BY " + column
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// scanProfile extracts a Record from a row scanner function.
func scanProfile(scan func(dest ...interface{}) error) (domain.Record, error) {
	var entity domain.Record
	var birth, baptism, issue, createdAt, updatedAt sql.NullString
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.FatherName,
		&entity.MotherName,
		&birth,
		&baptism,
		&issue,
		&entity.PostalAddress,
		&entity.Parish,
		&entity.Deanery,
		&entity.Qualification,
		&entity.Phone,
		&entity.InvolvementSince,
		&entity.Level,
		&entity.Designation,
		&entity.Photo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Record{}, err
	}
	entity.DateOfBirth = parseDate(birth)
	entity.DateOfBaptism = parseDate(baptism)
	entity.IssueDate = parseDate(issue)
	if createdAt.Valid {
		entity.CreatedAt, _ = time.Parse(timestampLayout, createdAt.String)
	}
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = time.Parse(timestampLayout, updatedAt.String)
	}
	return entity, nil
}

// formatDate stores dates as date-only strings; the zero time stores as NULL.
func formatDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateOnly)
}

func parseDate(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateOnly, v.String)
	return t
}
