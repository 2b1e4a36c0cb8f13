package profile

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"idcard/internal/adapters/storage"
	domain "idcard/internal/domain/profile"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return NewSQLiteStore(db)
}

func seedProfiles(t *testing.T, s *SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	records := []domain.Record{
		{ID: "p1", Name: "Anita Gill", Parish: "Khasa", Deanery: "Amritsar", Level: "parish", Designation: "President", Phone: "9000000001"},
		{ID: "p2", Name: "Baldev Masih", Parish: "Khasa", Deanery: "Amritsar", Level: "deanery", Designation: "Secretary", Phone: "9000000002"},
		{ID: "p3", Name: "Carol DSouza", Parish: "Ajnala", Deanery: "Ajnala", Level: "dexco", Designation: "President", Phone: "9000000003"},
	}
	for i, r := range records {
		r.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("seed %s: %v", r.ID, err)
		}
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := domain.Record{
		ID:            "p1",
		Name:          "Anita Gill",
		FatherName:    "Joseph",
		DateOfBirth:   time.Date(2003, 4, 9, 0, 0, 0, 0, time.UTC),
		DateOfBaptism: time.Date(2003, 6, 1, 0, 0, 0, 0, time.UTC),
		IssueDate:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		PostalAddress: "12 Church Road",
		Parish:        "Khasa",
		Deanery:       "Amritsar",
		Phone:         "9000000001",
		Level:         "parish",
		Designation:   "President",
		Photo:         "data:image/png;base64,aGk=",
		CreatedAt:     time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := s.Save(ctx, original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != original.Name || got.Photo != original.Photo {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if !got.DateOfBirth.Equal(original.DateOfBirth) {
		t.Errorf("DateOfBirth = %v, want %v", got.DateOfBirth, original.DateOfBirth)
	}
	if !got.IssueDate.Equal(original.IssueDate) {
		t.Errorf("IssueDate = %v, want %v", got.IssueDate, original.IssueDate)
	}

	// Zero dates round-trip as zero, not as a bogus epoch.
	original.ID = "p2"
	original.IssueDate = time.Time{}
	if err := s.Save(ctx, original); err != nil {
		t.Fatalf("Save p2: %v", err)
	}
	got, err = s.GetByID(ctx, "p2")
	if err != nil {
		t.Fatalf("GetByID p2: %v", err)
	}
	if !got.IssueDate.IsZero() {
		t.Errorf("zero IssueDate came back as %v", got.IssueDate)
	}
}

func TestSQLiteStore_SaveUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := domain.Record{ID: "p1", Name: "Anita Gill", Parish: "Khasa", Deanery: "Amritsar", CreatedAt: time.Now()}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	r.Name = "Anita K Gill"
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Anita K Gill" {
		t.Errorf("name = %q, want updated name", got.Name)
	}
	count, err := s.Count(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 after upsert", count)
	}
}

func TestSQLiteStore_GetByID_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetByID(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for missing profile")
	}
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	s := openTestStore(t)
	seedProfiles(t, s)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []string
	}{
		{"no filter newest first", ListFilter{}, []string{"p3", "p2", "p1"}},
		{"by deanery", ListFilter{Deanery: "Amritsar", Sort: "name"}, []string{"p1", "p2"}},
		{"by parish", ListFilter{Parish: "Ajnala"}, []string{"p3"}},
		{"by level", ListFilter{Level: "deanery"}, []string{"p2"}},
		{"by designation", ListFilter{Designation: "President", Sort: "name"}, []string{"p1", "p3"}},
		{"search name", ListFilter{Search: "Baldev"}, []string{"p2"}},
		{"search phone", ListFilter{Search: "9000000003"}, []string{"p3"}},
		{"combined", ListFilter{Deanery: "Amritsar", Designation: "President"}, []string{"p1"}},
		{"no match", ListFilter{Parish: "Khasa", Level: "dexco"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}

			count, err := s.Count(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if count != len(tt.wantIDs) {
				t.Errorf("count = %d, want %d", count, len(tt.wantIDs))
			}
		})
	}
}

func TestSQLiteStore_ListPagination(t *testing.T) {
	s := openTestStore(t)
	seedProfiles(t, s)
	ctx := context.Background()

	page1, err := s.List(ctx, ListFilter{Limit: 2, Offset: 0, Sort: "name"})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	page2, err := s.List(ctx, ListFilter{Limit: 2, Offset: 2, Sort: "name"})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page1) != 2 || len(page2) != 1 {
		t.Errorf("page sizes = %d, %d; want 2, 1", len(page1), len(page2))
	}
	if page1[0].ID != "p1" || page2[0].ID != "p3" {
		t.Errorf("page contents wrong: %v / %v", page1[0].ID, page2[0].ID)
	}
}

func TestSQLiteStore_SortClauseRejectsUnknownColumns(t *testing.T) {
	s := openTestStore(t)
	seedProfiles(t, s)

	// An injection attempt in Sort must fall back to the default order.
	got, err := s.List(context.Background(), ListFilter{Sort: "name; DROP TABLE profile"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := openTestStore(t)
	seedProfiles(t, s)
	ctx := context.Background()

	if err := s.Delete(ctx, "p2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, "p2"); err == nil {
		t.Fatal("deleted profile still found")
	}
	count, _ := s.Count(ctx, ListFilter{})
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestSQLiteStore_FilterOptions(t *testing.T) {
	s := openTestStore(t)
	seedProfiles(t, s)

	opts, err := s.FilterOptions(context.Background())
	if err != nil {
		t.Fatalf("FilterOptions: %v", err)
	}
	if !reflect.DeepEqual(opts.Deaneries, []string{"Ajnala", "Amritsar"}) {
		t.Errorf("deaneries = %v", opts.Deaneries)
	}
	if !reflect.DeepEqual(opts.Parishes, []string{"Ajnala", "Khasa"}) {
		t.Errorf("parishes = %v", opts.Parishes)
	}
	if !reflect.DeepEqual(opts.Levels, []string{"deanery", "dexco", "parish"}) {
		t.Errorf("levels = %v", opts.Levels)
	}
	if !reflect.DeepEqual(opts.Designations, []string{"President", "Secretary"}) {
		t.Errorf("designations = %v", opts.Designations)
	}
}
