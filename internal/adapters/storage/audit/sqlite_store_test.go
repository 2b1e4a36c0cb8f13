package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"idcard/internal/adapters/storage"
	domain "idcard/internal/domain/audit"
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

func seedEvents(t *testing.T, s *SQLiteStore) []domain.Event {
	t.Helper()
	ctx := context.Background()
	events := []domain.Event{
		domain.NewEvent("a1", "admin@diocese.org", "admin", domain.CategoryProfile, domain.ActionCreate).
			WithResource("profile", "p1"),
		domain.NewEvent("a1", "admin@diocese.org", "admin", domain.CategoryCard, domain.ActionExport).
			WithResource("profile", "p1").
			WithIPAddress("10.0.0.1"),
		domain.NewEvent("", "intruder@example.com", "", domain.CategorySecurity, domain.ActionLogin).
			WithSeverity(domain.SeverityWarning),
	}
	// Spread timestamps so ordering is deterministic
	for i := range events {
		events[i].Timestamp = time.Date(2026, 2, 1, 10, i, 0, 0, time.UTC)
		if err := s.Save(ctx, events[i]); err != nil {
			t.Fatalf("seed event %d: %v", i, err)
		}
	}
	return events
}

func TestSQLiteStore_SaveAndGetByID(t *testing.T) {
	s := openTestStore(t)
	events := seedEvents(t, s)

	got, err := s.GetByID(context.Background(), events[1].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Category != domain.CategoryCard || got.Action != domain.ActionExport {
		t.Errorf("got %+v", got)
	}
	if got.IPAddress != "10.0.0.1" {
		t.Errorf("IPAddress = %q", got.IPAddress)
	}
	if got.ResourceID != "p1" || got.ResourceType != "profile" {
		t.Errorf("resource = %s/%s", got.ResourceType, got.ResourceID)
	}
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	seedEvents(t, s)

	list, err := s.List(context.Background(), Filter{}, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].Category != domain.CategorySecurity {
		t.Errorf("newest event category = %s, want security", list[0].Category)
	}
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	s := openTestStore(t)
	seedEvents(t, s)
	ctx := context.Background()

	cat := domain.CategoryCard
	list, err := s.List(ctx, Filter{Category: &cat}, 10)
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(list) != 1 || list[0].Action != domain.ActionExport {
		t.Errorf("category filter returned %+v", list)
	}

	sev := domain.SeverityWarning
	list, err = s.List(ctx, Filter{Severity: &sev}, 10)
	if err != nil {
		t.Fatalf("List by severity: %v", err)
	}
	if len(list) != 1 || list[0].Category != domain.CategorySecurity {
		t.Errorf("severity filter returned %+v", list)
	}

	actor := "a1"
	list, err = s.List(ctx, Filter{ActorID: &actor}, 10)
	if err != nil {
		t.Fatalf("List by actor: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("actor filter returned %d events, want 2", len(list))
	}
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	s := openTestStore(t)
	seedEvents(t, s)

	list, err := s.List(context.Background(), Filter{}, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestSQLiteStore_Purge(t *testing.T) {
	s := openTestStore(t)
	seedEvents(t, s) // timestamps at 10:00, 10:01, 10:02 on 2026-02-01

	cutoff := time.Date(2026, 2, 1, 10, 2, 0, 0, time.UTC)
	purged, err := s.Purge(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if purged != 2 {
		t.Errorf("purged = %d, want 2", purged)
	}

	remaining, err := s.List(context.Background(), Filter{}, 10)
	if err != nil {
		t.Fatalf("List after purge: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}
	if remaining[0].Category != domain.CategorySecurity {
		t.Errorf("survivor category = %s, want security", remaining[0].Category)
	}
}
