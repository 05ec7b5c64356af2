package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/gkobilansky/conversion-goat/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func setupTestDB(t *testing.T) (*store.SQLiteStore, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "conversion-goat-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open store: %v", err)
	}

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestOpen(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestSaveExperiment(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	exp, err := s.SaveExperiment(ctx, "landing", "data/raw/ab_data.csv", 7, testutil.SampleRecords())
	if err != nil {
		t.Fatalf("failed to save experiment: %v", err)
	}

	if exp.Name != "landing" {
		t.Errorf("got Name %s, want landing", exp.Name)
	}
	if exp.Source != "data/raw/ab_data.csv" {
		t.Errorf("got Source %s, want data/raw/ab_data.csv", exp.Source)
	}
	if exp.RawRecords != 7 {
		t.Errorf("got RawRecords %d, want 7", exp.RawRecords)
	}
	if exp.CleanRecords != 5 {
		t.Errorf("got CleanRecords %d, want 5", exp.CleanRecords)
	}
	if exp.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestSaveExperiment_ReplacesExisting(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	first, err := s.SaveExperiment(ctx, "landing", "a.csv", 5, testutil.SampleRecords())
	if err != nil {
		t.Fatalf("failed to save experiment: %v", err)
	}

	replacement := testutil.SampleRecords()[:2]
	second, err := s.SaveExperiment(ctx, "landing", "b.csv", 2, replacement)
	if err != nil {
		t.Fatalf("failed to replace experiment: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected ID to be kept, got %d then %d", first.ID, second.ID)
	}
	if second.Source != "b.csv" || second.CleanRecords != 2 {
		t.Errorf("expected replaced metadata, got %+v", second)
	}

	records, err := s.GetRecords(ctx, "landing")
	if err != nil {
		t.Fatalf("failed to get records: %v", err)
	}
	if diff := cmp.Diff(replacement, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveExperiment_DuplicateUserRollsBack(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	records := append(testutil.SampleRecords(), testutil.SampleRecords()[0])

	if _, err := s.SaveExperiment(ctx, "landing", "", len(records), records); err == nil {
		t.Fatal("expected error for duplicate user")
	}

	if _, err := s.GetExperiment(ctx, "landing"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound after rollback, got %v", err)
	}
}

func TestGetRecords_PreservesOrder(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	want := testutil.SampleRecords()
	if _, err := s.SaveExperiment(ctx, "landing", "", len(want), want); err != nil {
		t.Fatalf("failed to save experiment: %v", err)
	}

	got, err := s.GetRecords(ctx, "landing")
	if err != nil {
		t.Fatalf("failed to get records: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRecords_NotFound(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := s.GetRecords(context.Background(), "nonexistent")
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetExperiment_NotFound(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := s.GetExperiment(context.Background(), "nonexistent")
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListExperiments(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for _, name := range []string{"hero", "pricing", "signup"} {
		if _, err := s.SaveExperiment(ctx, name, "", 5, testutil.SampleRecords()); err != nil {
			t.Fatalf("failed to save %s: %v", name, err)
		}
	}

	experiments, err := s.ListExperiments(ctx)
	if err != nil {
		t.Fatalf("failed to list experiments: %v", err)
	}

	if len(experiments) != 3 {
		t.Fatalf("got %d experiments, want 3", len(experiments))
	}
	// Newest first
	if experiments[0].Name != "signup" {
		t.Errorf("expected signup first, got %s", experiments[0].Name)
	}
}

func TestListExperiments_Empty(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	experiments, err := s.ListExperiments(context.Background())
	if err != nil {
		t.Fatalf("failed to list experiments: %v", err)
	}
	if len(experiments) != 0 {
		t.Errorf("got %d experiments, want 0", len(experiments))
	}
}

func TestDeleteExperiment(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := s.SaveExperiment(ctx, "landing", "", 5, testutil.SampleRecords()); err != nil {
		t.Fatalf("failed to save experiment: %v", err)
	}

	if err := s.DeleteExperiment(ctx, "landing"); err != nil {
		t.Fatalf("failed to delete experiment: %v", err)
	}

	if _, err := s.GetExperiment(ctx, "landing"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	counts, err := s.GetGroupCounts(ctx, "landing")
	if err != nil {
		t.Fatalf("failed to get group counts: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected records to be deleted, got %+v", counts)
	}
}

func TestDeleteExperiment_NotFound(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	if err := s.DeleteExperiment(context.Background(), "nonexistent"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetGroupCounts(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := s.SaveExperiment(ctx, "landing", "", 5, testutil.SampleRecords()); err != nil {
		t.Fatalf("failed to save experiment: %v", err)
	}

	counts, err := s.GetGroupCounts(ctx, "landing")
	if err != nil {
		t.Fatalf("failed to get group counts: %v", err)
	}

	want := []store.GroupCounts{
		{Group: experiment.GroupControl, Page: experiment.PageOld, Users: 3, Conversions: 1},
		{Group: experiment.GroupTreatment, Page: experiment.PageNew, Users: 2, Conversions: 1},
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("group counts mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistence_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	ctx := context.Background()
	if _, err := s.SaveExperiment(ctx, "landing", "", 5, testutil.SampleRecords()); err != nil {
		t.Fatalf("failed to save experiment: %v", err)
	}
	s.Close()

	s2, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s2.Close()

	records, err := s2.GetRecords(ctx, "landing")
	if err != nil {
		t.Fatalf("failed to get records: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 persisted records, got %d", len(records))
	}
}
