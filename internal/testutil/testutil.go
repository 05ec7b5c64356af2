package testutil

import (
	"strconv"
	"testing"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/store"
)

// SetupTestStore creates a test database and returns the store.
// Uses t.TempDir() for automatic cleanup on test completion.
func SetupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := tmpDir + "/test.db"

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// SampleRecords is a small clean dataset: three control users (one
// converted) and two treatment users (one converted).
func SampleRecords() []experiment.Record {
	return []experiment.Record{
		{UserID: "1", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: false},
		{UserID: "2", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: true},
		{UserID: "3", Group: experiment.GroupTreatment, Page: experiment.PageNew, Converted: false},
		{UserID: "4", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: false},
		{UserID: "5", Group: experiment.GroupTreatment, Page: experiment.PageNew, Converted: true},
	}
}

// SyntheticRecords builds a clean dataset with exact per-group counts.
func SyntheticRecords(controlUsers, controlConversions, treatmentUsers, treatmentConversions int) []experiment.Record {
	records := make([]experiment.Record, 0, controlUsers+treatmentUsers)
	for i := 0; i < controlUsers; i++ {
		records = append(records, experiment.Record{
			UserID:    "c" + strconv.Itoa(i),
			Group:     experiment.GroupControl,
			Page:      experiment.PageOld,
			Converted: i < controlConversions,
		})
	}
	for i := 0; i < treatmentUsers; i++ {
		records = append(records, experiment.Record{
			UserID:    "t" + strconv.Itoa(i),
			Group:     experiment.GroupTreatment,
			Page:      experiment.PageNew,
			Converted: i < treatmentConversions,
		})
	}
	return records
}
