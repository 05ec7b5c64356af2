package store

import (
	"time"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
)

// Experiment is a cleaned dataset stored under a name.
type Experiment struct {
	ID           int64
	Name         string
	Source       string // file the raw export was read from
	RawRecords   int    // rows before cleaning
	CleanRecords int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GroupCounts aggregates one group/page pair of a stored dataset.
type GroupCounts struct {
	Group       experiment.Group
	Page        experiment.Page
	Users       int
	Conversions int
}
