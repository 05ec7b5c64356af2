package store

import (
	"context"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
)

// Store defines the interface for dataset storage operations
type Store interface {
	// Experiment operations
	SaveExperiment(ctx context.Context, name, source string, rawRecords int, records []experiment.Record) (*Experiment, error)
	GetExperiment(ctx context.Context, name string) (*Experiment, error)
	ListExperiments(ctx context.Context) ([]*Experiment, error)
	DeleteExperiment(ctx context.Context, name string) error

	// Record operations
	GetRecords(ctx context.Context, name string) ([]experiment.Record, error)
	GetGroupCounts(ctx context.Context, name string) ([]GroupCounts, error)

	// Lifecycle
	Close() error
}
