package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS experiments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    raw_records INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_experiments_name ON experiments(name);

CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    experiment_name TEXT NOT NULL,
    position INTEGER NOT NULL,
    user_id TEXT NOT NULL,
    grp TEXT NOT NULL,
    landing_page TEXT NOT NULL,
    converted INTEGER NOT NULL,
    FOREIGN KEY (experiment_name) REFERENCES experiments(name)
);

CREATE INDEX IF NOT EXISTS idx_records_experiment ON records(experiment_name, position);
CREATE INDEX IF NOT EXISTS idx_records_group ON records(experiment_name, grp);
CREATE UNIQUE INDEX IF NOT EXISTS idx_records_user ON records(experiment_name, user_id);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveExperiment stores records under name, replacing any dataset already
// stored there. Records must already be clean: a repeated user violates the
// unique index and the whole save is rolled back.
func (s *SQLiteStore) SaveExperiment(ctx context.Context, name, source string, rawRecords int, records []experiment.Record) (*Experiment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM experiments WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO experiments (name, source, raw_records, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			name, source, rawRecords, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert experiment: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE experiments SET source = ?, raw_records = ?, updated_at = ? WHERE name = ?`,
			source, rawRecords, now, name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update experiment: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE experiment_name = ?`, name); err != nil {
		return nil, fmt.Errorf("failed to delete records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (experiment_name, position, user_id, grp, landing_page, converted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, name, i, r.UserID, string(r.Group), string(r.Page), boolToInt(r.Converted)); err != nil {
			return nil, fmt.Errorf("failed to insert record for user %s: %w", r.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit experiment: %w", err)
	}

	return s.GetExperiment(ctx, name)
}

func (s *SQLiteStore) GetExperiment(ctx context.Context, name string) (*Experiment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT e.id, e.name, e.source, e.raw_records,
		        (SELECT COUNT(*) FROM records r WHERE r.experiment_name = e.name),
		        e.created_at, e.updated_at
		 FROM experiments e WHERE e.name = ?`, name,
	)

	exp, err := scanExperiment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}
	return exp, nil
}

func (s *SQLiteStore) ListExperiments(ctx context.Context) ([]*Experiment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.name, e.source, e.raw_records,
		        (SELECT COUNT(*) FROM records r WHERE r.experiment_name = e.name),
		        e.created_at, e.updated_at
		 FROM experiments e ORDER BY e.created_at DESC, e.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*Experiment
	for rows.Next() {
		exp, err := scanExperiment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		experiments = append(experiments, exp)
	}

	return experiments, rows.Err()
}

func (s *SQLiteStore) DeleteExperiment(ctx context.Context, name string) error {
	// First delete related records
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE experiment_name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM experiments WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetRecords returns the stored dataset in its original order.
func (s *SQLiteStore) GetRecords(ctx context.Context, name string) ([]experiment.Record, error) {
	if _, err := s.GetExperiment(ctx, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, grp, landing_page, converted
		 FROM records WHERE experiment_name = ? ORDER BY position`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	var records []experiment.Record
	for rows.Next() {
		var r experiment.Record
		var group, page string
		var converted int
		if err := rows.Scan(&r.UserID, &group, &page, &converted); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Group = experiment.Group(group)
		r.Page = experiment.Page(page)
		r.Converted = converted != 0
		records = append(records, r)
	}

	return records, rows.Err()
}

func (s *SQLiteStore) GetGroupCounts(ctx context.Context, name string) ([]GroupCounts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			grp,
			landing_page,
			COUNT(*) as users,
			SUM(converted) as conversions
		FROM records
		WHERE experiment_name = ?
		GROUP BY grp, landing_page
		ORDER BY grp, landing_page
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get group counts: %w", err)
	}
	defer rows.Close()

	var counts []GroupCounts
	for rows.Next() {
		var c GroupCounts
		var group, page string
		if err := rows.Scan(&group, &page, &c.Users, &c.Conversions); err != nil {
			return nil, fmt.Errorf("failed to scan group counts: %w", err)
		}
		c.Group = experiment.Group(group)
		c.Page = experiment.Page(page)
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// DB returns the underlying database connection for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExperiment(row scanner) (*Experiment, error) {
	var exp Experiment
	var createdAt, updatedAt int64

	if err := row.Scan(&exp.ID, &exp.Name, &exp.Source, &exp.RawRecords, &exp.CleanRecords, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	exp.CreatedAt = time.Unix(createdAt, 0)
	exp.UpdatedAt = time.Unix(updatedAt, 0)
	return &exp, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
