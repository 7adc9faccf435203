// Package tracedb stores trajectories in SQLite.
package tracedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/banshee-data/contact.report/internal/trace"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a trajectory ID is not stored.
var ErrNotFound = errors.New("trajectory not found")

// Store is a trajectory database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the SQLite database at path. Call
// MigrateUp before using a fresh database.
func Open(path string) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db}, nil
}

// InsertTrajectory stores t, replacing the samples of a trajectory with the
// same ID. A replaced trajectory keeps its original load position.
func (s *Store) InsertTrajectory(ctx context.Context, t *trace.Trajectory) error {
	if err := t.Validate(); err != nil {
		return err
	}
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO trajectories (trajectory_id) VALUES (?) ON CONFLICT (trajectory_id) DO NOTHING`, t.ID); err != nil {
		return fmt.Errorf("insert trajectory %s: %w", t.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE trajectory_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear samples of %s: %w", t.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (trajectory_id, seq, t, x, y, lat, lon) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()
	for i, p := range t.Samples() {
		if _, err := stmt.ExecContext(ctx, t.ID, i, p.Time, p.X, p.Y, p.Lat, p.Lon); err != nil {
			return fmt.Errorf("insert sample %d of %s: %w", i, t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", t.ID, err)
	}
	return nil
}

// TrajectoryIDs lists stored IDs in load order.
func (s *Store) TrajectoryIDs(ctx context.Context) ([]string, error) {
	rows, err := s.QueryContext(ctx, `SELECT trajectory_id FROM trajectories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list trajectories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadTrajectory reads one trajectory.
func (s *Store) LoadTrajectory(ctx context.Context, id string) (*trace.Trajectory, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT t, x, y, lat, lon FROM samples WHERE trajectory_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	defer rows.Close()

	var samples []trace.Sample
	for rows.Next() {
		var p trace.Sample
		if err := rows.Scan(&p.Time, &p.X, &p.Y, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("scan sample of %s: %w", id, err)
		}
		samples = append(samples, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return trace.New(id, samples), nil
}

// LoadTrajectories reads every stored trajectory in load order.
func (s *Store) LoadTrajectories(ctx context.Context) ([]*trace.Trajectory, error) {
	ids, err := s.TrajectoryIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*trace.Trajectory, 0, len(ids))
	for _, id := range ids {
		t, err := s.LoadTrajectory(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// DeleteTrajectory removes a trajectory and its samples.
func (s *Store) DeleteTrajectory(ctx context.Context, id string) error {
	if _, err := s.ExecContext(ctx, `DELETE FROM samples WHERE trajectory_id = ?`, id); err != nil {
		return fmt.Errorf("delete samples of %s: %w", id, err)
	}
	res, err := s.ExecContext(ctx, `DELETE FROM trajectories WHERE trajectory_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
