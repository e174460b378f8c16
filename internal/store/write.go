package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/roach88/gensweep/internal/ctxlog"
	"github.com/roach88/gensweep/internal/ir"
)

// Run describes one export of a schema's enumeration.
type Run struct {
	// ID is a UUIDv7, so runs sort by creation.
	ID string `json:"id"`

	// Source is the schema file the run was exported from.
	Source string `json:"source"`

	// SchemaHash is ir.SchemaHash of the source bytes.
	SchemaHash string `json:"schema_hash"`

	// Count is the schema's structural count (saturated).
	Count uint64 `json:"count"`
}

// NewRunID returns a fresh time-ordered run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun inserts a run record. Writing the same ID twice is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if err := insertRun(ctx, s.db, run); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("run written", "run_id", run.ID, "source", run.Source, "count", run.Count)
	return nil
}

// WriteConfigs drains next into the configs table of runID, in one
// transaction. Ordinals continue after the last one stored for the run.
// Returns the number of configs written; on error nothing is written.
func (s *Store) WriteConfigs(ctx context.Context, runID string, next func() (ir.Config, bool)) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write configs: begin: %w", err)
	}
	defer tx.Rollback()

	written, err := s.insertConfigs(ctx, tx, runID, next)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write configs: commit: %w", err)
	}
	return written, nil
}

// WriteRunWithConfigs inserts run and drains next into it in a single
// transaction, so a failed or cancelled export leaves no run behind.
func (s *Store) WriteRunWithConfigs(ctx context.Context, run Run, next func() (ir.Config, bool)) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(ctx, tx, run); err != nil {
		return 0, err
	}
	written, err := s.insertConfigs(ctx, tx, run.ID, next)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("run written", "run_id", run.ID, "source", run.Source, "count", run.Count)
	return written, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRun(ctx context.Context, db execer, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("write run: id is required")
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("write run: invalid id %q: %w", run.ID, err)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, source, schema_hash, count)
		VALUES (?, ?, ?, ?)
	`,
		run.ID,
		run.Source,
		run.SchemaHash,
		strconv.FormatUint(run.Count, 10),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func (s *Store) insertConfigs(ctx context.Context, tx *sql.Tx, runID string, next func() (ir.Config, bool)) (int64, error) {
	var last int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(ordinal), 0) FROM configs WHERE run_id = ?
	`, runID).Scan(&last); err != nil {
		return 0, fmt.Errorf("write configs: last ordinal: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO configs (run_id, ordinal, config_id, config_json)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("write configs: prepare: %w", err)
	}
	defer stmt.Close()

	clock := s.newClock(last)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("write configs: %w", err)
		}
		cfg, ok := next()
		if !ok {
			break
		}

		data, err := ir.MarshalCanonical(cfg)
		if err != nil {
			return 0, fmt.Errorf("write configs: config %d: %w", written, err)
		}
		id, err := ir.ConfigID(cfg)
		if err != nil {
			return 0, fmt.Errorf("write configs: config %d: %w", written, err)
		}

		if _, err := stmt.ExecContext(ctx, runID, clock.Next(), id, string(data)); err != nil {
			// A cancelled context also closes the transaction; report the cause.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, fmt.Errorf("write configs: %w", ctxErr)
			}
			return 0, fmt.Errorf("write configs: config %d: %w", written, err)
		}
		written++
	}

	ctxlog.FromContext(ctx).Debug("configs written", "run_id", runID, "written", written, "first_ordinal", last+1)
	return written, nil
}
