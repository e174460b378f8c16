package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/gensweep/internal/ir"
)

// RunSummary is a run plus the number of configs stored for it.
type RunSummary struct {
	Run
	Stored int64 `json:"stored"`
}

// StoredConfig is one configs row.
type StoredConfig struct {
	Ordinal  int64     `json:"ordinal"`
	ConfigID string    `json:"config_id"`
	Config   ir.Config `json:"config"`
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, schema_hash, count
		FROM runs
		WHERE id = ?
	`, id)

	var run Run
	var count string
	if err := row.Scan(&run.ID, &run.Source, &run.SchemaHash, &count); err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	n, err := strconv.ParseUint(count, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: count: %w", id, err)
	}
	run.Count = n
	return run, nil
}

// ListRuns returns every run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.schema_hash, r.count,
		       (SELECT COUNT(*) FROM configs c WHERE c.run_id = r.id)
		FROM runs r
		ORDER BY r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var rs RunSummary
		var count string
		if err := rows.Scan(&rs.ID, &rs.Source, &rs.SchemaHash, &count, &rs.Stored); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if rs.Count, err = strconv.ParseUint(count, 10, 64); err != nil {
			return nil, fmt.Errorf("scan run %s: count: %w", rs.ID, err)
		}
		runs = append(runs, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadStoredConfigs returns the rows of a run in ordinal order.
// Each row's config_id is checked against its content.
func (s *Store) ReadStoredConfigs(ctx context.Context, runID string) ([]StoredConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, config_id, config_json
		FROM configs
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query configs: %w", err)
	}
	defer rows.Close()

	out := []StoredConfig{}
	for rows.Next() {
		sc, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate configs: %w", err)
	}
	return out, nil
}

// ReadConfigs returns the configurations of a run in ordinal order.
func (s *Store) ReadConfigs(ctx context.Context, runID string) ([]ir.Config, error) {
	stored, err := s.ReadStoredConfigs(ctx, runID)
	if err != nil {
		return nil, err
	}
	out := make([]ir.Config, len(stored))
	for i, sc := range stored {
		out[i] = sc.Config
	}
	return out, nil
}

// FindConfig lists the runs and ordinals holding a configuration with the
// given content ID, oldest run first.
func (s *Store) FindConfig(ctx context.Context, configID string) ([]ConfigRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, ordinal
		FROM configs
		WHERE config_id = ?
		ORDER BY run_id COLLATE BINARY ASC, ordinal ASC
	`, configID)
	if err != nil {
		return nil, fmt.Errorf("query config %s: %w", configID, err)
	}
	defer rows.Close()

	refs := []ConfigRef{}
	for rows.Next() {
		var ref ConfigRef
		if err := rows.Scan(&ref.RunID, &ref.Ordinal); err != nil {
			return nil, fmt.Errorf("scan config ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config refs: %w", err)
	}
	return refs, nil
}

// ConfigRef locates a stored configuration.
type ConfigRef struct {
	RunID   string `json:"run_id"`
	Ordinal int64  `json:"ordinal"`
}

func scanConfig(rows *sql.Rows) (StoredConfig, error) {
	var sc StoredConfig
	var data string
	if err := rows.Scan(&sc.Ordinal, &sc.ConfigID, &data); err != nil {
		return StoredConfig{}, fmt.Errorf("scan config: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &sc.Config); err != nil {
		return StoredConfig{}, fmt.Errorf("config %d: %w", sc.Ordinal, err)
	}
	id, err := ir.ConfigID(sc.Config)
	if err != nil {
		return StoredConfig{}, fmt.Errorf("config %d: %w", sc.Ordinal, err)
	}
	if id != sc.ConfigID {
		return StoredConfig{}, fmt.Errorf("config %d: content does not match config_id %s", sc.Ordinal, sc.ConfigID)
	}
	return sc, nil
}
