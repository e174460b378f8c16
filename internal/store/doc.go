// Package store persists enumerated configurations in SQLite.
//
// An export run records where a schema came from and how many
// configurations it describes; its configurations are stored one row each
// with a per-run ordinal:
//
//   - runs: id (UUIDv7), source, schema_hash, count
//   - configs: run_id, ordinal, config_id, config_json
//
// # Ordering
//
// Ordinals come from a logical clock, never from wall time, so the same
// schema exported twice produces identical rows apart from the run id.
// Reads are always ORDER BY ordinal ASC.
//
// # Identity
//
// config_id is ir.ConfigID of the row's canonical JSON. ReadConfigs
// recomputes it and refuses rows whose content no longer matches.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: configs must reference an existing run
package store
