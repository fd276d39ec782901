// Package store provides SQLite-backed history of property grid runs.
//
// Every evaluation the CLI or the websocket server performs can be recorded
// as one row of the runs table: the request, its outcome (ok or failed),
// the error kind for failures, and the full result grid for successes.
// Failed runs never carry a result.
//
// # Ordering
//
//   - Each run gets a seq from a per-database counter on insert
//   - Listing orders by seq DESC (newest first), id COLLATE BINARY as tie-break
//   - Run IDs are UUIDv7 so they also sort by creation time
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// A new database is stamped with propgrid's application_id; Open refuses
// SQLite files that carry another ID or already hold unrelated tables.
package store
