// Package sqlite provides the SQLite implementation of the driven storage ports.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database connection backs several stores:
//
//   - RecordStore: the mirrored CVE table and its filtered queries
//   - SyncRunStore: the history of full sync passes
//   - SchedulerStore: scheduled task state and results
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files and is applied in one transaction together with its version row.
//
// # Data Location
//
// By default, the database is stored at ~/.cvemirror/data/cves.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode,
// so queries keep reading the last committed batch while a sync is writing.
package sqlite
