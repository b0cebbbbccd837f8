// Package sqlite provides a SQLite-based implementation of the report and
// audit driven ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It implements two store
// interfaces through a single database connection:
//
//   - ReportStore: reconciliation run persistence
//   - EventLog: lifecycle audit trail persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.librarian/data/librarian.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
