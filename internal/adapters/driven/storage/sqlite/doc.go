// Package sqlite provides a unified SQLite-based implementation of the
// persistence ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It implements
// the store interfaces through a single database connection:
//
//   - RoundHistoryStore: completed sync round records
//   - CredentialsStore: per-user provider credentials
//
// # Schema
//
// The database schema is managed through versioned migrations embedded
// in the migrations subpackage. Each migration runs at most once; the
// applied versions are tracked in the schema_migrations table.
package sqlite
