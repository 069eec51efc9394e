// Package sqlite provides the persistent vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Collections and their embeddings live in
// a single database file, vectors.db, inside the configured persist directory.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Search
//
// Queries are exhaustive: every embedding in the collection is compared with the
// query by cosine distance. A novel produces a few hundred chunks, well within
// what a linear scan answers interactively.
//
// # Thread Safety
//
// Reads are safe for concurrent use. Concurrent writers to the same database
// file are not supported.
package sqlite
