// Package prefs provides the durable preference store behind the marker plugin.
//
// # Architecture
//
// A preference store holds named entries whose value is a set of strings, the
// same shape as a platform "string set" preference. Three implementations share
// the Store interface:
//
//   - SQLiteStore: modernc.org/sqlite database, one row per set member
//   - BlobStore: gocloud.dev/blob bucket, one JSON object per entry
//   - MockStore: in-memory, counts writes, used by unit tests
//
// Open selects an implementation from config.StorageConfig.
//
// # Semantics
//
// GetStringSet reports ok=false for an entry that was never written. An entry
// written with an empty set exists and loads as an empty, ok=true result.
// PutStringSet replaces the whole entry; duplicate members collapse.
//
// # SQLite Configuration
//
//	PRAGMA journal_mode=WAL;
//
// # Testing
//
// Use NewMockStore() for unit tests, NewSQLiteStore(":memory:") or a file
// under t.TempDir() for integration tests, and NewMemoryBlobStore() for the
// blob backend.
package prefs
