// Package store provides persistent storage for conversation documents using
// SQLite.
//
// Documents are stored with their backend status untouched: the status column
// is a nullable JSON blob that may hold a bare string, a structured object, or
// nothing. Reconciliation onto the canonical status enum is deliberately not
// this package's job (see internal/message); the store only guarantees that
// whatever shape a writer stored comes back out unchanged. Unknown fields from
// external writers are preserved in the extra column for the same reason.
//
// SQLite runs in WAL mode so snapshot reads don't block worker writes:
//
//	PRAGMA journal_mode=WAL;
//
// Use NewMockStore() for unit tests and NewSQLiteStore(":memory:") for
// integration tests with real SQLite.
package store
