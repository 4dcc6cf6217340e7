// Package repositories implements SQLite persistence for submission history.
//
// [SubmissionRepository] handles CRUD operations with atomic sequence generation for human-readable ordering.
// Deletes are soft: deleted_at is stamped and deleted rows are excluded from queries.
//
// [SubmissionLog] adapts the repository to tasks.SubmissionStore so the engine can record
// submissions without knowing about SQL.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
