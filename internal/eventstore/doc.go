// Package eventstore keeps an append-only SQLite log of publish run events and
// the run history projection rebuilt from it.
//
// Every event carries the run ID it belongs to, a type name and a JSON payload.
// The log is advisory: the publication ledger in state.json remains the source
// of truth for what has been published, and a failing event append never fails
// a run.
package eventstore
