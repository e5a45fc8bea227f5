// Package state is the publication ledger: the append-only record of which
// (project, tag) pairs have had their artifact and their documentation published.
//
// The ledger is a plain value owned by whoever loaded it. It is read once at the
// start of a run, consulted and extended while units are processed, and saved
// once at the end. The JSON field names match the state.json files produced by
// earlier releases, so existing pages directories keep loading.
package state
