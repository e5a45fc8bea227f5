// Package render produces the static index.html of a pages directory from a
// snapshot of the publication ledger.
//
// The built-in template groups published versions by project, newest version
// first. Custom templates (output.template) receive the same Page value, whose
// State field is the raw ledger snapshot for templates written against it
// directly.
package render
