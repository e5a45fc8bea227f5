// Package vcs performs the version control steps of a publish run: cloning a
// configured repository, listing its version tags and checking a tag out.
//
// Two backends implement VCS:
//   - GoGit, the default, runs in-process on go-git
//   - CLI shells out to the git binary through internal/command, for setups that
//     depend on the system git (credential helpers, custom transports)
//
// Only tags starting with "v" are version tags. Listing order is the one git
// itself prints for `git tag --list` (byte-wise lexical); no semantic version
// ordering is imposed here.
package vcs
