// Package workspace manages the scratch directory a publish run clones into.
//
// Each run gets its own timestamped directory (e.g. artifactpages-20251214-122336)
// under the configured base directory. Every repository is cloned into a fresh
// UUID-named path inside it, so repositories never collide, even when the same
// URL is configured twice. The run directory is removed on Cleanup unless the
// manager was created with keep set, which leaves clones behind for inspection.
package workspace
