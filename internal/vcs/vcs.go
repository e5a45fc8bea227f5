package vcs

import (
	"context"
	"strings"
)

// VersionTagPrefix marks tags that name a publishable version.
const VersionTagPrefix = "v"

// VCS is the set of version control operations a publish run needs.
type VCS interface {
	// Clone clones url into dest, which must not exist yet.
	Clone(ctx context.Context, url, dest string) error
	// ListTags returns the version tags of the repository at repoPath.
	ListTags(ctx context.Context, repoPath string) ([]string, error)
	// Checkout checks tag out in the repository at repoPath.
	Checkout(ctx context.Context, repoPath, tag string) error
}

// FilterVersionTags keeps tags carrying VersionTagPrefix, preserving order.
func FilterVersionTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.HasPrefix(t, VersionTagPrefix) {
			out = append(out, t)
		}
	}
	return out
}
