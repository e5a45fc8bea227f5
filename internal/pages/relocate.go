package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/artifactpages/internal/fsutil"
)

// RelocateDocRoots moves each located doc root from srcRoot to the same relative
// location under dstRoot and returns the recorded relative paths in input order.
//
// Enclosing roots are moved before the roots nested inside them; a nested root
// that travelled with its parent is recorded without a second move. A stale
// bundle already present at the destination is replaced.
func RelocateDocRoots(srcRoot, dstRoot string, rels []string) ([]string, error) {
	order := make([]string, len(rels))
	copy(order, rels)
	sort.SliceStable(order, func(i, j int) bool { return depth(order[i]) < depth(order[j]) })

	var moved []string
	for _, rel := range order {
		if coveredBy(rel, moved) {
			continue
		}
		src := filepath.Join(srcRoot, filepath.FromSlash(rel))
		dst := filepath.Join(dstRoot, filepath.FromSlash(rel))
		if err := os.RemoveAll(dst); err != nil {
			return nil, fmt.Errorf("clear %s: %w", dst, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return nil, fmt.Errorf("create parent of %s: %w", dst, err)
		}
		if err := fsutil.MoveDir(src, dst); err != nil {
			return nil, fmt.Errorf("relocate %s: %w", rel, err)
		}
		moved = append(moved, rel)
	}

	out := make([]string, len(rels))
	copy(out, rels)
	return out, nil
}

func depth(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}

func coveredBy(rel string, moved []string) bool {
	for _, m := range moved {
		if m == "." || m == "" || rel == m || strings.HasPrefix(rel, m+"/") {
			return true
		}
	}
	return false
}
