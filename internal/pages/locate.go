package pages

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// DocSentinel marks a directory as a complete generated documentation bundle.
const DocSentinel = "index.html"

// SearchRoot is the relative path LocateDocRoots reports for the walked root.
const SearchRoot = "."

// LocateDocRoots walks root and returns every directory, relative to root and
// slash separated, that directly contains a regular file named DocSentinel.
// Nested bundles are reported independently; SearchRoot denotes root itself.
// Git metadata directories are not descended into.
func LocateDocRoots(root string) ([]string, error) {
	var roots []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" && path != root {
			return filepath.SkipDir
		}
		if d.Name() != DocSentinel || !d.Type().IsRegular() {
			return nil
		}
		rel, rerr := filepath.Rel(root, filepath.Dir(path))
		if rerr != nil {
			return rerr
		}
		roots = append(roots, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("locate doc roots under %s: %w", root, err)
	}
	return roots, nil
}
