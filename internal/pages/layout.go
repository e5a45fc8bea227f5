// Package pages owns the on-disk layout of the published pages directory: the
// release area served as a Maven repository, relocated Javadoc bundles, the
// publication ledger and the rendered index page.
package pages

import "path/filepath"

// Fixed names inside the pages directory.
const (
	ReleaseDirName = "release"
	DocsDirName    = "javadoc"
	StateFileName  = "state.json"
	IndexFileName  = "index.html"
)

// Layout resolves locations inside a pages directory.
type Layout struct {
	PagesDir string
}

// NewLayout returns the layout rooted at pagesDir (made absolute when possible).
func NewLayout(pagesDir string) Layout {
	if abs, err := filepath.Abs(pagesDir); err == nil {
		pagesDir = abs
	}
	return Layout{PagesDir: pagesDir}
}

// ReleaseDir is the Maven repository area served to consumers.
func (l Layout) ReleaseDir() string { return filepath.Join(l.PagesDir, ReleaseDirName) }

// DocsDir holds every relocated documentation bundle.
func (l Layout) DocsDir() string { return filepath.Join(l.PagesDir, DocsDirName) }

// StatePath is the location of the publication ledger.
func (l Layout) StatePath() string { return filepath.Join(l.PagesDir, StateFileName) }

// IndexPath is the location of the rendered index page.
func (l Layout) IndexPath() string { return filepath.Join(l.PagesDir, IndexFileName) }

// DocDir is the permanent home of the documentation of one (project, tag) pair.
func (l Layout) DocDir(project, tag string) string {
	return filepath.Join(l.DocsDir(), project, tag)
}

// DocURL is the index-relative link to a relocated doc root.
func DocURL(project, tag, rel string) string {
	if rel == "" || rel == "." {
		return DocsDirName + "/" + project + "/" + tag + "/"
	}
	return DocsDirName + "/" + project + "/" + tag + "/" + rel + "/"
}
