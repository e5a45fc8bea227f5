package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var fixtureSignature = object.Signature{Name: "Fixture", Email: "fixture@example.com"}

// TaggedRepo is a throwaway git repository used as a clone source in tests.
type TaggedRepo struct {
	t    *testing.T
	Repo *git.Repository
	Path string
}

// NewTaggedRepo initializes an empty repository in a temporary directory.
func NewTaggedRepo(t *testing.T) *TaggedRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	return &TaggedRepo{t: t, Repo: repo, Path: dir}
}

// Commit writes files (slash-separated path to content) and commits them.
func (r *TaggedRepo) Commit(msg string, files map[string]string) plumbing.Hash {
	r.t.Helper()

	for rel, content := range files {
		full := filepath.Join(r.Path, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			r.t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			r.t.Fatalf("write %s: %v", rel, err)
		}
	}

	w, err := r.Repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to get worktree: %v", err)
	}
	if _, err := w.Add("."); err != nil {
		r.t.Fatalf("failed to add files: %v", err)
	}
	sig := fixtureSignature
	sig.When = time.Now()
	hash, err := w.Commit(msg, &git.CommitOptions{Author: &sig})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

// Tag creates a lightweight tag at hash.
func (r *TaggedRepo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.Repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("failed to create tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag object at hash.
func (r *TaggedRepo) AnnotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	sig := fixtureSignature
	sig.When = time.Now()
	if _, err := r.Repo.CreateTag(name, hash, &git.CreateTagOptions{Tagger: &sig, Message: "release " + name}); err != nil {
		r.t.Fatalf("failed to create annotated tag %s: %v", name, err)
	}
}
