package vcs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// GoGit implements VCS with go-git.
type GoGit struct {
	progress io.Writer
}

// NewGoGit creates a go-git backed VCS. Clone progress is written to progress when non-nil.
func NewGoGit(progress io.Writer) *GoGit {
	return &GoGit{progress: progress}
}

// Clone clones url into dest.
func (g *GoGit) Clone(ctx context.Context, url, dest string) error {
	slog.Debug("Cloning repository", logfields.URL(url), logfields.Path(dest))
	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:      url,
		Progress: g.progress,
		Tags:     git.AllTags,
	})
	if err != nil {
		return classifyCloneError(url, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Repository cloned", logfields.URL(url), slog.String("commit", ref.Hash().String()[:8]), logfields.Path(dest))
	} else {
		slog.Info("Repository cloned", logfields.URL(url), logfields.Path(dest))
	}
	return nil
}

// ListTags lists version tags in `git tag --list` order.
func (g *GoGit) ListTags(_ context.Context, repoPath string) ([]string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	sort.Strings(names)
	return FilterVersionTags(names), nil
}

// Checkout checks out the commit tag points to. Annotated tags are peeled to their commit.
func (g *GoGit) Checkout(_ context.Context, repoPath, tag string) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	hash, err := resolveTagCommit(repo, tag)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: hash, Force: true}); err != nil {
		return fmt.Errorf("checkout %s: %w", tag, err)
	}
	slog.Debug("Checked out tag", logfields.Tag(tag), slog.String("commit", hash.String()[:8]))
	return nil
}

func resolveTagCommit(repo *git.Repository, tag string) (plumbing.Hash, error) {
	ref, err := repo.Tag(tag)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve tag %s: %w", tag, err)
	}
	obj, err := repo.TagObject(ref.Hash())
	switch err {
	case nil:
		commit, cerr := obj.Commit()
		if cerr != nil {
			return plumbing.ZeroHash, fmt.Errorf("peel tag %s: %w", tag, cerr)
		}
		return commit.Hash, nil
	case plumbing.ErrObjectNotFound:
		// lightweight tag: the reference points at the commit itself
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, fmt.Errorf("read tag %s: %w", tag, err)
	}
}
