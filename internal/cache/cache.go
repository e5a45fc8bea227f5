// Package cache isolates the build tool's local Maven repository for the length
// of a publish run.
//
// In rename mode the operator's local repository is moved aside to a
// UUID-named sibling and the pages release directory takes its place, so every
// publishToMavenLocal lands directly in the release area. Release moves both
// back. The backup is never deleted: after a crash between Acquire and Release
// the operator restores it by hand.
//
// In property mode nothing is moved; the release directory is handed to every
// build as -Dmaven.repo.local instead.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/fsutil"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// moveDir is swapped in tests to simulate a failing move.
var moveDir = fsutil.MoveDir

// Isolator swaps the release directory into the local repository location.
type Isolator struct {
	Mode            config.CacheMode
	LocalRepository string
	ReleaseDir      string
}

// Lease is one acquired isolation. Release must be called exactly once on every
// exit path; further calls are no-ops.
type Lease struct {
	iso      Isolator
	backup   string
	swapped  bool
	released bool
}

// Acquire performs the swap. On failure any partial move is rolled back.
func (i Isolator) Acquire() (*Lease, error) {
	if err := os.MkdirAll(i.ReleaseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create release directory: %w", err)
	}

	lease := &Lease{iso: i}
	if i.Mode == config.CacheModeProperty {
		slog.Debug("Local repository passed per build", logfields.Path(i.ReleaseDir))
		return lease, nil
	}

	exists, err := fsutil.Exists(i.LocalRepository)
	if err != nil {
		return nil, fmt.Errorf("stat local repository: %w", err)
	}
	if exists {
		backup := filepath.Join(filepath.Dir(i.LocalRepository), uuid.NewString())
		if err := os.Rename(i.LocalRepository, backup); err != nil {
			return nil, fmt.Errorf("back up local repository: %w", err)
		}
		lease.backup = backup
		slog.Info("Local repository moved aside", logfields.Path(i.LocalRepository), slog.String("backup", backup))
	}

	if err := os.MkdirAll(filepath.Dir(i.LocalRepository), 0o750); err != nil {
		return nil, lease.rollback(fmt.Errorf("create local repository parent: %w", err))
	}
	if err := moveDir(i.ReleaseDir, i.LocalRepository); err != nil {
		return nil, lease.rollback(fmt.Errorf("move release directory into local repository: %w", err))
	}
	lease.swapped = true
	slog.Info("Release directory swapped in", logfields.Path(i.LocalRepository))
	return lease, nil
}

func (l *Lease) rollback(cause error) error {
	if l.backup == "" {
		return cause
	}
	if err := os.Rename(l.backup, l.iso.LocalRepository); err != nil {
		return errors.Join(cause, fmt.Errorf("restore backup %s: %w", l.backup, err))
	}
	return cause
}

// CacheRoot is the local repository directory builds must use explicitly, or
// empty when the swap already put the release directory in place.
func (l *Lease) CacheRoot() string {
	if l.iso.Mode == config.CacheModeProperty {
		return l.iso.ReleaseDir
	}
	return ""
}

// Backup returns the path the operator's local repository was moved to, if any.
func (l *Lease) Backup() string { return l.backup }

// Release moves the release directory back under the pages directory and then
// restores the backup. Both moves are attempted; their errors are joined.
func (l *Lease) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true

	var errs []error
	if l.swapped {
		if err := moveDir(l.iso.LocalRepository, l.iso.ReleaseDir); err != nil {
			errs = append(errs, fmt.Errorf("move release directory back: %w", err))
		} else {
			slog.Info("Release directory restored", logfields.Path(l.iso.ReleaseDir))
		}
	}
	if l.backup != "" {
		if err := os.Rename(l.backup, l.iso.LocalRepository); err != nil {
			errs = append(errs, fmt.Errorf("restore local repository from %s: %w", l.backup, err))
		} else {
			slog.Info("Local repository restored", logfields.Path(l.iso.LocalRepository))
		}
	}
	return errors.Join(errs...)
}
