package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/fsutil"
	helpers "git.home.luguber.info/inful/artifactpages/internal/testutil/testutils"
)

type fixture struct {
	home    string
	pages   string
	iso     Isolator
	m2Local string
}

func newFixture(t *testing.T, mode config.CacheMode) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		home:  filepath.Join(root, "home"),
		pages: filepath.Join(root, "pages"),
	}
	f.m2Local = filepath.Join(f.home, ".m2", "repository")
	f.iso = Isolator{Mode: mode, LocalRepository: f.m2Local, ReleaseDir: filepath.Join(f.pages, "release")}
	return f
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestRenameLeaseRestoresExistingRepository(t *testing.T) {
	f := newFixture(t, config.CacheModeRename)
	write(t, filepath.Join(f.m2Local, "operator.jar"), "mine")
	write(t, filepath.Join(f.iso.ReleaseDir, "com", "old.pom"), "published")

	lease, err := f.iso.Acquire()
	require.NoError(t, err)
	require.NotEmpty(t, lease.Backup())
	assert.Empty(t, lease.CacheRoot())

	// builds see the release area at the local repository location
	helpers.NewFileAssertions(t, f.m2Local).
		AssertFileContains("com/old.pom", "published").
		AssertNotExists("operator.jar")
	helpers.NewFileAssertions(t, lease.Backup()).AssertFileContains("operator.jar", "mine")

	write(t, filepath.Join(f.m2Local, "com", "new.pom"), "built")

	require.NoError(t, lease.Release())

	helpers.NewFileAssertions(t, f.iso.ReleaseDir).
		AssertFileContains("com/old.pom", "published").
		AssertFileContains("com/new.pom", "built")
	helpers.NewFileAssertions(t, f.m2Local).
		AssertFileContains("operator.jar", "mine").
		AssertNotExists("com")
	helpers.NewFileAssertions(t, filepath.Dir(f.m2Local)).AssertNotExists(filepath.Base(lease.Backup()))
}

func TestRenameLeaseWithoutExistingRepository(t *testing.T) {
	f := newFixture(t, config.CacheModeRename)

	lease, err := f.iso.Acquire()
	require.NoError(t, err)
	assert.Empty(t, lease.Backup())
	helpers.NewFileAssertions(t, f.home).AssertDirExists(".m2/repository")

	require.NoError(t, lease.Release())

	// pre-run identity: absent
	helpers.NewFileAssertions(t, f.home).AssertNotExists(".m2/repository")
	helpers.NewFileAssertions(t, f.pages).AssertDirExists("release")
}

func TestReleaseIsIdempotent(t *testing.T) {
	f := newFixture(t, config.CacheModeRename)
	lease, err := f.iso.Acquire()
	require.NoError(t, err)

	require.NoError(t, lease.Release())
	require.NoError(t, lease.Release())

	var nilLease *Lease
	require.NoError(t, nilLease.Release())
}

func TestReleaseAttemptsBothMoves(t *testing.T) {
	f := newFixture(t, config.CacheModeRename)
	write(t, filepath.Join(f.m2Local, "operator.jar"), "mine")

	lease, err := f.iso.Acquire()
	require.NoError(t, err)

	// something removed the swapped-in directory mid-run
	require.NoError(t, os.RemoveAll(f.m2Local))

	err = lease.Release()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "move release directory back")

	// the backup is still restored
	helpers.NewFileAssertions(t, f.m2Local).AssertFileContains("operator.jar", "mine")
}

func TestAcquireRollsBackBackupOnFailure(t *testing.T) {
	f := newFixture(t, config.CacheModeRename)
	write(t, filepath.Join(f.m2Local, "operator.jar"), "mine")

	moveDir = func(string, string) error { return errors.New("device busy") }
	t.Cleanup(func() { moveDir = fsutil.MoveDir })

	_, err := f.iso.Acquire()
	require.ErrorContains(t, err, "device busy")

	helpers.NewFileAssertions(t, f.m2Local).AssertFileContains("operator.jar", "mine")
	entries, err := os.ReadDir(filepath.Dir(f.m2Local))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "backup sibling left behind")
}

func TestPropertyModeMovesNothing(t *testing.T) {
	f := newFixture(t, config.CacheModeProperty)
	write(t, filepath.Join(f.m2Local, "operator.jar"), "mine")

	lease, err := f.iso.Acquire()
	require.NoError(t, err)
	assert.Equal(t, f.iso.ReleaseDir, lease.CacheRoot())
	assert.Empty(t, lease.Backup())

	helpers.NewFileAssertions(t, f.m2Local).AssertFileContains("operator.jar", "mine")
	helpers.NewFileAssertions(t, f.pages).AssertDirExists("release")
	require.NoError(t, lease.Release())
	helpers.NewFileAssertions(t, f.m2Local).AssertFileContains("operator.jar", "mine")
}
