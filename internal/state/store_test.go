package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Empty(t, snap.PublishedMavens)
	assert.Empty(t, snap.PublishedJavadocs)
	assert.False(t, s.IsArtifactPublished("core", "v1"))
	assert.False(t, s.IsDocPublished("core", "v1"))
}

func TestLoadEmptyAndNullLists(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	s, err := Load(empty)
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().PublishedMavens)

	nulls := filepath.Join(dir, "nulls.json")
	require.NoError(t, os.WriteFile(nulls, []byte(`{"publishedJavadocs":null,"publishedMavens":null}`), 0o600))
	s, err = Load(nulls)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.json")
	require.NoError(t, s.Save(out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"publishedJavadocs":[],"publishedMavens":[]}`, string(b))
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadExistingLedgerFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ledger := `{
  "publishedJavadocs": [
    {"repository": "core", "tag": "v1.0", "paths": ["build/docs/javadoc"]},
    {"repository": "core", "tag": "v1.0", "paths": ["other"]}
  ],
  "publishedMavens": [
    {"repository": "core", "tag": "v1.0"},
    {"repository": "core", "tag": "v1.0"},
    {"repository": "extras", "tag": "v2.0"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(ledger), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.IsArtifactPublished("core", "v1.0"))
	assert.True(t, s.IsArtifactPublished("extras", "v2.0"))
	assert.True(t, s.IsDocPublished("core", "v1.0"))
	assert.False(t, s.IsDocPublished("extras", "v2.0"))

	snap := s.Snapshot()
	assert.Len(t, snap.PublishedMavens, 2)
	require.Len(t, snap.PublishedJavadocs, 1)
	assert.Equal(t, []string{"build/docs/javadoc"}, snap.PublishedJavadocs[0].Paths)
}

func TestRecordIsIdempotent(t *testing.T) {
	s := New()
	s.RecordArtifactPublished("core", "v1")
	s.RecordArtifactPublished("core", "v1")
	s.RecordDocPublished("core", "v1", []string{"a"})
	s.RecordDocPublished("core", "v1", []string{"b"})

	snap := s.Snapshot()
	assert.Equal(t, []PublishedMaven{{Project: "core", Tag: "v1"}}, snap.PublishedMavens)
	assert.Equal(t, []PublishedJavadoc{{Project: "core", Tag: "v1", Paths: []string{"a"}}}, snap.PublishedJavadocs)
}

func TestSaveLoadPreservesLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages", "state.json")
	s := New()
	s.RecordArtifactPublished("core", "v1")
	s.RecordArtifactPublished("core", "v2")
	s.RecordDocPublished("core", "v1", []string{"a", "a/b"})
	require.NoError(t, s.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"publishedMavens"`)
	assert.Contains(t, string(b), `"repository": "core"`)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	s.RecordDocPublished("core", "v1", []string{"a"})

	snap := s.Snapshot()
	snap.PublishedJavadocs[0].Paths[0] = "mutated"
	snap.PublishedMavens = append(snap.PublishedMavens, PublishedMaven{Project: "x", Tag: "y"})

	again := s.Snapshot()
	assert.Equal(t, "a", again.PublishedJavadocs[0].Paths[0])
	assert.Empty(t, again.PublishedMavens)
}

func TestRecordedPathsAreCopied(t *testing.T) {
	s := New()
	paths := []string{"a"}
	s.RecordDocPublished("core", "v1", paths)
	paths[0] = "changed"
	assert.Equal(t, []string{"a"}, s.Snapshot().PublishedJavadocs[0].Paths)
}
