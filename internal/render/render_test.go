package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/state"
)

func testLedger() *state.Store {
	s := state.New()
	s.RecordArtifactPublished("core", "v1.2.0")
	s.RecordArtifactPublished("core", "v1.10.0")
	s.RecordArtifactPublished("core", "v1.9.0")
	s.RecordDocPublished("core", "v1.10.0", []string{"build/docs/javadoc"})
	s.RecordArtifactPublished("Extras", "v0.1")
	s.RecordArtifactPublished("retired", "v3")
	return s
}

func testRenderer(t *testing.T, pagesDir string) *Renderer {
	t.Helper()
	repos := []config.Repository{{
		URL:            "https://example.com/lib.git",
		Description:    "Core **library**",
		GradleProjects: []config.GradleProject{{Name: "core", Path: "core"}, {Name: "Extras", Path: "extras"}},
	}}
	r, err := New(pages.Layout{PagesDir: pagesDir}, config.OutputConfig{Title: "Libraries"}, repos)
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC) }
	return r
}

func TestBuildGroupsAndOrders(t *testing.T) {
	r := testRenderer(t, t.TempDir())
	page := r.Build(testLedger().Snapshot())

	require.Len(t, page.Projects, 3)
	assert.Equal(t, "core", page.Projects[0].Name)
	assert.Equal(t, "Extras", page.Projects[1].Name)
	assert.Equal(t, "retired", page.Projects[2].Name)
	assert.Empty(t, page.Projects[2].Repository)
	assert.Equal(t, "https://example.com/lib.git", page.Projects[0].Repository)

	core := page.Projects[0]
	var tags []string
	for _, v := range core.Versions {
		tags = append(tags, v.Tag)
	}
	assert.Equal(t, []string{"v1.10.0", "v1.9.0", "v1.2.0"}, tags)
	assert.Equal(t, "v1.10.0", core.Latest())
	require.Len(t, core.Versions[0].Docs, 1)
	assert.Equal(t, "javadoc/core/v1.10.0/build/docs/javadoc/", core.Versions[0].Docs[0].URL)

	require.Len(t, page.Repositories, 1)
	assert.Contains(t, string(page.Repositories[0].Description), "<strong>library</strong>")
}

func TestSortVersionsMixedTags(t *testing.T) {
	vs := []VersionView{{Tag: "v-nightly"}, {Tag: "v2.0.0-rc1"}, {Tag: "v2.0.0"}, {Tag: "v1"}, {Tag: "vfoo"}}
	sortVersionsDesc(vs)
	var tags []string
	for _, v := range vs {
		tags = append(tags, v.Tag)
	}
	assert.Equal(t, []string{"v2.0.0", "v2.0.0-rc1", "v1", "vfoo", "v-nightly"}, tags)
}

func TestSortProjectsNumeric(t *testing.T) {
	ps := []ProjectView{{Name: "lib10"}, {Name: "Lib2"}, {Name: "alpha"}}
	sortProjects(ps)
	assert.Equal(t, "alpha", ps[0].Name)
	assert.Equal(t, "Lib2", ps[1].Name)
	assert.Equal(t, "lib10", ps[2].Name)
}

func TestDocTitleFromRelocatedBundle(t *testing.T) {
	pagesDir := t.TempDir()
	docDir := filepath.Join(pagesDir, "javadoc", "core", "v1.10.0", "build", "docs", "javadoc")
	require.NoError(t, os.MkdirAll(docDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "index.html"),
		[]byte("<html><head><title>\n  core 1.10.0\n  API</title></head></html>"), 0o600))

	r := testRenderer(t, pagesDir)
	page := r.Build(testLedger().Snapshot())
	assert.Equal(t, "core 1.10.0 API", page.Projects[0].Versions[0].Docs[0].Title)
}

func TestWriteIndex(t *testing.T) {
	pagesDir := t.TempDir()
	r := testRenderer(t, pagesDir)
	require.NoError(t, r.WriteIndex(testLedger().Snapshot()))

	b, err := os.ReadFile(filepath.Join(pagesDir, "index.html"))
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "<title>Libraries</title>")
	assert.Contains(t, out, `href="javadoc/core/v1.10.0/build/docs/javadoc/"`)
	assert.Contains(t, out, "v1.9.0")
	assert.Contains(t, out, "Generated 2025-01-02 03:04 UTC")
}

func TestRenderEmptyLedger(t *testing.T) {
	r := testRenderer(t, t.TempDir())
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, state.New().Snapshot()))
	assert.Contains(t, buf.String(), "Nothing published yet.")
}

func TestCustomTemplateSeesState(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "custom.tmpl")
	require.NoError(t, os.WriteFile(tmplPath,
		[]byte(`{{ range .State.PublishedMavens }}{{ .Project }}@{{ .Tag }};{{ end }}`), 0o600))

	r, err := New(pages.Layout{PagesDir: dir}, config.OutputConfig{Template: tmplPath}, nil)
	require.NoError(t, err)

	s := state.New()
	s.RecordArtifactPublished("core", "v1")
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, s.Snapshot()))
	assert.Equal(t, "core@v1;", buf.String())
}

func TestMissingCustomTemplate(t *testing.T) {
	_, err := New(pages.Layout{}, config.OutputConfig{Template: filepath.Join(t.TempDir(), "nope")}, nil)
	require.Error(t, err)
}
