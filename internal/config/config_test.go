package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
repositories:
  - url: https://example.com/lib.git
    gradleProjects:
      - name: lib-core
        path: core
`))
	require.NoError(t, err)

	assert.Equal(t, GitBackendGoGit, cfg.Git.Backend)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, "./gradlew", cfg.Build.Wrapper)
	assert.Equal(t, "publishToMavenLocal", cfg.Build.PublishTask)
	assert.Equal(t, "javadoc", cfg.Build.DocsTask)
	assert.Equal(t, DocsSearchClone, cfg.Build.DocsSearch)
	assert.Equal(t, CacheModeRename, cfg.Cache.Mode)
	assert.Equal(t, filepath.Join(".m2", "repository"), lastTwo(cfg.Cache.LocalRepository))
	assert.Equal(t, time.Hour, cfg.Daemon.Interval)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestParse_AcceptsOriginalJSONConfig(t *testing.T) {
	cfg, err := Parse([]byte(`{
  "repositories": [
    {"url": "https://example.com/a.git", "gradleProjects": [{"name": "a", "path": "."}]},
    {"url": "https://example.com/b.git", "gradleProjects": [{"name": "b-api", "path": "api"}, {"name": "b-impl", "path": "impl"}]}
  ]
}`))
	require.NoError(t, err)
	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "b-impl", cfg.Repositories[1].GradleProjects[1].Name)
	assert.Equal(t, "impl", cfg.Repositories[1].GradleProjects[1].Path)
}

func TestParse_SnakeCaseProjectsAndEnvExpansion(t *testing.T) {
	t.Setenv("LIB_HOST", "git.example.org")
	cfg, err := Parse([]byte(`
repositories:
  - url: https://${LIB_HOST}/lib.git
    gradle_projects:
      - name: lib
daemon:
  interval: 15m
cache:
  mode: property
  local_repository: /srv/m2
`))
	require.NoError(t, err)
	repo := cfg.Repositories[0]
	assert.Equal(t, "https://git.example.org/lib.git", repo.URL)
	require.Len(t, repo.GradleProjects, 1)
	assert.Equal(t, ".", repo.GradleProjects[0].Path)
	assert.Nil(t, repo.GradleProjectsAlt)
	assert.Equal(t, 15*time.Minute, cfg.Daemon.Interval)
	assert.Equal(t, CacheModeProperty, cfg.Cache.Mode)
	assert.Equal(t, "/srv/m2", cfg.Cache.LocalRepository)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"no repositories", `repositories: []`, "repositories"},
		{"missing url", "repositories:\n  - gradleProjects: [{name: a}]", "repositories[0].url"},
		{"no projects", "repositories:\n  - url: x", "repositories[0].gradleProjects"},
		{"nested name", "repositories:\n  - url: x\n    gradleProjects: [{name: a/b}]", "repositories[0].gradleProjects[0].name"},
		{"escaping path", "repositories:\n  - url: x\n    gradleProjects: [{name: a, path: ../up}]", "repositories[0].gradleProjects[0].path"},
		{"duplicate name", "repositories:\n  - url: x\n    gradleProjects: [{name: a}]\n  - url: y\n    gradleProjects: [{name: a}]", "repositories[1].gradleProjects[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			pe, ok := perrors.As(err)
			require.True(t, ok, "expected PublishError, got %T", err)
			assert.Equal(t, perrors.CategoryValidation, pe.Category)
			assert.Equal(t, tt.field, pe.Context["field"])
		})
	}
}

func TestParse_UnknownModes(t *testing.T) {
	_, err := Parse([]byte("repositories:\n  - url: x\n    gradleProjects: [{name: a}]\ncache:\n  mode: symlink"))
	require.Error(t, err)
	_, err = Parse([]byte("repositories:\n  - url: x\n    gradleProjects: [{name: a}]\ngit:\n  backend: svn"))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, perrors.IsCategory(err, perrors.CategoryConfig))
}

func TestInit_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "second init without force must fail")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Repositories, 1)
	assert.Len(t, cfg.Repositories[0].GradleProjects, 2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("chatty"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("json"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}

func lastTwo(p string) string {
	return filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p))
}
