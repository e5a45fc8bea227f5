package config

import "time"

// GitBackend selects how version control operations are performed.
type GitBackend string

const (
	GitBackendGoGit GitBackend = "gogit"
	GitBackendCLI   GitBackend = "cli"
)

// GitConfig configures version control access.
type GitConfig struct {
	Backend GitBackend `yaml:"backend"`
	Binary  string     `yaml:"binary,omitempty"` // git executable for the cli backend
}

// DocsSearch selects the root walked for generated documentation bundles.
type DocsSearch string

const (
	DocsSearchClone   DocsSearch = "clone"
	DocsSearchProject DocsSearch = "project"
)

// BuildConfig configures the Gradle invocations.
type BuildConfig struct {
	Wrapper     string            `yaml:"wrapper"`
	PublishTask string            `yaml:"publish_task"`
	DocsTask    string            `yaml:"docs_task"`
	Args        []string          `yaml:"args,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	DocsSearch  DocsSearch        `yaml:"docs_search"`
}

// CacheMode selects how the build tool's local repository is isolated.
type CacheMode string

const (
	// CacheModeRename moves the shared local repository aside for the run.
	CacheModeRename CacheMode = "rename"
	// CacheModeProperty passes the release directory to every build as its local repository.
	CacheModeProperty CacheMode = "property"
)

// CacheConfig configures local repository isolation.
type CacheConfig struct {
	Mode            CacheMode `yaml:"mode"`
	LocalRepository string    `yaml:"local_repository,omitempty"`
}

// WorkspaceConfig configures where repositories are cloned.
type WorkspaceConfig struct {
	Dir  string `yaml:"dir,omitempty"`
	Keep bool   `yaml:"keep,omitempty"` // keep clones after the run
}

// OutputConfig configures the generated index page.
type OutputConfig struct {
	Title    string `yaml:"title"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Template string `yaml:"template,omitempty"` // html/template file replacing the built-in page
}

// HistoryConfig configures the run event log. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // node_exporter textfile written after each run
	Listen   string `yaml:"listen,omitempty"`   // daemon mode /metrics address
}

// DaemonConfig configures scheduled runs.
type DaemonConfig struct {
	Interval    time.Duration `yaml:"interval"`
	WatchConfig bool          `yaml:"watch_config"`
}
