package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Repositories []Repository    `yaml:"repositories"`
	Git          GitConfig       `yaml:"git"`
	Build        BuildConfig     `yaml:"build"`
	Cache        CacheConfig     `yaml:"cache"`
	Workspace    WorkspaceConfig `yaml:"workspace"`
	Output       OutputConfig    `yaml:"output"`
	History      HistoryConfig   `yaml:"history"`
	Metrics      MetricsConfig   `yaml:"metrics"`
	Daemon       DaemonConfig    `yaml:"daemon"`
	Logging      LoggingConfig   `yaml:"logging"`
}

// Load loads configuration from the specified file. JSON files are accepted as well
// since YAML is a superset of JSON.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, perrors.ConfigNotFound(configPath)
	}

	// #nosec G304 - path comes from the operator's command line
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, perrors.ConfigInvalid(configPath, fmt.Errorf("read: %w", err))
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, perrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// Parse decodes configuration bytes, expands environment variables, applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Repositories: []Repository{
			{
				URL:         "https://github.com/example/library.git",
				Description: "Core library. See the **javadoc** for the API.",
				GradleProjects: []GradleProject{
					{Name: "library-core", Path: "core"},
					{Name: "library-extras", Path: "extras"},
				},
			},
		},
		Git:   GitConfig{Backend: GitBackendGoGit},
		Cache: CacheConfig{Mode: CacheModeRename},
		Output: OutputConfig{
			Title: "Published libraries",
		},
		Daemon: DaemonConfig{Interval: defaultDaemonInterval, WatchConfig: true},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
