package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultDaemonInterval = time.Hour

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		&RepositoryDefaultApplier{},
		&GitDefaultApplier{},
		&BuildDefaultApplier{},
		&CacheDefaultApplier{},
		&OutputDefaultApplier{},
		&DaemonDefaultApplier{},
		&LoggingDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}

// RepositoryDefaultApplier merges project list spellings and trims paths.
type RepositoryDefaultApplier struct{}

func (r *RepositoryDefaultApplier) Domain() string { return "repositories" }

func (r *RepositoryDefaultApplier) ApplyDefaults(cfg *Config) error {
	for i := range cfg.Repositories {
		repo := &cfg.Repositories[i]
		if len(repo.GradleProjectsAlt) > 0 {
			repo.GradleProjects = append(repo.GradleProjects, repo.GradleProjectsAlt...)
			repo.GradleProjectsAlt = nil
		}
		for j := range repo.GradleProjects {
			p := &repo.GradleProjects[j]
			p.Name = strings.TrimSpace(p.Name)
			if strings.TrimSpace(p.Path) == "" {
				p.Path = "."
			}
		}
	}
	return nil
}

// GitDefaultApplier handles version control defaults.
type GitDefaultApplier struct{}

func (g *GitDefaultApplier) Domain() string { return "git" }

func (g *GitDefaultApplier) ApplyDefaults(cfg *Config) error {
	switch GitBackend(strings.ToLower(string(cfg.Git.Backend))) {
	case GitBackendCLI:
		cfg.Git.Backend = GitBackendCLI
	case "", GitBackendGoGit:
		cfg.Git.Backend = GitBackendGoGit
	default:
		return fmt.Errorf("unsupported git backend: %s", cfg.Git.Backend)
	}
	if cfg.Git.Binary == "" {
		cfg.Git.Binary = "git"
	}
	return nil
}

// BuildDefaultApplier handles Gradle invocation defaults.
type BuildDefaultApplier struct{}

func (b *BuildDefaultApplier) Domain() string { return "build" }

func (b *BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Wrapper == "" {
		cfg.Build.Wrapper = "./gradlew"
	}
	if cfg.Build.PublishTask == "" {
		cfg.Build.PublishTask = "publishToMavenLocal"
	}
	if cfg.Build.DocsTask == "" {
		cfg.Build.DocsTask = "javadoc"
	}
	switch DocsSearch(strings.ToLower(string(cfg.Build.DocsSearch))) {
	case "", DocsSearchClone:
		cfg.Build.DocsSearch = DocsSearchClone
	case DocsSearchProject:
		cfg.Build.DocsSearch = DocsSearchProject
	default:
		return fmt.Errorf("unsupported docs_search: %s", cfg.Build.DocsSearch)
	}
	return nil
}

// CacheDefaultApplier resolves the local repository location from the environment.
type CacheDefaultApplier struct{}

func (c *CacheDefaultApplier) Domain() string { return "cache" }

func (c *CacheDefaultApplier) ApplyDefaults(cfg *Config) error {
	switch CacheMode(strings.ToLower(string(cfg.Cache.Mode))) {
	case "", CacheModeRename:
		cfg.Cache.Mode = CacheModeRename
	case CacheModeProperty:
		cfg.Cache.Mode = CacheModeProperty
	default:
		return fmt.Errorf("unsupported cache mode: %s", cfg.Cache.Mode)
	}

	if cfg.Cache.LocalRepository == "" {
		path, err := DefaultLocalRepository()
		if err != nil {
			return err
		}
		cfg.Cache.LocalRepository = path
	} else {
		cfg.Cache.LocalRepository = expandHome(cfg.Cache.LocalRepository)
	}
	return nil
}

// DefaultLocalRepository returns the Maven local repository used by
// publishToMavenLocal: $HOME/.m2/repository.
func DefaultLocalRepository() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// OutputDefaultApplier handles index page defaults.
type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Title == "" {
		cfg.Output.Title = "Published libraries"
	}
	return nil
}

// DaemonDefaultApplier handles scheduled run defaults.
type DaemonDefaultApplier struct{}

func (d *DaemonDefaultApplier) Domain() string { return "daemon" }

func (d *DaemonDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Daemon.Interval <= 0 {
		cfg.Daemon.Interval = defaultDaemonInterval
	}
	return nil
}

// LoggingDefaultApplier normalizes logging settings.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}
