package config

import (
	"fmt"
	"path/filepath"
	"strings"

	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateRepositories(); err != nil {
		return err
	}
	return cv.validateCache()
}

// validateRepositories checks URLs and project declarations. Project names key the
// publication ledger, so they must be unique across all repositories.
func (cv *configurationValidator) validateRepositories() error {
	if len(cv.config.Repositories) == 0 {
		return perrors.ValidationFailed("repositories", "at least one repository must be configured")
	}

	names := make(map[string]string)
	for i, repo := range cv.config.Repositories {
		if strings.TrimSpace(repo.URL) == "" {
			return perrors.ValidationFailed(fmt.Sprintf("repositories[%d].url", i), "url cannot be empty")
		}
		if len(repo.GradleProjects) == 0 {
			return perrors.ValidationFailed(fmt.Sprintf("repositories[%d].gradleProjects", i), "no gradle projects declared").
				WithContext("url", repo.URL)
		}
		for j, p := range repo.GradleProjects {
			field := fmt.Sprintf("repositories[%d].gradleProjects[%d]", i, j)
			if p.Name == "" {
				return perrors.ValidationFailed(field+".name", "name cannot be empty")
			}
			if strings.ContainsAny(p.Name, `/\`) || p.Name == "." || p.Name == ".." {
				return perrors.ValidationFailed(field+".name", "name must be a single path segment")
			}
			if filepath.IsAbs(p.Path) || escapesRoot(p.Path) {
				return perrors.ValidationFailed(field+".path", "path must stay inside the repository")
			}
			if other, dup := names[p.Name]; dup {
				return perrors.ValidationFailed(field+".name", "duplicate project name").
					WithContext("name", p.Name).
					WithContext("first_url", other)
			}
			names[p.Name] = repo.URL
		}
	}
	return nil
}

func (cv *configurationValidator) validateCache() error {
	if cv.config.Cache.LocalRepository == "" {
		return perrors.ValidationFailed("cache.local_repository", "local repository path could not be resolved")
	}
	return nil
}

func escapesRoot(p string) bool {
	clean := filepath.ToSlash(filepath.Clean(p))
	return clean == ".." || strings.HasPrefix(clean, "../")
}
