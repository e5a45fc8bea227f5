package vcs

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/artifactpages/internal/command"
	"git.home.luguber.info/inful/artifactpages/internal/config"
)

// New returns the backend selected by cfg.
func New(cfg config.GitConfig, runner command.Runner) (VCS, error) {
	switch cfg.Backend {
	case config.GitBackendGoGit, "":
		return NewGoGit(os.Stderr), nil
	case config.GitBackendCLI:
		return NewCLI(runner, cfg.Binary), nil
	default:
		return nil, fmt.Errorf("unknown git backend %q", cfg.Backend)
	}
}
