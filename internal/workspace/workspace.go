package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// Manager handles the per-run workspace directory.
type Manager struct {
	baseDir string
	runDir  string
	keep    bool
}

// NewManager creates a workspace manager rooted at baseDir (the system temp dir when empty).
func NewManager(baseDir string, keep bool) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir, keep: keep}
}

// Create creates the timestamped run directory.
func (m *Manager) Create() error {
	timestamp := time.Now().Format("20060102-150405")
	runDir, err := os.MkdirTemp(m.baseDir, fmt.Sprintf("artifactpages-%s-", timestamp))
	if err != nil {
		if mkErr := os.MkdirAll(m.baseDir, 0o750); mkErr != nil {
			return fmt.Errorf("failed to create workspace base directory: %w", mkErr)
		}
		if runDir, err = os.MkdirTemp(m.baseDir, fmt.Sprintf("artifactpages-%s-", timestamp)); err != nil {
			return fmt.Errorf("failed to create workspace directory: %w", err)
		}
	}

	m.runDir = runDir
	slog.Info("Created workspace", logfields.Path(runDir))
	return nil
}

// GetPath returns the path to the run directory.
func (m *Manager) GetPath() string {
	return m.runDir
}

// CloneDir returns a fresh, not yet existing, UUID-named path for one clone.
func (m *Manager) CloneDir() (string, error) {
	if m.runDir == "" {
		return "", fmt.Errorf("workspace not created")
	}
	return filepath.Join(m.runDir, uuid.NewString()), nil
}

// Cleanup removes the run directory unless the manager keeps clones.
func (m *Manager) Cleanup() error {
	if m.runDir == "" {
		return nil
	}

	if m.keep {
		slog.Info("Keeping workspace", logfields.Path(m.runDir))
		return nil
	}

	if err := os.RemoveAll(m.runDir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}

	slog.Info("Cleaned up workspace", logfields.Path(m.runDir))
	m.runDir = ""
	return nil
}
