package pages

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

const (
	// LocalMetadataName is what publishToMavenLocal writes next to artifacts.
	LocalMetadataName = "maven-metadata-local.xml"
	// RemoteMetadataName is what resolvers expect from a remote repository.
	RemoteMetadataName = "maven-metadata.xml"
)

// NormalizeMetadata renames every LocalMetadataName file under root to
// RemoteMetadataName in the same directory, overwriting any existing file.
// It returns the number of files renamed.
func NormalizeMetadata(root string) (int, error) {
	renamed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Name() != LocalMetadataName || !d.Type().IsRegular() {
			return nil
		}
		target := filepath.Join(filepath.Dir(path), RemoteMetadataName)
		if err := os.Rename(path, target); err != nil {
			return err
		}
		renamed++
		slog.Debug("Normalized metadata", logfields.Path(target))
		return nil
	})
	if err != nil {
		return renamed, fmt.Errorf("normalize metadata under %s: %w", root, err)
	}
	return renamed, nil
}
