package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"git.home.luguber.info/inful/artifactpages/internal/fsutil"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
	"git.home.luguber.info/inful/artifactpages/internal/util/sets"
)

// Store wraps a State with (project, tag) lookups.
type Store struct {
	mu        sync.RWMutex
	state     State
	artifacts sets.Set[unit]
	docs      sets.Set[unit]
}

// New returns an empty ledger.
func New() *Store {
	return &Store{
		state:     State{PublishedJavadocs: []PublishedJavadoc{}, PublishedMavens: []PublishedMaven{}},
		artifacts: sets.New[unit](),
		docs:      sets.New[unit](),
	}
}

// Load reads the ledger at path. A missing or empty file yields an empty ledger.
// Duplicate entries are dropped, the first occurrence wins.
func Load(path string) (*Store, error) {
	// #nosec G304 - path is the pages directory's state file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No publication state yet, starting empty", logfields.Path(path))
			return New(), nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	s := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var raw State
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	for _, m := range raw.PublishedMavens {
		s.RecordArtifactPublished(m.Project, m.Tag)
	}
	for _, d := range raw.PublishedJavadocs {
		s.RecordDocPublished(d.Project, d.Tag, d.Paths)
	}

	slog.Info("Publication state loaded",
		logfields.Path(path),
		slog.Int("artifacts", len(s.state.PublishedMavens)),
		slog.Int("docs", len(s.state.PublishedJavadocs)))
	return s, nil
}

// Save writes the whole ledger to path via a temporary file and rename.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(&s.state, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// IsArtifactPublished reports whether the artifact of (project, tag) was published.
func (s *Store) IsArtifactPublished(project, tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifacts.Has(unit{project, tag})
}

// IsDocPublished reports whether the documentation of (project, tag) was published.
func (s *Store) IsDocPublished(project, tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs.Has(unit{project, tag})
}

// RecordArtifactPublished marks the artifact of (project, tag) published. Repeat calls are no-ops.
func (s *Store) RecordArtifactPublished(project, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.artifacts.Insert(unit{project, tag}) {
		return
	}
	s.state.PublishedMavens = append(s.state.PublishedMavens, PublishedMaven{Project: project, Tag: tag})
}

// RecordDocPublished marks the documentation of (project, tag) published with its
// relocated doc roots. The first record for a pair wins.
func (s *Store) RecordDocPublished(project, tag string, paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.docs.Insert(unit{project, tag}) {
		return
	}
	s.state.PublishedJavadocs = append(s.state.PublishedJavadocs, PublishedJavadoc{
		Project: project,
		Tag:     tag,
		Paths:   append([]string{}, paths...),
	})
}

// Snapshot returns a deep copy of the ledger, safe to hand to a renderer.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}
