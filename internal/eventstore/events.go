package eventstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// Event type names.
const (
	TypeRunStarted       = "RunStarted"
	TypeRepositoryCloned = "RepositoryCloned"
	TypeRepositoryFailed = "RepositoryFailed"
	TypeUnitPublished    = "UnitPublished"
	TypeUnitFailed       = "UnitFailed"
	TypeRunCompleted     = "RunCompleted"
)

// RunStarted is emitted once the ledger is loaded and the cache lease acquired.
type RunStarted struct {
	PagesDir     string `json:"pages_dir"`
	Repositories int    `json:"repositories"`
}

// RepositoryCloned is emitted after a successful clone.
type RepositoryCloned struct {
	URL        string `json:"url"`
	Path       string `json:"path"`
	Tags       int    `json:"tags"`
	DurationMS int64  `json:"duration_ms"`
}

// RepositoryFailed is emitted when a repository is skipped for the rest of the run.
type RepositoryFailed struct {
	URL   string `json:"url"`
	Step  string `json:"step"`
	Error string `json:"error"`
}

// UnitPublished is emitted when a work unit built its artifact, its docs, or both.
type UnitPublished struct {
	Project       string   `json:"project"`
	Tag           string   `json:"tag"`
	ArtifactBuilt bool     `json:"artifact_built"`
	DocsBuilt     bool     `json:"docs_built"`
	Paths         []string `json:"paths,omitempty"`
}

// UnitFailed is emitted when a work unit is abandoned.
type UnitFailed struct {
	Project string `json:"project"`
	Tag     string `json:"tag"`
	Step    string `json:"step"`
	Error   string `json:"error"`
}

// RunCompleted is emitted after the cache lease is released.
type RunCompleted struct {
	Outcome            string `json:"outcome"`
	ArtifactsBuilt     int    `json:"artifacts_built"`
	DocsBuilt          int    `json:"docs_built"`
	UnitsSkipped       int    `json:"units_skipped"`
	UnitsFailed        int    `json:"units_failed"`
	RepositoriesFailed int    `json:"repositories_failed"`
	DurationMS         int64  `json:"duration_ms"`
	Error              string `json:"error,omitempty"`
}

// Emitter appends typed events for one run. Failures are logged, never returned.
type Emitter struct {
	store Store
	runID string
}

// NewEmitter binds store to runID. A nil store discards events.
func NewEmitter(store Store, runID string) *Emitter {
	if store == nil {
		store = NopStore{}
	}
	return &Emitter{store: store, runID: runID}
}

// RunID returns the run the emitter writes for.
func (e *Emitter) RunID() string { return e.runID }

// Emit marshals payload and appends it under eventType.
func (e *Emitter) Emit(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to marshal event payload", logfields.RunID(e.runID), logfields.Name(eventType), logfields.Error(err))
		return
	}
	// history survives a canceled run
	if err := e.store.Append(context.WithoutCancel(ctx), e.runID, eventType, data, nil); err != nil {
		slog.Warn("Failed to append event", logfields.RunID(e.runID), logfields.Name(eventType), logfields.Error(err))
	}
}
