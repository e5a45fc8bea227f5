package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

const (
	runStatusRunning = "running"
)

// UnitFailure is one abandoned work unit of a run.
type UnitFailure struct {
	Project string `json:"project"`
	Tag     string `json:"tag"`
	Step    string `json:"step"`
	Error   string `json:"error"`
}

// RunSummary is a read model summarizing a completed or in-progress run.
type RunSummary struct {
	RunID              string        `json:"run_id"`
	Status             string        `json:"status"` // running, or the RunCompleted outcome
	StartedAt          time.Time     `json:"started_at"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	Duration           time.Duration `json:"duration,omitempty"`
	Repositories       int           `json:"repositories"`
	ArtifactsBuilt     int           `json:"artifacts_built"`
	DocsBuilt          int           `json:"docs_built"`
	UnitsSkipped       int           `json:"units_skipped"`
	UnitsFailed        int           `json:"units_failed"`
	RepositoriesFailed int           `json:"repositories_failed"`
	Failures           []UnitFailure `json:"failures,omitempty"`
	ErrorMessage       string        `json:"error_message,omitempty"`
}

// RunHistory rebuilds run summaries from the events in a store, newest first.
func RunHistory(ctx context.Context, store Store, limit int) ([]*RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	events, err := store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}

	runs := make(map[string]*RunSummary)
	for _, ev := range events {
		applyEvent(runs, ev)
	}

	history := make([]*RunSummary, 0, len(runs))
	for _, r := range runs {
		history = append(history, r)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].StartedAt.After(history[j].StartedAt) })
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func applyEvent(runs map[string]*RunSummary, ev Event) {
	runID := ev.RunID()
	if runID == "" {
		return
	}
	summary, ok := runs[runID]
	if !ok {
		summary = &RunSummary{RunID: runID, Status: runStatusRunning, StartedAt: ev.Timestamp()}
		runs[runID] = summary
	}

	switch ev.Type() {
	case TypeRunStarted:
		var p RunStarted
		if json.Unmarshal(ev.Payload(), &p) == nil {
			summary.Repositories = p.Repositories
		}
		summary.StartedAt = ev.Timestamp()
	case TypeUnitFailed:
		var p UnitFailed
		if json.Unmarshal(ev.Payload(), &p) == nil {
			summary.Failures = append(summary.Failures, UnitFailure(p))
		}
	case TypeRunCompleted:
		var p RunCompleted
		if json.Unmarshal(ev.Payload(), &p) != nil {
			return
		}
		completed := ev.Timestamp()
		summary.CompletedAt = &completed
		summary.Status = p.Outcome
		summary.Duration = time.Duration(p.DurationMS) * time.Millisecond
		summary.ArtifactsBuilt = p.ArtifactsBuilt
		summary.DocsBuilt = p.DocsBuilt
		summary.UnitsSkipped = p.UnitsSkipped
		summary.UnitsFailed = p.UnitsFailed
		summary.RepositoriesFailed = p.RepositoriesFailed
		summary.ErrorMessage = p.Error
	}
}
