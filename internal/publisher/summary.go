package publisher

import (
	"time"

	"git.home.luguber.info/inful/artifactpages/internal/metrics"
)

// Step names used in logs, metrics and history.
const (
	StepClone         = "clone"
	StepListTags      = "list_tags"
	StepCheckout      = "checkout"
	StepBuildArtifact = "build_artifact"
	StepBuildDocs     = "build_docs"
	StepLocateDocs    = "locate_docs"
	StepRelocateDocs  = "relocate_docs"
)

// UnitFailure describes one abandoned work unit, or a skipped repository when
// Project is empty.
type UnitFailure struct {
	Repository string
	Project    string
	Tag        string
	Step       string
	Err        error
}

// Summary reports what a run did.
type Summary struct {
	RunID              string
	Repositories       int
	RepositoriesFailed int
	ArtifactsBuilt     int
	DocsBuilt          int
	UnitsSkipped       int
	UnitsFailed        int
	MetadataNormalized int
	Failures           []UnitFailure
	Duration           time.Duration
}

// Outcome classifies the run for metrics and history.
func (s Summary) Outcome(err error) metrics.RunOutcome {
	switch {
	case err == nil:
		return metrics.RunCompleted
	case isCanceled(err):
		return metrics.RunCanceled
	default:
		return metrics.RunFailed
	}
}
