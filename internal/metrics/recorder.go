package metrics

import "time"

// ResultLabel enumerates step result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// UnitOutcome is the final disposition of one (project, tag) work unit.
type UnitOutcome string

const (
	UnitPublished UnitOutcome = "published" // something was built this run
	UnitSkipped   UnitOutcome = "skipped"   // already fully published
	UnitFailed    UnitOutcome = "failed"
)

// RunOutcome is the final disposition of a whole run.
type RunOutcome string

const (
	RunCompleted RunOutcome = "completed"
	RunFailed    RunOutcome = "failed"
	RunCanceled  RunOutcome = "canceled"
)

// Recorder defines observability hooks for runs, steps and clones.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	IncUnitOutcome(outcome UnitOutcome)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
	ObserveCloneDuration(repo string, d time.Duration, success bool)
	SetLedgerSize(artifacts, docs int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration)        {}
func (NoopRecorder) IncStepResult(string, ResultLabel)                {}
func (NoopRecorder) IncUnitOutcome(UnitOutcome)                       {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                 {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                         {}
func (NoopRecorder) ObserveCloneDuration(string, time.Duration, bool) {}
func (NoopRecorder) SetLedgerSize(int, int)                           {}
