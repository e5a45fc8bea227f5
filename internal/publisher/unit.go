package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/artifactpages/internal/command"
	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/eventstore"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
	"git.home.luguber.info/inful/artifactpages/internal/metrics"
	"git.home.luguber.info/inful/artifactpages/internal/observability"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
)

// workUnit is one (repository, project, tag) triple.
type workUnit struct {
	repository string
	project    config.GradleProject
	tag        string
	cloneDir   string
}

// stepError is a failed unit step.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.step + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

// unitResult is what a unit achieved before finishing or failing.
type unitResult struct {
	artifactBuilt bool
	docsBuilt     bool
	paths         []string
}

func (p *Publisher) processUnit(ctx context.Context, events *eventstore.Emitter, u workUnit, s *Summary) {
	name, tag := u.project.Name, u.tag
	needArtifact := !p.ledger.IsArtifactPublished(name, tag)
	needDocs := !p.ledger.IsDocPublished(name, tag)

	if !needArtifact && !needDocs {
		s.UnitsSkipped++
		p.recorder.IncUnitOutcome(metrics.UnitSkipped)
		observability.DebugContext(ctx, "Work unit already published")
		return
	}

	res, err := p.runUnit(ctx, u, needArtifact, needDocs)
	if res.artifactBuilt {
		s.ArtifactsBuilt++
	}
	if res.docsBuilt {
		s.DocsBuilt++
	}
	if res.artifactBuilt || res.docsBuilt {
		events.Emit(ctx, eventstore.TypeUnitPublished, eventstore.UnitPublished{
			Project: name, Tag: tag, ArtifactBuilt: res.artifactBuilt, DocsBuilt: res.docsBuilt, Paths: res.paths,
		})
	}

	if err != nil {
		step := StepCheckout
		var se *stepError
		if errors.As(err, &se) {
			step = se.step
		}
		s.UnitsFailed++
		s.Failures = append(s.Failures, UnitFailure{Repository: u.repository, Project: name, Tag: tag, Step: step, Err: err})
		p.recorder.IncUnitOutcome(metrics.UnitFailed)
		observability.ErrorContext(observability.WithStage(ctx, step), "Work unit abandoned", logfields.Error(err))
		events.Emit(ctx, eventstore.TypeUnitFailed, eventstore.UnitFailed{Project: name, Tag: tag, Step: step, Error: err.Error()})
		return
	}

	p.recorder.IncUnitOutcome(metrics.UnitPublished)
	observability.InfoContext(ctx, "Work unit published",
		slog.Bool("artifact_built", res.artifactBuilt),
		slog.Bool("docs_built", res.docsBuilt),
		slog.Int("doc_roots", len(res.paths)))
}

// runUnit drives the unit's steps. The artifact is recorded before docs are
// attempted, so a docs failure leaves it published.
func (p *Publisher) runUnit(ctx context.Context, u workUnit, needArtifact, needDocs bool) (unitResult, error) {
	var res unitResult
	name, tag := u.project.Name, u.tag

	if err := p.step(ctx, StepCheckout, func() error {
		if err := p.vcs.Checkout(ctx, u.cloneDir, tag); err != nil {
			return err
		}
		return ensureDir(u.projectDir())
	}); err != nil {
		return res, err
	}

	if needArtifact {
		if err := p.step(ctx, StepBuildArtifact, func() error {
			return succeeded(p.builder.PublishArtifactLocally(ctx, u.projectDir()))
		}); err != nil {
			return res, err
		}
		p.ledger.RecordArtifactPublished(name, tag)
		res.artifactBuilt = true
	}

	if !needDocs {
		return res, nil
	}

	if err := p.step(ctx, StepBuildDocs, func() error {
		return succeeded(p.builder.BuildDocs(ctx, u.projectDir()))
	}); err != nil {
		discardDocRoots(ctx, u.projectDir())
		return res, err
	}

	searchRoot := u.cloneDir
	if p.docsSearch == config.DocsSearchProject {
		searchRoot = u.projectDir()
	}

	var rels []string
	if err := p.step(ctx, StepLocateDocs, func() error {
		var err error
		rels, err = pages.LocateDocRoots(searchRoot)
		return err
	}); err != nil {
		return res, err
	}
	rels = withoutSearchRoot(ctx, searchRoot, rels)
	if len(rels) == 0 {
		observability.WarnContext(ctx, "Documentation task produced no index.html", logfields.Path(searchRoot))
	}

	var recorded []string
	if err := p.step(ctx, StepRelocateDocs, func() error {
		var err error
		recorded, err = pages.RelocateDocRoots(searchRoot, p.layout.DocDir(name, tag), rels)
		return err
	}); err != nil {
		return res, err
	}

	p.ledger.RecordDocPublished(name, tag, recorded)
	res.docsBuilt = true
	res.paths = recorded
	return res, nil
}

// withoutSearchRoot drops the search root from rels. Moving it would take the
// shared checkout, git metadata included, away from the remaining units.
func withoutSearchRoot(ctx context.Context, searchRoot string, rels []string) []string {
	out := rels[:0]
	for _, rel := range rels {
		if rel == pages.SearchRoot {
			observability.WarnContext(ctx, "Ignoring index.html at the documentation search root", logfields.Path(searchRoot))
			continue
		}
		out = append(out, rel)
	}
	return out
}

// discardDocRoots removes bundles a failed documentation build left under
// projectDir so a later unit sharing the checkout cannot pick them up.
func discardDocRoots(ctx context.Context, projectDir string) {
	rels, err := pages.LocateDocRoots(projectDir)
	if err != nil {
		observability.WarnContext(ctx, "Could not scan for partial documentation", logfields.Path(projectDir), logfields.Error(err))
		return
	}
	for _, rel := range rels {
		if rel == pages.SearchRoot {
			continue
		}
		dir := filepath.Join(projectDir, filepath.FromSlash(rel))
		if err := os.RemoveAll(dir); err != nil {
			observability.WarnContext(ctx, "Could not remove partial documentation", logfields.Path(dir), logfields.Error(err))
		}
	}
}

// step times fn and records its result under name.
func (p *Publisher) step(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	observability.DebugContext(observability.WithStage(ctx, name), "Step started")
	err := fn()
	p.recorder.ObserveStepDuration(name, time.Since(start))
	if err != nil {
		p.recorder.IncStepResult(name, metrics.ResultFailed)
		return &stepError{step: name, err: err}
	}
	p.recorder.IncStepResult(name, metrics.ResultSuccess)
	return nil
}

// succeeded turns a non-zero exit into an error.
func succeeded(res command.Result, err error) error {
	if err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("exited with code %d", res.ExitCode)
	}
	return nil
}
