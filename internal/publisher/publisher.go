package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/artifactpages/internal/cache"
	"git.home.luguber.info/inful/artifactpages/internal/command"
	"git.home.luguber.info/inful/artifactpages/internal/config"
	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
	"git.home.luguber.info/inful/artifactpages/internal/eventstore"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
	"git.home.luguber.info/inful/artifactpages/internal/metrics"
	"git.home.luguber.info/inful/artifactpages/internal/observability"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/state"
	"git.home.luguber.info/inful/artifactpages/internal/vcs"
	"git.home.luguber.info/inful/artifactpages/internal/workspace"
)

// Builder runs the build tool steps of a work unit.
type Builder interface {
	PublishArtifactLocally(ctx context.Context, projectDir string) (command.Result, error)
	BuildDocs(ctx context.Context, projectDir string) (command.Result, error)
}

// Publisher processes configured repositories against a publication ledger.
type Publisher struct {
	vcs        vcs.VCS
	builder    Builder
	ledger     *state.Store
	isolator   cache.Isolator
	layout     pages.Layout
	workspace  *workspace.Manager
	docsSearch config.DocsSearch
	recorder   metrics.Recorder
	history    eventstore.Store
	runID      string
}

// New creates a Publisher. The workspace defaults to the system temp dir and
// metrics and history to no-ops.
func New(v vcs.VCS, b Builder, ledger *state.Store, isolator cache.Isolator, layout pages.Layout) *Publisher {
	return &Publisher{
		vcs:        v,
		builder:    b,
		ledger:     ledger,
		isolator:   isolator,
		layout:     layout,
		workspace:  workspace.NewManager("", false),
		docsSearch: config.DocsSearchClone,
		recorder:   metrics.NoopRecorder{},
		history:    eventstore.NopStore{},
		runID:      uuid.NewString(),
	}
}

// WithWorkspace sets the manager clones are made in.
func (p *Publisher) WithWorkspace(m *workspace.Manager) *Publisher {
	p.workspace = m
	return p
}

// WithDocsSearch selects the root walked for generated documentation.
func (p *Publisher) WithDocsSearch(mode config.DocsSearch) *Publisher {
	p.docsSearch = mode
	return p
}

// WithRecorder sets the metrics recorder.
func (p *Publisher) WithRecorder(r metrics.Recorder) *Publisher {
	if r != nil {
		p.recorder = r
	}
	return p
}

// WithHistory sets the event store runs are logged to.
func (p *Publisher) WithHistory(s eventstore.Store) *Publisher {
	if s != nil {
		p.history = s
	}
	return p
}

// WithRunID overrides the generated run ID.
func (p *Publisher) WithRunID(id string) *Publisher {
	p.runID = id
	return p
}

// RunID returns the ID this publisher's run is logged under.
func (p *Publisher) RunID() string { return p.runID }

// Run processes every repository and returns what was done. The returned error
// is non-nil only when the cache lease or workspace could not be managed, when
// the release metadata could not be normalized, or when ctx was canceled; unit
// and repository failures are reported in the Summary.
func (p *Publisher) Run(ctx context.Context, repos []config.Repository) (summary Summary, err error) {
	start := time.Now()
	ctx = observability.WithRunID(ctx, p.runID)
	events := eventstore.NewEmitter(p.history, p.runID)
	summary = Summary{RunID: p.runID, Repositories: len(repos)}

	defer func() {
		summary.Duration = time.Since(start)
		p.finish(ctx, events, &summary, err)
	}()

	if err := p.workspace.Create(); err != nil {
		return summary, perrors.WorkspaceError("create", err)
	}
	defer func() {
		if cerr := p.workspace.Cleanup(); cerr != nil {
			observability.WarnContext(ctx, "Workspace cleanup failed", logfields.Error(cerr))
		}
	}()

	lease, err := p.isolator.Acquire()
	if err != nil {
		return summary, perrors.CacheSwapError("acquire", err)
	}
	// no-op once released below; covers panics and early returns
	defer func() { _ = lease.Release() }()

	events.Emit(ctx, eventstore.TypeRunStarted, eventstore.RunStarted{PagesDir: p.layout.PagesDir, Repositories: len(repos)})
	observability.InfoContext(ctx, "Publish run started", slog.Int("repositories", len(repos)))

	for _, repo := range repos {
		if ctx.Err() != nil {
			break
		}
		p.processRepository(ctx, events, repo, &summary)
	}

	if err := lease.Release(); err != nil {
		return summary, perrors.CacheSwapError("release", err)
	}

	n, err := pages.NormalizeMetadata(p.layout.ReleaseDir())
	if err != nil {
		return summary, perrors.MetadataError(err)
	}
	summary.MetadataNormalized = n

	if cerr := ctx.Err(); cerr != nil {
		return summary, fmt.Errorf("publish run interrupted: %w", cerr)
	}
	return summary, nil
}

func (p *Publisher) finish(ctx context.Context, events *eventstore.Emitter, s *Summary, err error) {
	outcome := s.Outcome(err)
	p.recorder.ObserveRunDuration(s.Duration)
	p.recorder.IncRunOutcome(outcome)

	completed := eventstore.RunCompleted{
		Outcome:            string(outcome),
		ArtifactsBuilt:     s.ArtifactsBuilt,
		DocsBuilt:          s.DocsBuilt,
		UnitsSkipped:       s.UnitsSkipped,
		UnitsFailed:        s.UnitsFailed,
		RepositoriesFailed: s.RepositoriesFailed,
		DurationMS:         s.Duration.Milliseconds(),
	}
	if err != nil {
		completed.Error = err.Error()
	}
	events.Emit(ctx, eventstore.TypeRunCompleted, completed)

	observability.InfoContext(ctx, "Publish run finished",
		slog.String("outcome", string(outcome)),
		slog.Int("artifacts_built", s.ArtifactsBuilt),
		slog.Int("docs_built", s.DocsBuilt),
		slog.Int("units_skipped", s.UnitsSkipped),
		slog.Int("units_failed", s.UnitsFailed),
		slog.Int("repositories_failed", s.RepositoriesFailed),
		logfields.DurationMS(float64(s.Duration.Milliseconds())))
}

func (p *Publisher) processRepository(ctx context.Context, events *eventstore.Emitter, repo config.Repository, s *Summary) {
	ctx = observability.WithRepository(ctx, repo.URL)

	cloneDir, err := p.workspace.CloneDir()
	if err != nil {
		p.repositoryFailed(ctx, events, repo, StepClone, err, s)
		return
	}

	cloneStart := time.Now()
	err = p.vcs.Clone(ctx, repo.URL, cloneDir)
	cloneDuration := time.Since(cloneStart)
	p.recorder.ObserveCloneDuration(repo.URL, cloneDuration, err == nil)
	if err != nil {
		p.repositoryFailed(ctx, events, repo, StepClone, err, s)
		return
	}

	tags, err := p.vcs.ListTags(ctx, cloneDir)
	if err != nil {
		p.repositoryFailed(ctx, events, repo, StepListTags, err, s)
		return
	}
	events.Emit(ctx, eventstore.TypeRepositoryCloned, eventstore.RepositoryCloned{
		URL: repo.URL, Path: cloneDir, Tags: len(tags), DurationMS: cloneDuration.Milliseconds(),
	})
	observability.InfoContext(ctx, "Repository ready", slog.Int("tags", len(tags)), logfields.Path(cloneDir))

	for _, project := range repo.GradleProjects {
		for _, tag := range tags {
			if ctx.Err() != nil {
				return
			}
			u := workUnit{repository: repo.URL, project: project, tag: tag, cloneDir: cloneDir}
			p.processUnit(observability.WithUnit(ctx, project.Name, tag), events, u, s)
		}
	}
}

func (p *Publisher) repositoryFailed(ctx context.Context, events *eventstore.Emitter, repo config.Repository, step string, err error, s *Summary) {
	s.RepositoriesFailed++
	s.Failures = append(s.Failures, UnitFailure{Repository: repo.URL, Step: step, Err: err})
	p.recorder.IncStepResult(step, metrics.ResultFailed)
	observability.ErrorContext(observability.WithStage(ctx, step), "Repository skipped", logfields.Error(err))
	events.Emit(ctx, eventstore.TypeRepositoryFailed, eventstore.RepositoryFailed{URL: repo.URL, Step: step, Error: err.Error()})
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (u workUnit) projectDir() string {
	return filepath.Join(u.cloneDir, filepath.FromSlash(u.project.Path))
}

// ensureDir reports a missing project path as a step error instead of letting
// the build tool fail with a less obvious message.
func ensureDir(dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
