package publisher

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/artifactpages/internal/cache"
	"git.home.luguber.info/inful/artifactpages/internal/command"
	"git.home.luguber.info/inful/artifactpages/internal/config"
	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
	"git.home.luguber.info/inful/artifactpages/internal/eventstore"
	"git.home.luguber.info/inful/artifactpages/internal/gradle"
	"git.home.luguber.info/inful/artifactpages/internal/metrics"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/render"
	"git.home.luguber.info/inful/artifactpages/internal/state"
	"git.home.luguber.info/inful/artifactpages/internal/vcs"
	"git.home.luguber.info/inful/artifactpages/internal/workspace"
)

// Options injects collaborators into Execute. Zero values select the defaults.
type Options struct {
	Runner   command.Runner
	VCS      vcs.VCS
	Builder  Builder
	Recorder metrics.Recorder
	History  eventstore.Store
	RunID    string
}

// Execute performs one complete publish into layout: load the ledger, run every
// work unit, save the ledger and render the index page.
//
// The ledger is saved and the index rendered after a canceled run too, since
// every unit recorded so far is complete. A cache or metadata failure returns
// before saving.
func Execute(ctx context.Context, cfg *config.Config, layout pages.Layout, opts Options) (Summary, error) {
	if err := os.MkdirAll(layout.PagesDir, 0o750); err != nil {
		return Summary{}, perrors.WorkspaceError("create pages directory", err)
	}

	ledger, err := state.Load(layout.StatePath())
	if err != nil {
		return Summary{}, perrors.StateLoadError(layout.StatePath(), err)
	}

	renderer, err := render.New(layout, cfg.Output, cfg.Repositories)
	if err != nil {
		return Summary{}, perrors.RenderError(err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = command.NewExecRunner()
	}
	v := opts.VCS
	if v == nil {
		if v, err = vcs.New(cfg.Git, runner); err != nil {
			return Summary{}, perrors.ConfigInvalid("git.backend", err)
		}
	}
	builder := opts.Builder
	if builder == nil {
		gb := gradle.NewBuilder(runner, cfg.Build)
		if cfg.Cache.Mode == config.CacheModeProperty {
			gb.WithCacheRoot(layout.ReleaseDir())
		}
		builder = gb
	}

	isolator := cache.Isolator{
		Mode:            cfg.Cache.Mode,
		LocalRepository: cfg.Cache.LocalRepository,
		ReleaseDir:      layout.ReleaseDir(),
	}
	p := New(v, builder, ledger, isolator, layout).
		WithWorkspace(workspace.NewManager(cfg.Workspace.Dir, cfg.Workspace.Keep)).
		WithDocsSearch(cfg.Build.DocsSearch).
		WithRecorder(opts.Recorder).
		WithHistory(opts.History)
	if opts.RunID != "" {
		p.WithRunID(opts.RunID)
	}

	summary, runErr := p.Run(ctx, cfg.Repositories)
	if runErr != nil && !isCanceled(runErr) {
		return summary, runErr
	}

	if err := ledger.Save(layout.StatePath()); err != nil {
		return summary, perrors.StateSaveError(layout.StatePath(), err)
	}
	snap := ledger.Snapshot()
	if opts.Recorder != nil {
		opts.Recorder.SetLedgerSize(len(snap.PublishedMavens), len(snap.PublishedJavadocs))
	}
	if err := renderer.WriteIndex(snap); err != nil {
		return summary, perrors.RenderError(err)
	}

	if runErr != nil {
		return summary, fmt.Errorf("run %s: %w", summary.RunID, runErr)
	}
	return summary, nil
}
