package commands

import (
	"context"
	"io"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
	"git.home.luguber.info/inful/artifactpages/internal/metrics"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/publisher"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	PagesDir string `arg:"" name:"pages-dir" help:"Directory holding the published site" type:"path"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	runner := newPublishRunner(p.PagesDir)
	summary, err := runner.Run(g.ctx(), cfg)
	printSummary(g.out(), summary)
	// unit failures are reported above; only run-level errors fail the process
	return err
}

// publishRunner executes publish runs into one pages directory, sharing a
// metrics registry across runs.
type publishRunner struct {
	layout   pages.Layout
	registry *prom.Registry
	recorder *metrics.PrometheusRecorder

	// overridable in tests
	options func(opts publisher.Options) publisher.Options
}

func newPublishRunner(pagesDir string) *publishRunner {
	reg := metrics.NewRegistry()
	return &publishRunner{
		layout:   pages.NewLayout(pagesDir),
		registry: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
	}
}

// Run opens the run history, executes one publish and exports the metrics textfile.
func (r *publishRunner) Run(ctx context.Context, cfg *config.Config) (publisher.Summary, error) {
	history := openHistory(cfg.History)
	defer closeHistory(history)

	opts := publisher.Options{Recorder: r.recorder, History: history}
	if r.options != nil {
		opts = r.options(opts)
	}

	slog.Info("Publishing", logfields.Path(r.layout.PagesDir), slog.Int("repositories", len(cfg.Repositories)))
	summary, runErr := publisher.Execute(ctx, cfg, r.layout, opts)

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, r.registry); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	return summary, runErr
}

func printSummary(w io.Writer, s publisher.Summary) {
	if s.RunID == "" {
		return
	}
	printf(w, "Run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))
	printf(w, "  repositories: %d (%d failed)\n", s.Repositories, s.RepositoriesFailed)
	printf(w, "  artifacts built: %d\n", s.ArtifactsBuilt)
	printf(w, "  docs built: %d\n", s.DocsBuilt)
	printf(w, "  units skipped: %d\n", s.UnitsSkipped)
	printf(w, "  units failed: %d\n", s.UnitsFailed)
	for _, f := range s.Failures {
		if f.Project == "" {
			printf(w, "  FAILED %s at %s: %v\n", f.Repository, f.Step, f.Err)
			continue
		}
		printf(w, "  FAILED %s %s at %s: %v\n", f.Project, f.Tag, f.Step, f.Err)
	}
}
