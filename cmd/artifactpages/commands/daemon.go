package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	PagesDir string `arg:"" name:"pages-dir" help:"Directory holding the published site" type:"path"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	runner := newPublishRunner(d.PagesDir)
	out := g.out()
	run := func(ctx context.Context, cfg *config.Config) error {
		summary, err := runner.Run(ctx, cfg)
		printSummary(out, summary)
		return err
	}

	slog.Info("Starting daemon mode", slog.String("config", root.Config))
	return daemon.New(root.Config, cfg, run).
		WithRegistry(runner.registry).
		Run(g.ctx())
}
