package commands

import (
	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/render"
	"git.home.luguber.info/inful/artifactpages/internal/state"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	PagesDir string `arg:"" name:"pages-dir" help:"Directory holding the published site" type:"path"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	layout := pages.NewLayout(r.PagesDir)
	ledger, err := state.Load(layout.StatePath())
	if err != nil {
		return perrors.StateLoadError(layout.StatePath(), err)
	}

	renderer, err := render.New(layout, cfg.Output, cfg.Repositories)
	if err != nil {
		return perrors.RenderError(err)
	}
	if err := renderer.WriteIndex(ledger.Snapshot()); err != nil {
		return perrors.RenderError(err)
	}

	printf(g.out(), "Wrote %s\n", layout.IndexPath())
	return nil
}
