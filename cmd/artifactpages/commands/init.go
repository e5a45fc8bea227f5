package commands

import (
	"path/filepath"

	"git.home.luguber.info/inful/artifactpages/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory for the generated config file (written as artifactpages.yaml)"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	cfgPath := root.Config
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, "artifactpages.yaml")
	}

	w := g.out()
	printf(w, "Writing configuration to %s\n", cfgPath)
	if err := config.Init(cfgPath, i.Force); err != nil {
		printf(w, "Initialization failed\n")
		return err
	}
	printf(w, "initialized successfully\n")
	return nil
}
