package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/artifactpages/cmd/artifactpages/commands"
	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
	"git.home.luguber.info/inful/artifactpages/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("artifactpages"),
		kong.Description("Publish every version tag of configured Gradle libraries as a static Maven repository with Javadoc pages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Context: ctx, Out: os.Stdout}, cli)
	stop()

	perrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
