package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/eventstore"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// LogLevelEnv overrides the configured log level unless --verbose is given.
const LogLevelEnv = "ARTIFACTPAGES_LOG_LEVEL"

// Global carries process-wide state into every command.
type Global struct {
	Context context.Context
	Out     io.Writer
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"artifactpages.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json); overrides logging.format"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Publish PublishCmd `cmd:"" default:"withargs" help:"Build and publish every unpublished tag, then render the index"`
	Render  RenderCmd  `cmd:"" help:"Re-render the index page from the ledger without building"`
	Status  StatusCmd  `cmd:"" help:"Show the publication ledger and recent run history"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Daemon  DaemonCmd  `cmd:"" help:"Publish on a schedule and whenever the configuration changes"`
}

// AfterApply runs after flag parsing; sets up logging before any config is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(c.Verbose, c.LogFormat, config.LoggingConfig{})
	return nil
}

// loadConfig loads the configuration file and re-applies logging settings
// with the file's logging section as the fallback.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	setupLogging(c.Verbose, c.LogFormat, cfg.Logging)
	return cfg, nil
}

// resolveLogging applies flag > environment > file precedence.
func resolveLogging(verbose bool, format string, file config.LoggingConfig) (slog.Level, config.LogFormat) {
	level := file.Level
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = config.NormalizeLogLevel(env)
	}
	if verbose {
		level = config.LogLevelDebug
	}

	outFormat := file.Format
	if format != "" {
		outFormat = config.NormalizeLogFormat(format)
	}
	return level.SlogLevel(), outFormat
}

func setupLogging(verbose bool, format string, file config.LoggingConfig) {
	level, outFormat := resolveLogging(verbose, format, file)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if outFormat == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openHistory opens the configured event log. History is best effort: a store
// that cannot be opened is logged and replaced by one that discards events.
func openHistory(cfg config.HistoryConfig) eventstore.Store {
	if cfg.Path == "" {
		return eventstore.NopStore{}
	}
	store, err := eventstore.NewSQLiteStore(cfg.Path)
	if err != nil {
		slog.Warn("Run history disabled", logfields.Path(cfg.Path), logfields.Error(err))
		return eventstore.NopStore{}
	}
	return store
}

func closeHistory(store eventstore.Store) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close run history", logfields.Error(err))
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
