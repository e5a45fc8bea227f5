// Package gradle drives the Gradle wrapper of a checked-out project: publishing
// artifacts to the local Maven repository and generating Javadoc.
package gradle

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/artifactpages/internal/command"
	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// Builder invokes Gradle tasks through a command.Runner.
type Builder struct {
	runner      command.Runner
	wrapper     string
	publishTask string
	docsTask    string
	args        []string
	env         map[string]string
	cacheRoot   string
}

// NewBuilder creates a Builder from build configuration.
func NewBuilder(runner command.Runner, cfg config.BuildConfig) *Builder {
	return &Builder{
		runner:      runner,
		wrapper:     cfg.Wrapper,
		publishTask: cfg.PublishTask,
		docsTask:    cfg.DocsTask,
		args:        append([]string(nil), cfg.Args...),
		env:         cfg.Env,
	}
}

// WithCacheRoot makes every invocation use dir as the Maven local repository
// (-Dmaven.repo.local) instead of the shared default location.
func (b *Builder) WithCacheRoot(dir string) *Builder {
	b.cacheRoot = dir
	return b
}

// PublishArtifactLocally runs the publish task in projectDir.
func (b *Builder) PublishArtifactLocally(ctx context.Context, projectDir string) (command.Result, error) {
	return b.run(ctx, projectDir, b.publishTask)
}

// BuildDocs runs the documentation task in projectDir.
func (b *Builder) BuildDocs(ctx context.Context, projectDir string) (command.Result, error) {
	return b.run(ctx, projectDir, b.docsTask)
}

// Request returns the invocation for task in projectDir.
func (b *Builder) Request(projectDir, task string) command.Request {
	args := []string{task}
	args = append(args, b.args...)
	if b.cacheRoot != "" {
		args = append(args, "-Dmaven.repo.local="+b.cacheRoot)
	}
	return command.Request{
		Name: b.wrapper,
		Args: args,
		Dir:  projectDir,
		Env:  b.env,
	}
}

func (b *Builder) run(ctx context.Context, projectDir, task string) (command.Result, error) {
	req := b.Request(projectDir, task)
	slog.Debug("Invoking gradle", slog.String("task", task), logfields.Path(projectDir))
	res, err := b.runner.Run(ctx, req)
	if err != nil {
		return res, fmt.Errorf("gradle %s: %w", task, err)
	}
	return res, nil
}
