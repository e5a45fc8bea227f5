package vcs

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/artifactpages/internal/command"
)

// CLI implements VCS by running the git binary.
type CLI struct {
	runner command.Runner
	binary string
}

// NewCLI creates a VCS that invokes binary (usually "git") through runner.
func NewCLI(runner command.Runner, binary string) *CLI {
	if binary == "" {
		binary = "git"
	}
	return &CLI{runner: runner, binary: binary}
}

// Clone runs `git clone url dest`.
func (c *CLI) Clone(ctx context.Context, url, dest string) error {
	return c.run(ctx, "clone", command.Request{Name: c.binary, Args: []string{"clone", url, dest}})
}

// ListTags runs `git tag --list` and keeps version tags in printed order.
func (c *CLI) ListTags(ctx context.Context, repoPath string) ([]string, error) {
	res, err := c.runner.Run(ctx, command.Request{
		Name:    c.binary,
		Args:    []string{"tag", "--list"},
		Dir:     repoPath,
		Capture: true,
		Quiet:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("git tag: %w", err)
	}
	if !res.Succeeded() {
		return nil, &ExitError{Op: "tag --list", ExitCode: res.ExitCode}
	}

	var tags []string
	sc := bufio.NewScanner(strings.NewReader(res.Output))
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			tags = append(tags, line)
		}
	}
	return FilterVersionTags(tags), sc.Err()
}

// Checkout runs `git checkout tag` in repoPath.
func (c *CLI) Checkout(ctx context.Context, repoPath, tag string) error {
	return c.run(ctx, "checkout", command.Request{Name: c.binary, Args: []string{"checkout", tag}, Dir: repoPath})
}

func (c *CLI) run(ctx context.Context, op string, req command.Request) error {
	res, err := c.runner.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("git %s: %w", op, err)
	}
	if !res.Succeeded() {
		return &ExitError{Op: op, ExitCode: res.ExitCode}
	}
	return nil
}
