// Package command runs external programs as typed steps: a Request names the
// program, its arguments and working directory; a Result carries the exit code.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// Request describes one external command invocation.
type Request struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment.
	Env map[string]string
	// Capture collects combined output into Result.Output in addition to passing it through.
	Capture bool
	// Quiet suppresses the pass-through of output.
	Quiet bool
}

// String renders the request for logs.
func (r Request) String() string {
	return strings.TrimSpace(r.Name + " " + strings.Join(r.Args, " "))
}

// Result is the outcome of a command that started.
type Result struct {
	ExitCode int
	Output   string
}

// Succeeded reports a zero exit code.
func (r Result) Succeeded() bool { return r.ExitCode == 0 }

// Runner executes requests. A non-zero exit is reported through Result.ExitCode with a
// nil error; the error return is reserved for commands that could not be started.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// ExecRunner implements Runner with os/exec. Output is passed through to Stdout/Stderr
// for operator visibility; it is never parsed.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that inherits the process's stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts the command and blocks until it exits or ctx is canceled.
func (r *ExecRunner) Run(ctx context.Context, req Request) (Result, error) {
	if req.Name == "" {
		return Result{}, errors.New("command name is empty")
	}

	// #nosec G204 - commands come from operator configuration
	cmd := exec.CommandContext(ctx, req.Name, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(req.Env)...)
	}

	stdout, stderr := r.writers()
	if req.Quiet {
		stdout, stderr = io.Discard, io.Discard
	}
	captured := &lockedBuffer{}
	if req.Capture {
		stdout = io.MultiWriter(stdout, captured)
		stderr = io.MultiWriter(stderr, captured)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	slog.Debug("Running command", slog.String("command", req.String()), logfields.Path(req.Dir))

	err := cmd.Run()
	res := Result{Output: captured.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 { // killed by signal
			res.ExitCode = 1
		}
		return res, nil
	}
	return res, fmt.Errorf("start %s: %w", req.Name, err)
}

func (r *ExecRunner) writers() (io.Writer, io.Writer) {
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return stdout, stderr
}

// lockedBuffer serializes writes from the stdout and stderr copy goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// envList renders env in a stable order so invocations are reproducible in logs and tests.
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
