package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestExecRunner_ExitCodes(t *testing.T) {
	skipWithoutShell(t)
	r := &ExecRunner{}

	res, err := r.Run(context.Background(), Request{Name: "sh", Args: []string{"-c", "exit 0"}})
	require.NoError(t, err)
	assert.True(t, res.Succeeded())

	res, err = r.Run(context.Background(), Request{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.NoError(t, err, "non-zero exit is not an error")
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Succeeded())
}

func TestExecRunner_StartFailure(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), Request{Name: filepath.Join(t.TempDir(), "does-not-exist")})
	require.Error(t, err)

	_, err = r.Run(context.Background(), Request{})
	require.Error(t, err)
}

func TestExecRunner_DirEnvAndCapture(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("here"), 0o600))

	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out}
	res, err := r.Run(context.Background(), Request{
		Name:    "sh",
		Args:    []string{"-c", `cat marker; printf " $GREETING"`},
		Dir:     dir,
		Env:     map[string]string{"GREETING": "hello"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "here hello", res.Output)
	assert.Equal(t, "here hello", out.String(), "output is passed through as well")
}

func TestExecRunner_QuietCapture(t *testing.T) {
	skipWithoutShell(t)
	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &out}
	res, err := r.Run(context.Background(), Request{Name: "sh", Args: []string{"-c", "echo v1.0"}, Capture: true, Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, "v1.0\n", res.Output)
	assert.Empty(t, out.String())
}

func TestRequestString(t *testing.T) {
	req := Request{Name: "./gradlew", Args: []string{"javadoc", "--stacktrace"}}
	assert.Equal(t, "./gradlew javadoc --stacktrace", req.String())
}

func TestEnvListSorted(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2"}, envList(map[string]string{"B": "2", "A": "1"}))
}
