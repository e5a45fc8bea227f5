package gradle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/artifactpages/internal/command"
	"git.home.luguber.info/inful/artifactpages/internal/config"
)

type recordingRunner struct {
	requests []command.Request
	result   command.Result
	err      error
}

func (r *recordingRunner) Run(_ context.Context, req command.Request) (command.Result, error) {
	r.requests = append(r.requests, req)
	return r.result, r.err
}

func defaultBuild() config.BuildConfig {
	return config.BuildConfig{Wrapper: "./gradlew", PublishTask: "publishToMavenLocal", DocsTask: "javadoc"}
}

func TestBuilder_Tasks(t *testing.T) {
	runner := &recordingRunner{}
	b := NewBuilder(runner, defaultBuild())

	_, err := b.PublishArtifactLocally(context.Background(), "/work/lib/core")
	require.NoError(t, err)
	_, err = b.BuildDocs(context.Background(), "/work/lib/core")
	require.NoError(t, err)

	require.Len(t, runner.requests, 2)
	assert.Equal(t, command.Request{Name: "./gradlew", Args: []string{"publishToMavenLocal"}, Dir: "/work/lib/core"}, runner.requests[0])
	assert.Equal(t, []string{"javadoc"}, runner.requests[1].Args)
}

func TestBuilder_ExtraArgsAndCacheRoot(t *testing.T) {
	cfg := defaultBuild()
	cfg.Args = []string{"--no-daemon"}
	cfg.Env = map[string]string{"JAVA_HOME": "/opt/jdk"}
	b := NewBuilder(&recordingRunner{}, cfg).WithCacheRoot("/pages/release")

	req := b.Request("/p", "javadoc")
	assert.Equal(t, []string{"javadoc", "--no-daemon", "-Dmaven.repo.local=/pages/release"}, req.Args)
	assert.Equal(t, "/opt/jdk", req.Env["JAVA_HOME"])
}

func TestBuilder_PropagatesExitCodeAndStartErrors(t *testing.T) {
	runner := &recordingRunner{result: command.Result{ExitCode: 1}}
	b := NewBuilder(runner, defaultBuild())
	res, err := b.PublishArtifactLocally(context.Background(), "/p")
	require.NoError(t, err)
	assert.False(t, res.Succeeded())

	runner.err = errors.New("exec: ./gradlew: no such file")
	_, err = b.BuildDocs(context.Background(), "/p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradle javadoc")
}
