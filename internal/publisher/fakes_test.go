package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/artifactpages/internal/command"
)

// fakeVCS "clones" by creating the configured project directories.
type fakeVCS struct {
	mu          sync.Mutex
	tags        map[string][]string
	projectDirs []string
	cloneErr    map[string]error
	checkoutErr map[string]error
	current     string
	clones      int
	checkouts   []string
}

func (f *fakeVCS) Clone(_ context.Context, url, dest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clones++
	if err := f.cloneErr[url]; err != nil {
		return err
	}
	for _, d := range append([]string{"."}, f.projectDirs...) {
		if err := os.MkdirAll(filepath.Join(dest, d), 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Join(dest, ".origin"), []byte(url), 0o600)
}

func (f *fakeVCS) ListTags(_ context.Context, repoPath string) ([]string, error) {
	url, err := os.ReadFile(filepath.Join(repoPath, ".origin"))
	if err != nil {
		return nil, err
	}
	tags, ok := f.tags[string(url)]
	if !ok {
		return nil, errors.New("tag listing failed")
	}
	return tags, nil
}

func (f *fakeVCS) Checkout(_ context.Context, _, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkoutErr[tag]; err != nil {
		return err
	}
	f.current = tag
	f.checkouts = append(f.checkouts, tag)
	return nil
}

func (f *fakeVCS) tag() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

type builderCall struct {
	task string
	dir  string
	tag  string
}

// fakeBuilder publishes into localRepo and writes Javadoc bundles under the project.
type fakeBuilder struct {
	vcs         *fakeVCS
	localRepo   string
	failPublish map[string]bool // "<project dir base>@<tag>"
	failDocs    map[string]bool
	partialDocs map[string]bool // writes the bundle, then fails
	calls       []builderCall
}

func (b *fakeBuilder) key(dir string) string { return filepath.Base(dir) + "@" + b.vcs.tag() }

func (b *fakeBuilder) PublishArtifactLocally(_ context.Context, dir string) (command.Result, error) {
	b.calls = append(b.calls, builderCall{task: "publish", dir: dir, tag: b.vcs.tag()})
	if b.failPublish[b.key(dir)] {
		return command.Result{ExitCode: 1}, nil
	}
	target := filepath.Join(b.localRepo, "com", "example", filepath.Base(dir), b.vcs.tag())
	if err := os.MkdirAll(target, 0o750); err != nil {
		return command.Result{}, err
	}
	if err := os.WriteFile(filepath.Join(target, "maven-metadata-local.xml"), []byte("<metadata/>"), 0o600); err != nil {
		return command.Result{}, err
	}
	return command.Result{}, nil
}

func (b *fakeBuilder) BuildDocs(_ context.Context, dir string) (command.Result, error) {
	b.calls = append(b.calls, builderCall{task: "docs", dir: dir, tag: b.vcs.tag()})
	if b.failDocs[b.key(dir)] {
		return command.Result{ExitCode: 2}, nil
	}
	root := filepath.Join(dir, "build", "docs", "javadoc")
	for _, rel := range []string{"index.html", "pkg/index.html"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return command.Result{}, err
		}
		content := "<title>" + filepath.Base(dir) + " " + b.vcs.tag() + "</title>"
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			return command.Result{}, err
		}
	}
	if b.partialDocs[b.key(dir)] {
		return command.Result{ExitCode: 2}, nil
	}
	return command.Result{}, nil
}

// siteBuilder succeeds without touching the local repository and writes one
// Javadoc bundle per project.
type siteBuilder struct{}

func (siteBuilder) PublishArtifactLocally(context.Context, string) (command.Result, error) {
	return command.Result{}, nil
}

func (siteBuilder) BuildDocs(_ context.Context, dir string) (command.Result, error) {
	root := filepath.Join(dir, "build", "docs", "javadoc")
	if err := os.MkdirAll(root, 0o750); err != nil {
		return command.Result{}, err
	}
	return command.Result{}, os.WriteFile(filepath.Join(root, "index.html"), []byte("<title>api</title>"), 0o600)
}

func (b *fakeBuilder) count(task string) int {
	n := 0
	for _, c := range b.calls {
		if c.task == task {
			n++
		}
	}
	return n
}
