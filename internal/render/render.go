package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/artifactpages/internal/config"
	"git.home.luguber.info/inful/artifactpages/internal/fsutil"
	"git.home.luguber.info/inful/artifactpages/internal/logfields"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/state"
)

//go:embed index.html.tmpl
var defaultTemplate string

// Renderer builds and writes the index page.
type Renderer struct {
	layout pages.Layout
	output config.OutputConfig
	repos  []config.Repository
	tmpl   *template.Template
	md     goldmark.Markdown
	now    func() time.Time
}

// New parses the configured template, or the built-in one when none is set.
func New(layout pages.Layout, output config.OutputConfig, repos []config.Repository) (*Renderer, error) {
	src := defaultTemplate
	name := "index.html"
	if output.Template != "" {
		// #nosec G304 - operator-configured template path
		data, err := os.ReadFile(output.Template)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", output.Template, err)
		}
		src = string(data)
		name = filepath.Base(output.Template)
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Renderer{
		layout: layout,
		output: output,
		repos:  repos,
		tmpl:   tmpl,
		md:     goldmark.New(),
		now:    time.Now,
	}, nil
}

// Build assembles the template context from a ledger snapshot.
func (r *Renderer) Build(snap state.State) Page {
	page := Page{
		Title:       r.output.Title,
		BaseURL:     r.output.BaseURL,
		GeneratedAt: r.now(),
		State:       snap,
	}

	owner := make(map[string]string)
	for _, repo := range r.repos {
		view := RepositoryView{URL: repo.URL, Description: r.markdown(repo.Description)}
		for _, p := range repo.GradleProjects {
			view.Projects = append(view.Projects, p.Name)
			owner[p.Name] = repo.URL
		}
		page.Repositories = append(page.Repositories, view)
	}

	projects := make(map[string]*ProjectView)
	versions := make(map[string]map[string]*VersionView)
	version := func(project, tag string) *VersionView {
		pv, ok := projects[project]
		if !ok {
			pv = &ProjectView{Name: project, Repository: owner[project]}
			projects[project] = pv
			versions[project] = make(map[string]*VersionView)
		}
		vv, ok := versions[project][tag]
		if !ok {
			vv = &VersionView{Tag: tag}
			versions[project][tag] = vv
		}
		return vv
	}

	for _, m := range snap.PublishedMavens {
		version(m.Project, m.Tag).Artifact = true
	}
	for _, d := range snap.PublishedJavadocs {
		vv := version(d.Project, d.Tag)
		for _, rel := range d.Paths {
			vv.Docs = append(vv.Docs, r.docLink(d.Project, d.Tag, rel))
		}
	}

	for name, pv := range projects {
		for _, vv := range versions[name] {
			pv.Versions = append(pv.Versions, *vv)
		}
		sortVersionsDesc(pv.Versions)
		page.Projects = append(page.Projects, *pv)
	}
	sortProjects(page.Projects)
	return page
}

func (r *Renderer) docLink(project, tag, rel string) DocLink {
	link := DocLink{Path: rel, URL: pages.DocURL(project, tag, rel)}
	index := filepath.Join(r.layout.DocDir(project, tag), filepath.FromSlash(rel), pages.DocSentinel)
	title, err := docTitle(index)
	if err != nil {
		slog.Debug("No doc title", logfields.Path(index), logfields.Error(err))
	}
	link.Title = title
	return link
}

func (r *Renderer) markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		slog.Warn("Failed to render description", logfields.Error(err))
		return template.HTML(template.HTMLEscapeString(src)) // #nosec G203 - escaped above
	}
	// goldmark drops raw HTML unless WithUnsafe is set
	return template.HTML(buf.String()) // #nosec G203 - sanitized by goldmark defaults
}

// Render executes the template for snap into w.
func (r *Renderer) Render(w io.Writer, snap state.State) error {
	if err := r.tmpl.Execute(w, r.Build(snap)); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

// WriteIndex renders snap to the pages directory's index.html.
func (r *Renderer) WriteIndex(snap state.State) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, snap); err != nil {
		return err
	}
	path := r.layout.IndexPath()
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	slog.Info("Index page written", logfields.Path(path))
	return nil
}
