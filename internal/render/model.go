package render

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/artifactpages/internal/state"
)

// Page is the template context of the index page.
type Page struct {
	Title        string
	BaseURL      string
	GeneratedAt  time.Time
	Repositories []RepositoryView
	Projects     []ProjectView
	State        state.State
}

// RepositoryView is a configured repository and the projects it publishes.
type RepositoryView struct {
	URL         string
	Description template.HTML
	Projects    []string
}

// ProjectView lists the published versions of one project, newest first.
type ProjectView struct {
	Name       string
	Repository string // empty when the project is no longer configured
	Versions   []VersionView
}

// Latest returns the newest published version, if any.
func (p ProjectView) Latest() string {
	if len(p.Versions) == 0 {
		return ""
	}
	return p.Versions[0].Tag
}

// VersionView is one published tag of a project.
type VersionView struct {
	Tag      string
	Artifact bool
	Docs     []DocLink
}

// DocLink points at one relocated doc root.
type DocLink struct {
	Path  string
	URL   string
	Title string
}
