package config

// Repository represents a Git repository holding one or more publishable Gradle projects
type Repository struct {
	URL            string          `yaml:"url"`
	Description    string          `yaml:"description,omitempty"` // Markdown shown on the index page
	GradleProjects []GradleProject `yaml:"gradleProjects"`

	// snake_case spelling; merged into GradleProjects when defaults are applied
	GradleProjectsAlt []GradleProject `yaml:"gradle_projects,omitempty"`
}

// GradleProject is a publishable unit. Name keys the publication ledger, Path locates
// the build root inside the cloned checkout.
type GradleProject struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}
