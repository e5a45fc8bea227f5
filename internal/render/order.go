package render

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortVersionsDesc orders tags newest first. Tags that parse as semantic
// versions come first; the rest follow in reverse byte order.
func sortVersionsDesc(versions []VersionView) {
	parsed := make(map[string]*semver.Version, len(versions))
	for _, v := range versions {
		if sv, err := semver.NewVersion(strings.TrimPrefix(v.Tag, "v")); err == nil {
			parsed[v.Tag] = sv
		}
	}
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := parsed[versions[i].Tag], parsed[versions[j].Tag]
		switch {
		case a != nil && b != nil:
			if a.Equal(b) {
				return versions[i].Tag > versions[j].Tag
			}
			return a.GreaterThan(b)
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return versions[i].Tag > versions[j].Tag
		}
	})
}

// sortProjects orders projects by name for human readers: case-insensitive and
// with digit runs compared numerically (lib2 before lib10).
func sortProjects(projects []ProjectView) {
	c := collate.New(language.English, collate.IgnoreCase, collate.Numeric)
	sort.SliceStable(projects, func(i, j int) bool {
		return c.CompareString(projects[i].Name, projects[j].Name) < 0
	})
}
