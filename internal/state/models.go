package state

// PublishedMaven records a published artifact. The JSON key "repository" holds
// the Gradle project name.
type PublishedMaven struct {
	Project string `json:"repository"`
	Tag     string `json:"tag"`
}

// PublishedJavadoc records published documentation and the doc roots, relative
// to javadoc/<project>/<tag>/, it was relocated to.
type PublishedJavadoc struct {
	Project string   `json:"repository"`
	Tag     string   `json:"tag"`
	Paths   []string `json:"paths"`
}

// State is the serialized ledger.
type State struct {
	PublishedJavadocs []PublishedJavadoc `json:"publishedJavadocs"`
	PublishedMavens   []PublishedMaven   `json:"publishedMavens"`
}

type unit struct {
	project string
	tag     string
}

func (s *State) clone() State {
	out := State{
		PublishedJavadocs: make([]PublishedJavadoc, len(s.PublishedJavadocs)),
		PublishedMavens:   make([]PublishedMaven, len(s.PublishedMavens)),
	}
	copy(out.PublishedMavens, s.PublishedMavens)
	for i, d := range s.PublishedJavadocs {
		d.Paths = append([]string{}, d.Paths...)
		out.PublishedJavadocs[i] = d
	}
	return out
}
