package commands

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	perrors "git.home.luguber.info/inful/artifactpages/internal/errors"
	"git.home.luguber.info/inful/artifactpages/internal/eventstore"
	"git.home.luguber.info/inful/artifactpages/internal/pages"
	"git.home.luguber.info/inful/artifactpages/internal/state"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct {
	PagesDir string `arg:"" name:"pages-dir" help:"Directory holding the published site" type:"path"`
	Limit    int    `short:"n" help:"Number of recent runs to show" default:"10"`
	JSON     bool   `name:"json" help:"Print machine-readable JSON"`
}

// statusReport is the JSON shape of 'status --json'.
type statusReport struct {
	Ledger state.State              `json:"ledger"`
	Runs   []*eventstore.RunSummary `json:"runs"`
}

// projectStatus folds the ledger into one row per project and tag.
type projectStatus struct {
	project  string
	tag      string
	artifact bool
	hasDocs  bool
	docs     []string
}

func (s *StatusCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	layout := pages.NewLayout(s.PagesDir)
	ledger, err := state.Load(layout.StatePath())
	if err != nil {
		return perrors.StateLoadError(layout.StatePath(), err)
	}

	var runs []*eventstore.RunSummary
	if cfg.History.Path != "" {
		history := openHistory(cfg.History)
		defer closeHistory(history)
		if runs, err = eventstore.RunHistory(g.ctx(), history, s.Limit); err != nil {
			return perrors.InternalError("read run history", err)
		}
	}

	report := statusReport{Ledger: ledger.Snapshot(), Runs: runs}
	if s.JSON {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	writeStatus(g.out(), report)
	return nil
}

func ledgerRows(snap state.State) []projectStatus {
	index := make(map[[2]string]*projectStatus)
	var rows []*projectStatus
	row := func(project, tag string) *projectStatus {
		key := [2]string{project, tag}
		if r, ok := index[key]; ok {
			return r
		}
		r := &projectStatus{project: project, tag: tag}
		index[key] = r
		rows = append(rows, r)
		return r
	}
	for _, m := range snap.PublishedMavens {
		row(m.Project, m.Tag).artifact = true
	}
	for _, d := range snap.PublishedJavadocs {
		r := row(d.Project, d.Tag)
		r.hasDocs = true
		r.docs = d.Paths
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].project != rows[j].project {
			return rows[i].project < rows[j].project
		}
		return rows[i].tag < rows[j].tag
	})
	out := make([]projectStatus, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}

func writeStatus(w io.Writer, report statusReport) {
	rows := ledgerRows(report.Ledger)
	printf(w, "Ledger: %d artifacts, %d doc bundles\n",
		len(report.Ledger.PublishedMavens), len(report.Ledger.PublishedJavadocs))

	if len(rows) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		printf(tw, "PROJECT\tTAG\tARTIFACT\tDOCS\n")
		for _, r := range rows {
			docs := "-"
			if r.hasDocs {
				docs = strings.Join(r.docs, ",")
			}
			printf(tw, "%s\t%s\t%s\t%s\n", r.project, r.tag, yesNo(r.artifact), docs)
		}
		_ = tw.Flush()
	}

	if len(report.Runs) == 0 {
		return
	}
	printf(w, "\nRecent runs:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printf(tw, "RUN\tSTARTED\tSTATUS\tARTIFACTS\tDOCS\tFAILED\tDURATION\n")
	for _, r := range report.Runs {
		printf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.RunID, r.StartedAt.Local().Format(time.DateTime), r.Status,
			r.ArtifactsBuilt, r.DocsBuilt, r.UnitsFailed+r.RepositoriesFailed, r.Duration.Round(time.Millisecond))
	}
	_ = tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
