package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStepDuration("build_artifact", 150*time.Millisecond)
	pr.IncStepResult("build_artifact", ResultSuccess)
	pr.IncStepResult("build_docs", ResultFailed)
	pr.IncUnitOutcome(UnitPublished)
	pr.IncUnitOutcome(UnitSkipped)
	pr.IncUnitOutcome(UnitSkipped)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(RunCompleted)
	pr.ObserveCloneDuration("https://example.com/r.git", time.Second, true)
	pr.SetLedgerSize(3, 2)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.unitOutcomes.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stepResults.WithLabelValues("build_docs", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.cloneResults.WithLabelValues("success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.ledgerEntries.WithLabelValues("artifact")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncUnitOutcome(UnitFailed)
	pr.ObserveCloneDuration("r", time.Second, false)
	pr.SetLedgerSize(1, 1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(RunCompleted)

	path := filepath.Join(t.TempDir(), "artifactpages.prom")
	require.NoError(t, WriteTextfile(path, reg))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `artifactpages_run_outcomes_total{outcome="completed"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncUnitOutcome(UnitPublished)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "artifactpages_unit_outcomes_total"))
	assert.Contains(t, body, "go_goroutines")
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
