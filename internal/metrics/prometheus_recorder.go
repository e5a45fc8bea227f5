package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "artifactpages"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stepDuration   *prom.HistogramVec
	stepResults    *prom.CounterVec
	unitOutcomes   *prom.CounterVec
	runDuration    prom.Histogram
	runOutcomes    *prom.CounterVec
	cloneDuration  *prom.HistogramVec
	cloneResults   *prom.CounterVec
	ledgerEntries  *prom.GaugeVec
	lastRunSeconds prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	// Build steps run for minutes; the default buckets top out at 10s.
	buildBuckets := prom.ExponentialBuckets(0.5, 2, 12)

	pr := &PrometheusRecorder{
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of individual work unit steps",
			Buckets:   buildBuckets,
		}, []string{"step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "step_results_total",
			Help:      "Work unit step results by outcome",
		}, []string{"step", "result"}),
		unitOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unit_outcomes_total",
			Help:      "Work units by final outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total publish run duration",
			Buckets:   buildBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Publish runs by final status",
		}, []string{"outcome"}),
		cloneDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "clone_repo_duration_seconds",
			Help:      "Duration of individual repository clone operations",
			Buckets:   prom.DefBuckets,
		}, []string{"repo", "result"}),
		cloneResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "clone_repo_results_total",
			Help:      "Clone results by success/failure",
		}, []string{"result"}),
		ledgerEntries: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_entries",
			Help:      "Published (project, tag) pairs in the ledger by kind",
		}, []string{"kind"}),
		lastRunSeconds: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.unitOutcomes, pr.runDuration, pr.runOutcomes,
		pr.cloneDuration, pr.cloneResults, pr.ledgerEntries, pr.lastRunSeconds)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) IncUnitOutcome(outcome UnitOutcome) {
	if p == nil {
		return
	}
	p.unitOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
	p.lastRunSeconds.SetToCurrentTime()
}

func (p *PrometheusRecorder) ObserveCloneDuration(repo string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.cloneDuration.WithLabelValues(repo, res).Observe(d.Seconds())
	p.cloneResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetLedgerSize(artifacts, docs int) {
	if p == nil {
		return
	}
	p.ledgerEntries.WithLabelValues("artifact").Set(float64(artifacts))
	p.ledgerEntries.WithLabelValues("doc").Set(float64(docs))
}
