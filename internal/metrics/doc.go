// Package metrics provides the observability hooks of a publish run.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	p := publisher.New(deps) // Recorder defaults to metrics.NoopRecorder{}
//
// PrometheusRecorder registers its collectors on a caller-provided registry.
// That registry is then either served by the daemon on /metrics (HTTPHandler) or
// dumped after a one-shot run to a node_exporter textfile (WriteTextfile).
package metrics
