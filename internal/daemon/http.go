package daemon

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
	"git.home.luguber.info/inful/artifactpages/internal/metrics"
)

// Handler serves /healthz, /status and, when a registry is set, /metrics.
func (d *Daemon) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /status", d.handleStatus)
	if d.registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(d.registry))
	}
	return mux
}

func (d *Daemon) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d.Status()); err != nil {
		slog.Warn("Failed to encode status", logfields.Error(err))
	}
}
