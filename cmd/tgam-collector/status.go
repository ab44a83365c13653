package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/sample"
)

// startStatusHTTP serves the current Sample snapshot as JSON on /status. It
// is a best-effort observability surface for the control context; a write
// failure is logged and counted, never fatal to the live path.
func startStatusHTTP(addr string, agg *sample.Aggregator, l *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		snap := agg.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			metrics.IncError(metrics.ErrStatusWrite)
			l.Warn("status_write_error", "error", err)
		}
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		l.Info("status_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("status_http_error", "error", err)
		}
	}()
	return srv
}
