package handler

import (
	"net/http"

	"github.com/taskdeck/taskdeck/internal/metrics"
)

// MetricsHandler exposes recorded counters for operators.
type MetricsHandler struct {
	source metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(source metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{source: source}
}

// Snapshot handles GET /metricsz. Admin only; the role gate runs
// before this handler.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.source.Snapshot())
}
