package handlers

import (
	"context"
	"net/http"
	"time"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Health answers 503 when the database does not respond. Without a checker it is a liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.HealthCheck(ctx); err != nil {
			h.Log.Error().Err(err).Msg("База данных недоступна")
			writeSuccess(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}

	writeSuccess(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// Stats is the dashboard summary: posts per type and status, taxonomy sizes
// and the number of tables.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.TablesService.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, stats, http.StatusOK)
}

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.GetCountTablesDB(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, TablesResponse{CountTables: count}, http.StatusOK)
}
