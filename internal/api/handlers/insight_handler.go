package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/artintx/internal/logging"
	"github.com/markdave123-py/artintx/internal/services"
)

type InsightHandler struct {
	risk      *services.RiskService
	analytics *services.AnalyticsService
	export    *services.ExportService
}

func NewInsightHandler(risk *services.RiskService, analytics *services.AnalyticsService, export *services.ExportService) *InsightHandler {
	return &InsightHandler{risk: risk, analytics: analytics, export: export}
}

// RiskScores recomputes and stores a fresh risk snapshot on every call.
func (h *InsightHandler) RiskScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	report, err := h.risk.Compute(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sum, err := h.analytics.Summary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *InsightHandler) MoodTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.MoodTrend(r.Context(), userID, queryInt(r, "days"))
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *InsightHandler) PHQ9Trend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	points, err := h.analytics.PHQ9Trend(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *InsightHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	res, err := h.export.Export(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Export failed.")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// DownloadExport streams a previously written export back to its owner.
func (h *InsightHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	rc, err := h.export.Open(r.Context(), userID, name)
	if err != nil {
		handleServiceError(w, r, err, "Export download failed.")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logging.FromContext(r.Context()).Warn("export stream interrupted", "user_id", userID, "err", err)
	}
}

func (h *InsightHandler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.export.Delete(r.Context(), userID, chi.URLParam(r, "name")); err != nil {
		handleServiceError(w, r, err, "Export delete failed.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Export deleted."})
}

// Health reports liveness for load balancers.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "artintx"})
}
