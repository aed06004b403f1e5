package http

import (
	"net/http"
	"strconv"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/service"
	"github.com/hookline/hookline/pkg/logger"
)

// StatusHandler serves the read-only observability endpoints
type StatusHandler struct {
	service *service.StatusService
	logger  logger.Logger
	version string
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(svc *service.StatusService, version string, logger logger.Logger) *StatusHandler {
	return &StatusHandler{
		service: svc,
		logger:  logger,
		version: version,
	}
}

// RegisterRoutes registers the status routes
func (h *StatusHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /status/deliveries/{id}/status", h.handleDeliveryStatus)
	mux.HandleFunc("GET /status/subscriptions/{id}/attempts", h.handleRecentAttempts)
	mux.HandleFunc("GET /status/stats", h.handleStats)
	mux.HandleFunc("GET /status/activity", h.handleActivity)
	mux.HandleFunc("GET /health", h.handleHealth)
}

// handleDeliveryStatus handles GET /status/deliveries/{id}/status
func (h *StatusHandler) handleDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GetDeliveryStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if report.Attempts == nil {
		report.Attempts = []*domain.DeliveryAttempt{}
	}

	writeJSON(w, http.StatusOK, report)
}

// handleRecentAttempts handles GET /status/subscriptions/{id}/attempts
func (h *StatusHandler) handleRecentAttempts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	attempts, err := h.service.ListRecentAttempts(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if attempts == nil {
		attempts = []*domain.DeliveryAttempt{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
	})
}

// handleStats handles GET /status/stats
func (h *StatusHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to compute stats")
		WriteJSONError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleActivity handles GET /status/activity
func (h *StatusHandler) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.GetActivity(r.Context(), limit)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to build activity feed")
		WriteJSONError(w, "Failed to build activity feed", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []*domain.ActivityItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activity": items,
	})
}

// handleHealth handles GET /health
func (h *StatusHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
