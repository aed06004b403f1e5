package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/service"
	"github.com/hookline/hookline/pkg/logger"
)

// SubscriptionHandler handles HTTP requests for subscription management
type SubscriptionHandler struct {
	service *service.SubscriptionService
	logger  logger.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(svc *service.SubscriptionService, logger logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes registers the subscription routes
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /subscriptions", h.handleCreate)
	mux.HandleFunc("GET /subscriptions", h.handleList)
	mux.HandleFunc("GET /subscriptions/{id}", h.handleGet)
	mux.HandleFunc("PUT /subscriptions/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /subscriptions/{id}", h.handleDelete)
}

// handleCreate handles POST /subscriptions
func (h *SubscriptionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetURL string `json:"target_url"`
		SecretKey string `json:"secret_key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub := &domain.Subscription{
		TargetURL: req.TargetURL,
		SecretKey: req.SecretKey,
	}

	if err := h.service.Create(r.Context(), sub); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create subscription")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// handleList handles GET /subscriptions
func (h *SubscriptionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	subs, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list subscriptions")
		WriteJSONError(w, "Failed to list subscriptions", http.StatusInternalServerError)
		return
	}

	if subs == nil {
		subs = []*domain.Subscription{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_count":   total,
		"subscriptions": subs,
	})
}

// handleGet handles GET /subscriptions/{id}
func (h *SubscriptionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// handleUpdate handles PUT /subscriptions/{id}
func (h *SubscriptionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var update domain.SubscriptionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Update(r.Context(), r.PathValue("id"), &update)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// handleDelete handles DELETE /subscriptions/{id}
func (h *SubscriptionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
