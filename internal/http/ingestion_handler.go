package http

import (
	"io"
	"net/http"

	"github.com/hookline/hookline/internal/service"
	"github.com/hookline/hookline/pkg/logger"
	"github.com/hookline/hookline/pkg/signature"
)

// maxIngestBodyBytes caps incoming webhook bodies at 1 MiB.
const maxIngestBodyBytes = 1 << 20

// IngestionHandler handles incoming webhook HTTP requests
type IngestionHandler struct {
	service *service.IngestionService
	logger  logger.Logger
}

// NewIngestionHandler creates a new ingestion handler
func NewIngestionHandler(svc *service.IngestionService, logger logger.Logger) *IngestionHandler {
	return &IngestionHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes registers the ingestion routes
func (h *IngestionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /ingest/{subscription_id}", h.handleIngest)
}

// handleIngest handles POST /ingest/{subscription_id}
func (h *IngestionHandler) handleIngest(w http.ResponseWriter, r *http.Request) {
	subscriptionID := r.PathValue("subscription_id")

	// The signature is computed over the exact bytes received, so the body
	// must be buffered before any parsing.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxIngestBodyBytes+1))
	if err != nil {
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxIngestBodyBytes {
		WriteJSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	if _, err := h.service.Ingest(r.Context(), subscriptionID, body, r.Header.Get(signature.Header)); err != nil {
		writeServiceError(w, err)
		return
	}

	// Acknowledged with an empty body: the sender gets no delivery handle,
	// only the promise that the webhook was durably accepted.
	w.WriteHeader(http.StatusAccepted)
}
