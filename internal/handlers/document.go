package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"carpool-backend/internal/services"
)

// DocumentHandler handles driver licence document HTTP requests
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UploadRequest represents a request for a pre-signed upload URL
type UploadRequest struct {
	ContentType string `json:"contentType"`
}

// PresignUpload handles POST /api/v1/users/drivers/{id}/documents
func (h *DocumentHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}

	resp, err := h.documentService.PresignUpload(r.Context(), p, id, req.ContentType)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	log.Info().Int64("driver_id", id).Str("document_id", resp.DocumentID).Msg("Document upload URL issued")
	respondJSON(w, http.StatusCreated, resp)
}

// ListDocuments handles GET /api/v1/users/drivers/{id}/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, err := h.documentService.ListDocuments(r.Context(), p, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}
