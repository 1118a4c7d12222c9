package handler

import (
	"errors"
	"net/http"

	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/service"
	"github.com/secondbrain/secondbrain-go/internal/validation"
)

// ShareHandler handles HTTP requests that publish or withdraw a brain.
type ShareHandler struct {
	service   *service.ShareService
	validator *validation.Validator
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(svc *service.ShareService, v *validation.Validator) *ShareHandler {
	return &ShareHandler{service: svc, validator: v}
}

type hashResponse struct {
	Hash string `json:"hash"`
}

// HandleShare handles POST /api/v1/user/share-brain requests. share=true
// creates a link, share=false removes it.
func (h *ShareHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.ShareBrainRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, "share brain", err)
		return
	}

	if !*req.Share {
		if err := h.service.Unshare(r.Context(), userID); err != nil {
			writeServiceError(w, r, "unshare brain", err)
			return
		}
		writeMessage(w, http.StatusOK, "brain unshared", nil)
		return
	}

	link, err := h.service.Share(r.Context(), userID)
	if errors.Is(err, service.ErrAlreadyShared) {
		writeMessage(w, http.StatusConflict, err.Error(), hashResponse{Hash: link.Hash})
		return
	}
	if err != nil {
		writeServiceError(w, r, "share brain", err)
		return
	}

	writeMessage(w, http.StatusCreated, "brain shared", hashResponse{Hash: link.Hash})
}

// HandleStatus handles GET /api/v1/user/share-brain requests.
func (h *ShareHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "share status", err)
		return
	}

	writeMessage(w, http.StatusOK, "share status", status)
}
