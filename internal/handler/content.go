package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/service"
)

// ContentHandler handles HTTP requests for content items and public brains.
type ContentHandler struct {
	service *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(svc *service.ContentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// HandleCreate handles POST /api/v1/user/create-content requests.
func (h *ContentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.CreateContentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	content, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, "create content", err)
		return
	}

	writeMessage(w, http.StatusCreated, "content created", content)
}

// HandleList handles GET /api/v1/user/get-contents requests.
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	contents, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "list contents", err)
		return
	}
	if contents == nil {
		contents = []model.Content{}
	}

	writeMessage(w, http.StatusOK, "contents", contents)
}

// HandleDelete handles DELETE /api/v1/user/delete-content requests.
func (h *ContentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.DeleteContentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, req); err != nil {
		writeServiceError(w, r, "delete content", err)
		return
	}

	writeMessage(w, http.StatusOK, "content deleted", nil)
}

// HandleUpdateStatus handles POST /api/v1/user/update-content-status requests.
// Omitting isPublic toggles the current value.
func (h *ContentHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.UpdateVisibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	isPublic, err := h.service.UpdateVisibility(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, "update content status", err)
		return
	}

	writeMessage(w, http.StatusOK, "content status updated", map[string]any{
		"contentId": req.ContentID,
		"isPublic":  isPublic,
	})
}

// HandleCounts handles GET /api/v1/user/content-counts requests.
func (h *ContentHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	counts, err := h.service.Counts(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "content counts", err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Message: "content counts", Stats: counts})
}

// HandlePublicBrain handles GET /api/v1/user/brain/{shareLink} requests. It
// needs no credentials and returns only public items.
func (h *ContentHandler) HandlePublicBrain(w http.ResponseWriter, r *http.Request) {
	brain, err := h.service.PublicBrain(r.Context(), chi.URLParam(r, "shareLink"))
	if err != nil {
		writeServiceError(w, r, "public brain", err)
		return
	}
	if brain.Contents == nil {
		brain.Contents = []model.Content{}
	}

	writeMessage(w, http.StatusOK, "shared brain", brain)
}
