package handler

import (
	"net/http"

	"github.com/secondbrain/secondbrain-go/internal/middleware"
	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/service"
)

// AuthHandler handles HTTP requests for signup, signin and the caller's profile.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup handles POST /api/v1/user/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "signup", err)
		return
	}

	writeMessage(w, http.StatusCreated, "user created", user)
}

// HandleSignin handles POST /api/v1/user/signin requests.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req model.SigninRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	token, err := h.service.Signin(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "signin", err)
		return
	}

	writeMessage(w, http.StatusOK, "signed in", token)
}

// HandleMe handles GET /api/v1/user/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := identityUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "me", err)
		return
	}

	writeMessage(w, http.StatusOK, "profile", user)
}

func identityUserID(r *http.Request) (int64, bool) {
	return middleware.IdentityFromContext(r.Context()).UserID()
}
