package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/secondbrain/secondbrain-go/internal/service"
	"github.com/secondbrain/secondbrain-go/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1MB

var (
	errBodyTooLarge = errors.New("request body too large")
	errTrailingData = errors.New("request body must contain a single JSON object")
)

type envelope struct {
	Message  string            `json:"message"`
	Response any               `json:"response,omitempty"`
	Stats    any               `json:"stats,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string, resp any) {
	writeJSON(w, status, envelope{Message: msg, Response: resp})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Message: msg})
}

// decodeJSON reads a single JSON object of at most maxBodyBytes into dst.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var maxErr *http.MaxBytesError
	if err := dec.Decode(dst); err != nil {
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return errTrailingData
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

// writeServiceError maps service errors to responses. Anything unknown is
// logged with op and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{Message: "validation failed", Errors: verr.Fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrBrainNotFound),
		errors.Is(err, service.ErrNotShared):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		attrs := []any{"op", op, "error", err}
		if userID, ok := identityUserID(r); ok {
			attrs = append(attrs, "user_id", userID)
		}
		slog.ErrorContext(r.Context(), "request failed", attrs...)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
