package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
	"github.com/hszk-dev/govlog/internal/usecase"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// handleServiceError maps service and repository errors to HTTP responses.
// Validation messages are safe to echo back to the client.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrVlogNotFound):
		Error(w, http.StatusNotFound, "vlog_not_found", "Vlog not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		Error(w, http.StatusNotFound, "comment_not_found", "Comment not found")
	case errors.Is(err, repository.ErrMediaNotFound):
		Error(w, http.StatusNotFound, "media_not_found", "Media not found")
	case errors.Is(err, repository.ErrNotFound):
		Error(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, usecase.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden", "Only staff accounts may change vlogs")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid_credentials", "Username or password is incorrect")
	case errors.Is(err, usecase.ErrInvalidToken):
		Error(w, http.StatusUnauthorized, "invalid_token", "Access token is invalid or expired")
	case errors.Is(err, usecase.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
	case errors.Is(err, usecase.ErrAlreadyLiked):
		Error(w, http.StatusConflict, "already_liked", "You already like this vlog")
	case errors.Is(err, usecase.ErrNotLiked):
		Error(w, http.StatusConflict, "not_liked", "You do not like this vlog")
	case errors.Is(err, repository.ErrDuplicateUsername):
		Error(w, http.StatusConflict, "username_taken", "Username is already taken")
	case errors.Is(err, model.ErrInvalidMedia):
		Error(w, http.StatusBadRequest, "invalid_media", err.Error())
	case errors.Is(err, model.ErrValidation):
		Error(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		slog.ErrorContext(r.Context(), "unhandled service error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
