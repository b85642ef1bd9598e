package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-todo-service/internal/model"
	"go-todo-service/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError is the terminal unwrap boundary: failures that already carry a
// transport mapping keep it, known sentinels get theirs, and anything
// unanticipated becomes a 500 with the stringified cause attached.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
		Details: err.Error(),
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body = &model.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body = &model.APIError{Code: "UNAUTHORIZED", Message: "Authentication failed"}
	case errors.Is(err, model.ErrTokenExpired), errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenUnverifiable):
		status = http.StatusUnauthorized
		body = &model.APIError{Code: "UNAUTHORIZED", Message: "Invalid or expired token"}
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body = &model.APIError{Code: "FORBIDDEN", Message: "Not authorized!"}
	case errors.Is(err, model.ErrTodoNotFound):
		status = http.StatusNotFound
		body = &model.APIError{Code: "NOT_FOUND", Message: "Not found!"}
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body = &model.APIError{Code: "BAD_REQUEST", Message: "Invalid input", Details: err.Error()}
	default:
		slog.Error("unhandled error", "error", err.Error())
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}
