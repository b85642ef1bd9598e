package handler

import (
	"fmt"
	"net/http"

	"go-todo-service/internal/middleware"
	"go-todo-service/internal/model"
	"go-todo-service/pkg/apierror"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, model.Message{
		Message: fmt.Sprintf("Hi, %s (id=%d, role=%s)!", identity.Username, identity.UserID, identity.Role),
	})
}

func (h *UserHandler) Admin(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, model.Message{
		Message: fmt.Sprintf("Hi, admin %s!", identity.Username),
	})
}
