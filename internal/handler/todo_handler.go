package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-todo-service/internal/model"
	"go-todo-service/internal/service"
	"go-todo-service/pkg/apierror"
)

type TodoHandler struct {
	service *service.TodoService
}

func NewTodoHandler(service *service.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid todo id", chi.URLParam(r, "id"), http.StatusBadRequest))
		return
	}

	todo, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var item model.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	todo, err := h.service.Create(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var patch model.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if patch.ItemID <= 0 {
		writeError(w, apierror.New("BAD_REQUEST", "itemid is required", "", http.StatusBadRequest))
		return
	}

	todo, err := h.service.Update(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("todo_id"), 10, 64)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid todo_id query parameter", r.URL.Query().Get("todo_id"), http.StatusBadRequest))
		return
	}

	msg, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msg)
}
