package handler

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"go-todo-service/internal/service"
	"go-todo-service/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login implements POST /token. The canonical body is form-encoded
// (OAuth2 password-flow style); a JSON body is accepted as well.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	payload, err := decodeLoginPayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func decodeLoginPayload(r *http.Request) (loginPayload, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "application/json" {
		var payload loginPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return loginPayload{}, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
		}
		return payload, nil
	}

	if err := r.ParseForm(); err != nil {
		return loginPayload{}, apierror.New("BAD_REQUEST", "invalid form body", "", http.StatusBadRequest)
	}

	return loginPayload{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}, nil
}
