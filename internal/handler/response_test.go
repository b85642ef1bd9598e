package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-todo-service/internal/model"
	"go-todo-service/pkg/apierror"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body
}

func TestWriteErrorKeepsAPIErrorStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, apierror.NotFound("Not found!"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	require.Equal(t, "NOT_FOUND", body.Error.Code)
	require.Equal(t, "Not found!", body.Error.Message)
}

func TestWriteErrorWrappedAPIErrorIsUnwrapped(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("pipeline step: %w", apierror.Forbidden("denied")))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWriteErrorGenericBecomes500WithCause(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, errors.New("connection reset by peer"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	require.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	require.Equal(t, "connection reset by peer", body.Error.Details)
}

func TestWriteErrorUnauthorizedCarriesChallenge(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, model.ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	body := decodeError(t, rec)
	require.Equal(t, "Authentication failed", body.Error.Message)
}

func TestWriteErrorInvalidInputIs400(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("%w: title must be 1-64 characters", model.ErrInvalidInput))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
