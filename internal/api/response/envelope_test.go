package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmshq/tms/internal/api/response"
)

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	response.Success(w, http.StatusOK, map[string]string{"hello": "world"}, "req-123")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Nil(t, env.Error)
	assert.Equal(t, "req-123", env.Meta.RequestID)
	assert.NotEmpty(t, env.Meta.Timestamp)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "world", data["hello"])
}

func TestErr(t *testing.T) {
	w := httptest.NewRecorder()

	response.Err(w, http.StatusNotFound, "NOT_FOUND", "Thing not found", "req-456")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Thing not found", env.Error.Message)
	assert.Nil(t, env.Error.Details)
}

func TestErrWithDetails(t *testing.T) {
	w := httptest.NewRecorder()

	details := []map[string]string{{"field": "email", "message": "email is required"}}
	response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", details, "req-789")

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.NotNil(t, env.Error.Details)
}

func TestNewMeta_GeneratesRequestID(t *testing.T) {
	meta := response.NewMeta("")
	_, err := uuid.Parse(meta.RequestID)
	assert.NoError(t, err)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	response.NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
