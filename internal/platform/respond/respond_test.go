// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/pkg/pagination"
)

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestOK verifies the success envelope shape for 200 responses.
*/
func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.OK(recorder, map[string]string{"id": "123"}, "Fetched successfully")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(200), body["statusCode"])
	assert.Equal(t, "Fetched successfully", body["message"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": "123"}, body["data"])
}

/*
TestCreated verifies the 201 envelope.
*/
func TestCreated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Created(recorder, map[string]string{"id": "new"}, "Created successfully")

	assert.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(201), body["statusCode"])
	assert.Equal(t, true, body["success"])
}

/*
TestPaginated verifies the list payload nests items and meta inside data.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	meta := pagination.NewMeta(2, 10, 35)

	respond.Paginated(recorder, []string{"a", "b"}, meta, "Listed successfully")

	body := decodeBody(t, recorder)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)

	assert.Equal(t, []any{"a", "b"}, data["items"])

	metaBlock, ok := data["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), metaBlock["page"])
	assert.Equal(t, float64(35), metaBlock["total"])
	assert.Equal(t, float64(4), metaBlock["totalPages"])
}

/*
TestError_AppError verifies AppError status and message pass through.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)

	respond.Error(recorder, request, apperr.NotFound("User"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(404), body["statusCode"])
	assert.Equal(t, "User not found", body["message"])
	assert.Equal(t, false, body["success"])
}

/*
TestError_ErrorsAlwaysArray verifies the errors field is an array, never null.
*/
func TestError_ErrorsAlwaysArray(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/auth/login", nil)

	respond.Error(recorder, request, apperr.Unauthorized("Invalid user credentials"))

	body := decodeBody(t, recorder)
	errorsField, ok := body["errors"].([]any)
	require.True(t, ok, "errors must be an array, not null")
	assert.Empty(t, errorsField)
}

/*
TestError_ValidationDetails verifies field-level details reach the client.
*/
func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/auth/register", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "Must be a valid email address"},
	))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeBody(t, recorder)
	errorsField, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errorsField, 1)

	detail := errorsField[0].(map[string]any)
	assert.Equal(t, "email", detail["field"])
}

/*
TestError_UnknownError verifies non-AppError values are hidden as 500s.
*/
func TestError_UnknownError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/videos", nil)

	respond.Error(recorder, request, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	body := decodeBody(t, recorder)
	// Internal details must never leak to the client.
	assert.Equal(t, "An unexpected error occurred", body["message"])
	assert.NotContains(t, recorder.Body.String(), "connection refused")
}
