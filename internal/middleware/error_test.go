package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRespondWithError_Body(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, http.StatusConflict, "category already exists")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Conflict", body.Error.Code)
	assert.Equal(t, "category already exists", body.Error.Message)
	assert.NotEmpty(t, body.Error.Timestamp)
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type checkoutBody struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required,min=9"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestDecodeAndValidate(t *testing.T) {
	var body checkoutBody
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"phone":"0901","quantity":0}`))

	err := DecodeAndValidate(req, &body)
	require.Error(t, err)

	violations := FormatValidationErrors(err)
	require.Len(t, violations, 3)
	assert.Equal(t, ValidationError{Field: "name", Message: "This field is required"}, violations[0])
	assert.Equal(t, ValidationError{Field: "phone", Message: "Value is too short"}, violations[1])
	assert.Equal(t, "quantity", violations[2].Field)

	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, violations)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	err = DecodeAndValidate(req, &body)
	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err))
}
