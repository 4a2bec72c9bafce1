package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorError(t *testing.T) {
	err := New(http.StatusBadRequest, "UNSUPPORTED_FORMAT", "bad format")
	assert.Equal(t, "bad format", err.Error())
}

func TestUnsupportedFormatError(t *testing.T) {
	err := UnsupportedFormatError("datos.pdf")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "UNSUPPORTED_FORMAT", err.ErrorCode)
	assert.Equal(t, "datos.pdf", err.Details)
}

func TestDatasetUnreadableError(t *testing.T) {
	cause := fmt.Errorf("corrupt zip header")
	err := DatasetUnreadableError("lineas", cause)
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Contains(t, err.Message, "lineas")
	assert.Equal(t, "corrupt zip header", err.Details)
}

func TestHandleErrorWrapsUnknownErrors(t *testing.T) {
	h := NewErrorHandler(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/datasets/lineas", nil)

	h.HandleError(rec, req, fmt.Errorf("disk on fire"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, rec.Body.String(), "disk on fire", "internal detail must not leak")
}

func TestHandleErrorRendersAPIError(t *testing.T) {
	h := NewErrorHandler(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/datasets/lineas", nil)

	h.HandleError(rec, req, UnknownDatasetError("ventas"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_DATASET")
	assert.Contains(t, rec.Body.String(), "ventas")
}

func TestHandleErrorNil(t *testing.T) {
	h := NewErrorHandler(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.HandleError(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
