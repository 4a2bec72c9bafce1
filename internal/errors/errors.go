package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrMissingFile       = New(http.StatusBadRequest, "MISSING_FILE", "No file was uploaded")
	ErrUnsupportedFormat = New(http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Unsupported file format, upload .csv or .xlsx")

	// 404 Not Found
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrUnknownDataset   = New(http.StatusNotFound, "UNKNOWN_DATASET", "Unknown dataset kind")
	ErrDatasetNotLoaded = New(http.StatusNotFound, "DATASET_NOT_LOADED", "Dataset has not been loaded yet")

	// 422 Unprocessable Entity
	ErrDatasetUnreadable = New(http.StatusUnprocessableEntity, "DATASET_UNREADABLE", "Dataset file could not be read")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrExportFailed   = New(http.StatusInternalServerError, "EXPORT_FAILED", "Report export failed")
)

// UnsupportedFormatError creates an unsupported format error naming the file
func UnsupportedFormatError(filename string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "UNSUPPORTED_FORMAT",
		"Unsupported file format, upload .csv or .xlsx", filename)
}

// DatasetUnreadableError wraps a structural read failure for one dataset
func DatasetUnreadableError(dataset string, err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "DATASET_UNREADABLE",
		fmt.Sprintf("Dataset %s could not be read", dataset), err.Error())
}

// UnknownDatasetError creates an unknown dataset error naming the kind
func UnknownDatasetError(name string) *APIError {
	return NewWithDetails(http.StatusNotFound, "UNKNOWN_DATASET",
		fmt.Sprintf("Unknown dataset kind %q", name), name)
}

// ExportFailedError wraps an export failure
func ExportFailedError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "EXPORT_FAILED",
		"Report export failed", err.Error())
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
