package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Input error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeInvalidContentType = "INVALID_CONTENT_TYPE"
	ErrCodeFileTooLarge       = "FILE_TOO_LARGE"
	ErrCodeRequestTooLarge    = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeLocalLoginDisabled = "LOCAL_LOGIN_DISABLED"
)

// Resource error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
)

// Business rule error codes
const (
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeUnknownRegion        = "UNKNOWN_REGION"
	ErrCodeOrderPlacementFailed = "ORDER_PLACEMENT_FAILED"
)

// Dependency error codes
const (
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeInvalidStatus:      http.StatusBadRequest,
	ErrCodeInvalidCategory:    http.StatusBadRequest,
	ErrCodeInvalidContentType: http.StatusUnsupportedMediaType,
	ErrCodeFileTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeLocalLoginDisabled: http.StatusNotFound,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:     http.StatusUnprocessableEntity,
	ErrCodeUnknownRegion: http.StatusUnprocessableEntity,

	// Dependency errors
	ErrCodeOrderPlacementFailed: http.StatusServiceUnavailable,
	ErrCodeStorageUnavailable:   http.StatusServiceUnavailable,
	ErrCodeServiceUnavailable:   http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCodeAliases folds the fine-grained codes raised by entity
// constructors into the codes the API documents
var ErrorCodeAliases = map[string]string{
	"INVALID_NAME":     ErrCodeInvalidInput,
	"INVALID_PRICE":    ErrCodeInvalidInput,
	"INVALID_TRACKING": ErrCodeInvalidInput,
	"BAD_REQUEST":      ErrCodeInvalidInput,
	"TOKEN_EXPIRED":    ErrCodeUnauthorized,
	"TOKEN_INVALID":    ErrCodeUnauthorized,
}

// NormalizeErrorCode converts an aliased error code to its API code
// If the code is already an API code or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := ErrorCodeAliases[code]; ok {
		return apiCode
	}
	return code
}
