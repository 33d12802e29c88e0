// Package errors provides custom error types for the finsmar API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Provider errors.
var (
	// ErrProviderAuth means the provider connection must be re-linked by the
	// user before syncing can resume. Distinct from a generic provider
	// failure so the operator can act on it.
	ErrProviderAuth = &AppError{Code: "PROVIDER_RELINK_REQUIRED", Message: "Provider connection requires re-authentication", StatusCode: http.StatusConflict}

	// ErrProviderUnavailable covers network failures, timeouts, and rate
	// limits from an upstream provider. Retried on the next sync cycle.
	ErrProviderUnavailable = &AppError{Code: "PROVIDER_UNAVAILABLE", Message: "Provider is temporarily unavailable", StatusCode: http.StatusServiceUnavailable}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Sync errors.
var (
	ErrItemNotFound   = &AppError{Code: "ITEM_NOT_FOUND", Message: "Plaid item not found", StatusCode: http.StatusNotFound}
	ErrSyncInProgress = &AppError{Code: "SYNC_IN_PROGRESS", Message: "A sync cycle is already running", StatusCode: http.StatusConflict}
)

// Profile errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Recurring expense not found", StatusCode: http.StatusNotFound}
)
