// Package errors provides the application error taxonomy for the fintrack API.
// Services return *AppError values so handlers can map them to a status code
// and a client-safe message without leaking store details.
package errors

import "net/http"

// AppError is a structured application error: a stable code, a message that is
// safe to show to clients, the HTTP status to answer with, and an optional
// internal cause that is only ever logged.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the sentinel's code/message/status and the given internal cause.
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

// Identity errors.
var (
	ErrMissingAuth  = &AppError{Code: "MISSING_AUTH", Message: "Missing user-id header", StatusCode: http.StatusUnauthorized}
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Missing fields", StatusCode: http.StatusBadRequest}
	ErrInvalidJSON    = &AppError{Code: "INVALID_JSON", Message: "Invalid JSON", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Category errors. A category still referenced by transactions answers 405,
// which is what existing clients expect for this conflict.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Cannot delete category with existing transactions", StatusCode: http.StatusMethodNotAllowed}
	ErrInvalidCategory  = &AppError{Code: "INVALID_CATEGORY", Message: "Invalid category_id", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)
