package apperr

import "fmt"

// AppError carries a stable code alongside the message so handlers can map
// failures to HTTP statuses without string matching.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap keeps the code of base but replaces the message.
func Wrap(base *AppError, format string, args ...any) *AppError {
	return &AppError{Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

// Is matches on code, so errors.Is sees a wrapped error as its base.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound          = New("NOT_FOUND", "resource not found")
	ErrInvalidInput      = New("INVALID_INPUT", "invalid input provided")
	ErrInvalidState      = New("INVALID_STATE", "operation not allowed in current state")
	ErrInsufficientStock = New("INSUFFICIENT_STOCK", "insufficient stock available")
	ErrUnauthorized      = New("UNAUTHORIZED", "not authorized to perform this action")
)
