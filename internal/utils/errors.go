package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Contract errors, surfaced to callers
	ErrInvalidContent = "INVALID_CONTENT"
	ErrPostNotFound   = "POST_NOT_FOUND"
	ErrParentNotFound = "PARENT_NOT_FOUND"
	ErrNoReaction     = "NO_REACTION"

	// CounterUnderflow is an internal invariant violation. It is unreachable
	// when the reaction index is correct; seeing it means a core bug.
	ErrCounterUnderflow = "COUNTER_UNDERFLOW"

	// Generic resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrInvalidToken = "INVALID_TOKEN"

	// Account-specific errors
	ErrAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrAccountExists      = "ACCOUNT_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	ErrStore = "STORE_ERROR"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewPostNotFoundError(postID uint64) *AppError {
	return &AppError{
		Code:    ErrPostNotFound,
		Message: fmt.Sprintf("Post not found: %d", postID),
	}
}

func NewInvalidContentError(reason string) *AppError {
	return &AppError{
		Code:    ErrInvalidContent,
		Message: "Invalid content: " + reason,
	}
}

func NewAccountNotFoundError(username string) *AppError {
	return &AppError{
		Code:    ErrAccountNotFound,
		Message: "Account not found: " + username,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrPostNotFound, ErrParentNotFound, ErrNoReaction, ErrAccountNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidContent, ErrInvalidInput, ErrInvalidCredentials:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrAccountExists:
		return 409 // http.StatusConflict
	case ErrStore, ErrActorTimeout, ErrCounterUnderflow:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
