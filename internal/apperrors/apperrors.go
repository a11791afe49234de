// Package apperrors defines the application error taxonomy. Every failure a
// user action can hit maps to one of these types; handlers convert them to
// user-facing messages and nothing here is allowed to kill the session.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different classes of failure.
type ErrorType string

const (
	// ErrorTypeValidation is bad user input, detected before any remote call.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeDatabase is a persistence failure.
	ErrorTypeDatabase ErrorType = "database"
	// ErrorTypeExternal is a remote API failure that survived the retry budget.
	ErrorTypeExternal ErrorType = "external_api"
	// ErrorTypeDataShape is a successful round trip whose response structure
	// was unusable. Terminal for the operation, never retried.
	ErrorTypeDataShape ErrorType = "data_shape"
	// ErrorTypeConflict is a uniqueness violation, e.g. a second goal for the
	// same metric.
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeInternal is everything else.
	ErrorTypeInternal ErrorType = "internal"
)

// AppError carries an error type, code and optional wrapped cause.
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on type and code for AppError targets.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds a key/value pair to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields.
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// New creates a new AppError.
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into an AppError.
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// Handler routes errors to the right log level.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error according to its type.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "User-level error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Operation failed", appErr.LogFields()...)
	}
}

// Predefined errors.
var (
	ErrInvalidInput  = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrDuplicateGoal = New(ErrorTypeConflict, "DUPLICATE_GOAL", "A goal for this metric already exists")
	ErrEmptyResponse = New(ErrorTypeDataShape, "EMPTY_RESPONSE", "Model returned no usable content")
)

// NewValidationError builds a validation error with a user-facing message.
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

// NewDatabaseError wraps a persistence failure.
func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

// NewExternalAPIError wraps a remote API failure.
func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api)).
		WithContext("api", api)
}

// NewDataShapeError reports an unusable response structure.
func NewDataShapeError(detail string) *AppError {
	return New(ErrorTypeDataShape, "DATA_SHAPE", detail)
}
