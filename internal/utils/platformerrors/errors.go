package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/utils/requestctx"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation            ErrorType = "VALIDATION"
	ErrorTypeNoProviderConfigured  ErrorType = "NO_PROVIDER_CONFIGURED"
	ErrorTypeProviderNotConfigured ErrorType = "PROVIDER_NOT_CONFIGURED"
	ErrorTypeExternal              ErrorType = "EXTERNAL"
	ErrorTypeTimeout               ErrorType = "TIMEOUT"
	ErrorTypeCancelled             ErrorType = "CANCELLED"
	ErrorTypeRateLimited           ErrorType = "RATE_LIMITED"
	ErrorTypeInternal              ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred
type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
	LayerProvider       Layer = "provider"
)

// PlatformError represents an error with context and metadata. It is the
// internal representation only; clients see a SanitizedError.
type PlatformError struct {
	UUID      string
	Type      ErrorType
	Message   string
	Err       error
	Context   map[string]any
	RequestID string
	Layer     Layer
	Timestamp time.Time

	// Field names the request field that failed validation.
	Field string
	// Status is the upstream HTTP status for provider failures, 0 when the
	// call never produced a response.
	Status int
	// Instructions are remediation steps built from static provider metadata.
	Instructions []string
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.UUID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.UUID, e.Message)
}

// Unwrap returns the underlying error
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError creates a new PlatformError with the specified parameters
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string) *PlatformError {
	return NewErrorWithContext(ctx, layer, errorType, message, err, customUUID, nil)
}

// NewErrorWithContext creates a new PlatformError with additional context fields
func NewErrorWithContext(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string, contextFields map[string]any) *PlatformError {
	errorUUID := customUUID
	if errorUUID == "" {
		errorUUID = "auto-generated-uuid"
	}

	errorContext := make(map[string]any, len(contextFields))
	for k, v := range contextFields {
		errorContext[k] = v
	}

	return &PlatformError{
		UUID:      errorUUID,
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: requestctx.ID(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
		Context:   errorContext,
	}
}

// NewValidationError reports an invalid request field.
func NewValidationError(ctx context.Context, field, message, customUUID string) *PlatformError {
	e := NewError(ctx, LayerHandler, ErrorTypeValidation, message, nil, customUUID)
	e.Field = field
	return e
}

// NewProviderError reports a failed provider call. detail may hold the raw
// upstream body; it is logged but never rendered.
func NewProviderError(ctx context.Context, status int, detail string, err error) *PlatformError {
	e := NewErrorWithContext(ctx, LayerProvider, ErrorTypeExternal, "provider request failed", err, "6d0f3c55-9b8e-4a4f-b1d2-7c0e2a9f1b44", map[string]any{
		"provider_status": status,
		"provider_detail": detail,
	})
	e.Status = status
	return e
}

// WithInstructions attaches remediation steps and returns e.
func (e *PlatformError) WithInstructions(steps ...string) *PlatformError {
	e.Instructions = append(e.Instructions[:0:0], steps...)
	return e
}

// AsError wraps an error with layer context
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	if err == nil {
		return nil
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		wrapped := NewError(ctx, layer, platformErr.Type, fmt.Sprintf("%s: %s", message, platformErr.Message), platformErr, platformErr.UUID)
		wrapped.Field = platformErr.Field
		wrapped.Status = platformErr.Status
		wrapped.Instructions = platformErr.Instructions
		return wrapped
	}

	errorType := ErrorTypeInternal
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		errorType = ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		errorType = ErrorTypeCancelled
	}

	return NewError(ctx, layer, errorType, message, err, "")
}

// IsErrorType checks if an error is a PlatformError with the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Type == errorType
	}
	return false
}

// IsValidationError reports whether err is a request validation failure.
func IsValidationError(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// ProviderStatus returns the upstream HTTP status carried by err.
func ProviderStatus(err error) (int, bool) {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) && platformErr.Type == ErrorTypeExternal && platformErr.Status > 0 {
		return platformErr.Status, true
	}
	return 0, false
}

// LogError logs err with full internal detail, keyed by requestID.
func LogError(logger zerolog.Logger, err error, requestID string) {
	if err == nil {
		return
	}

	var platformErr *PlatformError
	if !errors.As(err, &platformErr) {
		logger.Error().Err(err).Str("request_id", requestID).Msg("unclassified error")
		return
	}

	event := logger.Error()
	if platformErr.Type == ErrorTypeValidation || platformErr.Type == ErrorTypeCancelled || platformErr.Type == ErrorTypeRateLimited {
		event = logger.Warn()
	}
	event = event.
		Str("error_uuid", platformErr.UUID).
		Str("error_type", string(platformErr.Type)).
		Str("layer", string(platformErr.Layer)).
		Time("timestamp_utc", platformErr.Timestamp)

	if requestID == "" {
		requestID = platformErr.RequestID
	}
	if requestID != "" {
		event = event.Str("request_id", requestID)
	}
	if platformErr.Field != "" {
		event = event.Str("field", platformErr.Field)
	}
	if platformErr.Status > 0 {
		event = event.Int("provider_status", platformErr.Status)
	}
	for k, v := range platformErr.Context {
		event = event.Interface(k, v)
	}
	if platformErr.Err != nil {
		event = event.Err(platformErr.Err)
	}

	event.Msg(platformErr.Message)
}
