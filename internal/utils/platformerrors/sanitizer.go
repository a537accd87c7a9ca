package platformerrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
)

// Code is the closed set of error codes exposed to clients.
type Code string

const (
	CodeNoProviderConfigured  Code = "NO_PROVIDER_CONFIGURED"
	CodeProviderNotConfigured Code = "PROVIDER_NOT_CONFIGURED"
	CodeProviderError         Code = "PROVIDER_ERROR"
	CodeInvalidRequest        Code = "INVALID_REQUEST"
	CodeInternalError         Code = "INTERNAL_ERROR"
)

var safeMessages = map[Code]string{
	CodeNoProviderConfigured:  "No provider is configured for this capability.",
	CodeProviderNotConfigured: "The requested provider is not configured.",
	CodeProviderError:         "The AI provider could not complete the request. Please try again later.",
	CodeInvalidRequest:        "The request is invalid.",
	CodeInternalError:         "An internal error occurred.",
}

const rateLimitedMessage = "Too many requests. Please retry later."

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,31}(\[[0-9]{1,4}\])?(\.[A-Za-z][A-Za-z0-9_]{0,31})?$`)

// SanitizedError is the only error shape that leaves the process. Its fields
// are unexported so that Sanitize is the single constructor.
type SanitizedError struct {
	code         Code
	message      string
	instructions []string
	requestID    string
}

func (e SanitizedError) Code() Code             { return e.code }
func (e SanitizedError) Message() string        { return e.message }
func (e SanitizedError) RequestID() string      { return e.requestID }
func (e SanitizedError) Instructions() []string { return append([]string(nil), e.instructions...) }

// HTTPStatus maps the code to the response status.
func (e SanitizedError) HTTPStatus() int {
	switch e.code {
	case CodeInvalidRequest, CodeProviderNotConfigured:
		return http.StatusBadRequest
	case CodeNoProviderConfigured:
		return http.StatusServiceUnavailable
	case CodeProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type sanitizedErrorJSON struct {
	Code         Code     `json:"code"`
	Message      string   `json:"message"`
	Instructions []string `json:"instructions,omitempty"`
	RequestID    string   `json:"requestId"`
}

// MarshalJSON renders {code, message, instructions?, requestId}.
func (e SanitizedError) MarshalJSON() ([]byte, error) {
	return json.Marshal(sanitizedErrorJSON{
		Code:         e.code,
		Message:      e.message,
		Instructions: e.instructions,
		RequestID:    e.requestID,
	})
}

// Classify maps an internal failure to its external code. The same category
// always yields the same code.
func Classify(err error) Code {
	if err == nil {
		return CodeInternalError
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		switch platformErr.Type {
		case ErrorTypeValidation, ErrorTypeRateLimited:
			return CodeInvalidRequest
		case ErrorTypeNoProviderConfigured:
			return CodeNoProviderConfigured
		case ErrorTypeProviderNotConfigured:
			return CodeProviderNotConfigured
		case ErrorTypeExternal, ErrorTypeTimeout:
			return CodeProviderError
		default:
			return CodeInternalError
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeProviderError
	}
	return CodeInternalError
}

// Sanitize reduces err to a SanitizedError. The message is chosen from a
// fixed table by code; nothing from err.Error(), wrapped causes or provider
// bodies is copied.
func Sanitize(err error, requestID string) SanitizedError {
	code := Classify(err)
	out := SanitizedError{
		code:      code,
		message:   safeMessages[code],
		requestID: requestID,
	}

	var platformErr *PlatformError
	if !errors.As(err, &platformErr) {
		return out
	}

	switch code {
	case CodeInvalidRequest:
		if platformErr.Type == ErrorTypeRateLimited {
			out.message = rateLimitedMessage
		} else if fieldNamePattern.MatchString(platformErr.Field) {
			out.message = fmt.Sprintf("The request field %q is missing or invalid.", platformErr.Field)
		}
	case CodeNoProviderConfigured, CodeProviderNotConfigured:
		out.instructions = append([]string(nil), platformErr.Instructions...)
	}
	return out
}
