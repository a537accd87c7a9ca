package chat

import "github.com/janhq/ai-gateway/internal/utils/platformerrors"

// EventType discriminates stream events.
type EventType string

const (
	EventToken    EventType = "token"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// StreamEvent is one frame of a chat stream. A stream is any number of token
// events followed by exactly one complete or error event.
type StreamEvent struct {
	Type         EventType           `json:"type"`
	Text         string              `json:"text,omitempty"`
	Code         platformerrors.Code `json:"code,omitempty"`
	Message      string              `json:"message,omitempty"`
	Instructions []string            `json:"instructions,omitempty"`
	RequestID    string              `json:"requestId"`
}

func TokenEvent(text, requestID string) StreamEvent {
	return StreamEvent{Type: EventToken, Text: text, RequestID: requestID}
}

func CompleteEvent(requestID string) StreamEvent {
	return StreamEvent{Type: EventComplete, RequestID: requestID}
}

// ErrorEvent carries an already sanitized error.
func ErrorEvent(sanitized platformerrors.SanitizedError) StreamEvent {
	return StreamEvent{
		Type:         EventError,
		Code:         sanitized.Code(),
		Message:      sanitized.Message(),
		Instructions: sanitized.Instructions(),
		RequestID:    sanitized.RequestID(),
	}
}

// IsTerminal reports whether e ends the stream.
func (e StreamEvent) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}
