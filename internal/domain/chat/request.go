package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// Limits bound chat requests and sessions. They are fixed at process start.
type Limits struct {
	MaxMessageLength int
	MaxHistory       int
	BufferSize       int
	MaxDuration      time.Duration
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxMessageLength: 8000,
		MaxHistory:       100,
		BufferSize:       64,
		MaxDuration:      2 * time.Minute,
	}
}

// Request is one validated-or-not chat exchange. History is caller supplied
// context and is replayed verbatim.
type Request struct {
	Message  string
	History  []provider.ChatMessage
	Provider string
}

// Validate rejects the request before any provider is contacted.
func (r Request) Validate(ctx context.Context, limits Limits) error {
	if strings.TrimSpace(r.Message) == "" {
		return platformerrors.NewValidationError(ctx, "message", "message is empty", "")
	}
	if limits.MaxMessageLength > 0 && utf8.RuneCountInString(r.Message) > limits.MaxMessageLength {
		return platformerrors.NewValidationError(ctx, "message",
			fmt.Sprintf("message exceeds %d characters", limits.MaxMessageLength), "")
	}
	if limits.MaxHistory > 0 && len(r.History) > limits.MaxHistory {
		return platformerrors.NewValidationError(ctx, "history",
			fmt.Sprintf("history exceeds %d messages", limits.MaxHistory), "")
	}
	for i, m := range r.History {
		if !m.Role.Valid() {
			return platformerrors.NewValidationError(ctx, fmt.Sprintf("history[%d].role", i), "unknown role", "")
		}
		if strings.TrimSpace(m.Content) == "" {
			return platformerrors.NewValidationError(ctx, fmt.Sprintf("history[%d].content", i), "content is empty", "")
		}
		if limits.MaxMessageLength > 0 && utf8.RuneCountInString(m.Content) > limits.MaxMessageLength {
			return platformerrors.NewValidationError(ctx, fmt.Sprintf("history[%d].content", i), "content too long", "")
		}
	}
	return nil
}

// Conversation is the history followed by the new user message.
func (r Request) Conversation() []provider.ChatMessage {
	messages := make([]provider.ChatMessage, 0, len(r.History)+1)
	messages = append(messages, r.History...)
	return append(messages, provider.ChatMessage{Role: provider.RoleUser, Content: r.Message})
}
