package provider

import (
	"context"
	"time"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenFunc receives each text chunk in provider order. Returning an error
// stops the stream.
type TokenFunc func(text string) error

// ChatClient streams a completion for the given conversation. It returns nil
// once the provider signals end of output.
type ChatClient interface {
	StreamChat(ctx context.Context, messages []ChatMessage, onToken TokenFunc) error
}

type ImageRequest struct {
	Prompt string
	Size   string
}

type ImageResult struct {
	Data     []byte
	MimeType string
}

type ImageClient interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

type SpeechRequest struct {
	Text  string
	Voice string
	Speed float64
}

// SpeechResult carries synthesized audio. Format and Duration are optional;
// providers that do not report them leave them zero. Speed is set when the
// provider rendered at a different rate than requested.
type SpeechResult struct {
	Audio    []byte
	Format   string
	Duration time.Duration
	Speed    float64
}

type SpeechClient interface {
	SynthesizeSpeech(ctx context.Context, req SpeechRequest) (*SpeechResult, error)
}
