package requests

import (
	"github.com/janhq/ai-gateway/internal/domain/chat"
	"github.com/janhq/ai-gateway/internal/domain/generation"
	"github.com/janhq/ai-gateway/internal/domain/provider"
)

// ChatMessage is one prior turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system" example:"user"`
	Content string `json:"content" binding:"required" example:"What is the capital of France?"`
}

// ChatStreamRequest is the body of POST /chat/stream.
type ChatStreamRequest struct {
	Message  string        `json:"message" binding:"required" example:"And of Italy?"`
	History  []ChatMessage `json:"history" binding:"omitempty,dive"`
	Provider string        `json:"provider,omitempty" example:"anthropic"`
}

func (r ChatStreamRequest) ToDomain() chat.Request {
	history := make([]provider.ChatMessage, len(r.History))
	for i, m := range r.History {
		history[i] = provider.ChatMessage{Role: provider.Role(m.Role), Content: m.Content}
	}
	return chat.Request{Message: r.Message, History: history, Provider: r.Provider}
}

// ImageRequest is the body of POST /image.
type ImageRequest struct {
	Prompt   string `json:"prompt" binding:"required" example:"A lighthouse at dusk, oil painting"`
	Size     string `json:"size,omitempty" binding:"omitempty,oneof=256x256 512x512 1024x1024 1792x1024 1024x1792" example:"1024x1024"`
	Provider string `json:"provider,omitempty" example:"stability"`
}

func (r ImageRequest) ToDomain() generation.ImageRequest {
	return generation.ImageRequest{Prompt: r.Prompt, Size: r.Size, Provider: r.Provider}
}

// SpeechRequest is the body of POST /speech.
type SpeechRequest struct {
	Text     string   `json:"text" binding:"required" example:"Welcome to the gateway."`
	Voice    string   `json:"voice,omitempty" example:"alloy"`
	Speed    *float64 `json:"speed,omitempty" binding:"omitempty,gte=0.5,lte=2" example:"1.0"`
	Provider string   `json:"provider,omitempty" example:"elevenlabs"`
}

func (r SpeechRequest) ToDomain() generation.SpeechRequest {
	return generation.SpeechRequest{Text: r.Text, Voice: r.Voice, Speed: r.Speed, Provider: r.Provider}
}
