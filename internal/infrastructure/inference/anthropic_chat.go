package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resty.dev/v3"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

const anthropicVersion = "2023-06-01"

type AnthropicChatConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// AnthropicChatClient streams from the Messages API.
type AnthropicChatClient struct {
	client *resty.Client
	cfg    AnthropicChatConfig
}

func NewAnthropicChatClient(client *resty.Client, cfg AnthropicChatConfig) *AnthropicChatClient {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &AnthropicChatClient{client: client, cfg: cfg}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Stream    bool               `json:"stream"`
}

type anthropicEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicChatClient) StreamChat(ctx context.Context, messages []provider.ChatMessage, onToken provider.TokenFunc) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetHeader("x-api-key", c.cfg.APIKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(buildAnthropicRequest(c.cfg, messages)).
		SetDoNotParseResponse(true).
		Post(joinURL(c.cfg.BaseURL, "/v1/messages"))
	if err != nil {
		closeBody(resp)
		return transportError(ctx, err)
	}
	if resp.IsError() {
		return errorFromResponse(ctx, resp)
	}
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewProviderError(ctx, resp.StatusCode(), "empty response body", nil)
	}
	defer closeBody(resp)

	err = scanSSE(ctx, resp.RawResponse.Body, func(eventName, data string) error {
		var event anthropicEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return platformerrors.NewProviderError(ctx, resp.StatusCode(), "malformed stream event: "+data, err)
		}
		if event.Type == "" {
			event.Type = eventName
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				return onToken(event.Delta.Text)
			}
		case "message_stop":
			return errStreamDone
		case "error":
			detail := "unknown stream error"
			if event.Error != nil {
				detail = fmt.Sprintf("%s: %s", event.Error.Type, event.Error.Message)
			}
			return platformerrors.NewProviderError(ctx, resp.StatusCode(), detail, nil)
		}
		return nil
	})

	switch {
	case errors.Is(err, errStreamDone):
		return nil
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerProvider, ctxErr, "chat stream interrupted")
		}
		var platformErr *platformerrors.PlatformError
		if errors.As(err, &platformErr) {
			return err
		}
		return platformerrors.NewProviderError(ctx, 0, "read chat stream", err)
	default:
		return platformerrors.NewProviderError(ctx, resp.StatusCode(), "chat stream ended before message_stop", nil)
	}
}

// buildAnthropicRequest moves system messages into the system field; the
// Messages API accepts only user and assistant turns.
func buildAnthropicRequest(cfg AnthropicChatConfig, messages []provider.ChatMessage) anthropicRequest {
	req := anthropicRequest{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Stream:    true,
	}
	var system []string
	for _, m := range messages {
		if m.Role == provider.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, anthropicMessage{Role: string(m.Role), Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")
	return req
}
