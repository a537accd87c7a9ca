package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/infrastructure/logger"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// OpenAICompatibleChatConfig describes an endpoint speaking the OpenAI chat
// completions streaming protocol.
type OpenAICompatibleChatConfig struct {
	Name    string
	URL     string
	Model   string
	Headers map[string]string
}

// OpenAICompatibleChatClient streams chat completions from OpenAI, Azure
// OpenAI and Ollama.
type OpenAICompatibleChatClient struct {
	client *resty.Client
	cfg    OpenAICompatibleChatConfig
}

func NewOpenAICompatibleChatClient(client *resty.Client, cfg OpenAICompatibleChatConfig) *OpenAICompatibleChatClient {
	return &OpenAICompatibleChatClient{client: client, cfg: cfg}
}

type chatStreamChunk struct {
	Choices []openai.ChatCompletionStreamChoice `json:"choices"`
	Error   *chatStreamError                    `json:"error,omitempty"`
}

type chatStreamError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (c *OpenAICompatibleChatClient) StreamChat(ctx context.Context, messages []provider.ChatMessage, onToken provider.TokenFunc) error {
	request := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: toOpenAIMessages(messages),
		Stream:   true,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetHeader("Accept-Encoding", "identity").
		SetHeaders(c.cfg.Headers).
		SetBody(request).
		SetDoNotParseResponse(true).
		Post(c.cfg.URL)
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

	finished := false
	err = scanSSE(ctx, resp.RawResponse.Body, func(_ string, data string) error {
		data = strings.TrimSpace(data)
		if data == doneMarker {
			return errStreamDone
		}
		if data == "" {
			return nil
		}

		chunk, err := c.decodeChunk(data)
		if err != nil {
			return platformerrors.NewProviderError(ctx, resp.StatusCode(), "malformed stream chunk: "+data, err)
		}
		if chunk.Error != nil {
			return platformerrors.NewProviderError(ctx, resp.StatusCode(),
				fmt.Sprintf("stream error %s: %s", chunk.Error.Type, chunk.Error.Message), nil)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				if err := onToken(choice.Delta.Content); err != nil {
					return err
				}
			}
			if choice.FinishReason != "" {
				finished = true
			}
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
	case !finished:
		return platformerrors.NewProviderError(ctx, resp.StatusCode(), "chat stream ended before completion", nil)
	}
	return nil
}

// decodeChunk parses one data payload, repairing it once when a provider
// emits truncated or slightly invalid JSON.
func (c *OpenAICompatibleChatClient) decodeChunk(data string) (*chatStreamChunk, error) {
	var chunk chatStreamChunk
	err := json.Unmarshal([]byte(data), &chunk)
	if err == nil {
		return &chunk, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(data)
	if repairErr != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repaired), &chunk); err != nil {
		return nil, err
	}
	log := logger.GetLogger()
	log.Debug().Str("client", c.cfg.Name).Msg("repaired malformed stream chunk")
	return &chunk, nil
}

func toOpenAIMessages(messages []provider.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
