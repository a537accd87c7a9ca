package inference

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

const maxAudioBytes = 25 * 1024 * 1024

type OpenAIMediaConfig struct {
	BaseURL      string
	APIKey       string
	ImageModel   string
	SpeechModel  string
	DefaultVoice string
	Timeout      time.Duration
}

func newOpenAIClient(httpClient *http.Client, cfg OpenAIMediaConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(config)
}

// openAIError maps go-openai failures onto provider errors.
func openAIError(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return platformerrors.NewProviderError(ctx, apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return platformerrors.NewProviderError(ctx, reqErr.HTTPStatusCode, "", err)
	}
	return transportError(ctx, err)
}

// OpenAIImageClient generates images through the Images API.
type OpenAIImageClient struct {
	client *openai.Client
	cfg    OpenAIMediaConfig
}

func NewOpenAIImageClient(httpClient *http.Client, cfg OpenAIMediaConfig) *OpenAIImageClient {
	return &OpenAIImageClient{client: newOpenAIClient(httpClient, cfg), cfg: cfg}
}

// imageModel picks dall-e-2 for the sizes only it supports unless a model
// is configured.
func (c *OpenAIImageClient) imageModel(size string) string {
	if c.cfg.ImageModel != "" {
		return c.cfg.ImageModel
	}
	switch size {
	case openai.CreateImageSize256x256, openai.CreateImageSize512x512:
		return openai.CreateImageModelDallE2
	default:
		return openai.CreateImageModelDallE3
	}
}

func (c *OpenAIImageClient) GenerateImage(ctx context.Context, req provider.ImageRequest) (*provider.ImageResult, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          c.imageModel(req.Size),
		Size:           req.Size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, openAIError(ctx, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, platformerrors.NewProviderError(ctx, http.StatusOK, "image response without data", nil)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, platformerrors.NewProviderError(ctx, http.StatusOK, "image payload is not base64", err)
	}
	return &provider.ImageResult{Data: data}, nil
}

// OpenAISpeechClient synthesizes mp3 audio through the Audio API.
type OpenAISpeechClient struct {
	client *openai.Client
	cfg    OpenAIMediaConfig
}

func NewOpenAISpeechClient(httpClient *http.Client, cfg OpenAIMediaConfig) *OpenAISpeechClient {
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = string(openai.VoiceAlloy)
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = string(openai.TTSModel1)
	}
	return &OpenAISpeechClient{client: newOpenAIClient(httpClient, cfg), cfg: cfg}
}

func (c *OpenAISpeechClient) SynthesizeSpeech(ctx context.Context, req provider.SpeechRequest) (*provider.SpeechResult, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	voice := req.Voice
	if voice == "" {
		voice = c.cfg.DefaultVoice
	}
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.cfg.SpeechModel),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          req.Speed,
	})
	if err != nil {
		return nil, openAIError(ctx, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(io.LimitReader(resp, maxAudioBytes))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	return &provider.SpeechResult{Audio: audio, Format: "mp3"}, nil
}
