package inference

import (
	"context"
	"io"
	"math"
	"time"

	"resty.dev/v3"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

type ElevenLabsConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	DefaultVoiceID string
	Timeout        time.Duration
}

// ElevenLabsSpeechClient calls the text-to-speech endpoint.
type ElevenLabsSpeechClient struct {
	client *resty.Client
	cfg    ElevenLabsConfig
}

func NewElevenLabsSpeechClient(client *resty.Client, cfg ElevenLabsConfig) *ElevenLabsSpeechClient {
	return &ElevenLabsSpeechClient{client: client, cfg: cfg}
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed"`
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id,omitempty"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// ElevenLabs accepts a narrower speed range than the gateway.
const (
	elevenLabsMinSpeed = 0.7
	elevenLabsMaxSpeed = 1.2
)

func (c *ElevenLabsSpeechClient) SynthesizeSpeech(ctx context.Context, req provider.SpeechRequest) (*provider.SpeechResult, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	voice := req.Voice
	if voice == "" {
		voice = c.cfg.DefaultVoiceID
	}
	speed := math.Min(math.Max(req.Speed, elevenLabsMinSpeed), elevenLabsMaxSpeed)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("xi-api-key", c.cfg.APIKey).
		SetHeader("Accept", "audio/mpeg").
		SetHeader("Content-Type", "application/json").
		SetBody(elevenLabsRequest{
			Text:          req.Text,
			ModelID:       c.cfg.Model,
			VoiceSettings: elevenLabsVoiceSettings{Stability: 0.5, SimilarityBoost: 0.75, Speed: speed},
		}).
		SetDoNotParseResponse(true).
		Post(joinURL(c.cfg.BaseURL, "/v1/text-to-speech/"+voice))
	if err != nil {
		closeBody(resp)
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, errorFromResponse(ctx, resp)
	}
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return nil, platformerrors.NewProviderError(ctx, resp.StatusCode(), "empty response body", nil)
	}
	defer closeBody(resp)

	audio, err := io.ReadAll(io.LimitReader(resp.RawResponse.Body, maxAudioBytes))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	return &provider.SpeechResult{Audio: audio, Format: "mp3", Speed: speed}, nil
}
