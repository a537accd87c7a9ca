package inference

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"resty.dev/v3"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

type StabilityConfig struct {
	BaseURL string
	APIKey  string
	Engine  string
	Timeout time.Duration
}

// StabilityImageClient calls the v1 text-to-image endpoint.
type StabilityImageClient struct {
	client *resty.Client
	cfg    StabilityConfig
}

func NewStabilityImageClient(client *resty.Client, cfg StabilityConfig) *StabilityImageClient {
	return &StabilityImageClient{client: client, cfg: cfg}
}

type stabilityPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Samples     int               `json:"samples"`
	CfgScale    float64           `json:"cfg_scale"`
	Steps       int               `json:"steps"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// stabilityDimensions maps gateway sizes onto dimensions the SDXL engines
// accept. The engines render nothing smaller than 1024 pixels a side, so the
// small square sizes are rejected instead of silently upscaled.
var stabilityDimensions = map[string][2]int{
	"1024x1024": {1024, 1024},
	"1792x1024": {1344, 768},
	"1024x1792": {768, 1344},
}

func (c *StabilityImageClient) GenerateImage(ctx context.Context, req provider.ImageRequest) (*provider.ImageResult, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	dims, ok := stabilityDimensions[req.Size]
	if !ok {
		return nil, platformerrors.NewValidationError(ctx, "size", "size "+req.Size+" is not supported by stability", "")
	}

	var body stabilityResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetBody(stabilityRequest{
			TextPrompts: []stabilityPrompt{{Text: req.Prompt, Weight: 1}},
			Width:       dims[0],
			Height:      dims[1],
			Samples:     1,
			CfgScale:    7,
			Steps:       30,
		}).
		SetResult(&body).
		Post(joinURL(c.cfg.BaseURL, "/v1/generation/"+c.cfg.Engine+"/text-to-image"))
	if err != nil {
		closeBody(resp)
		return nil, transportError(ctx, err)
	}
	if resp.IsError() {
		return nil, platformerrors.NewProviderError(ctx, resp.StatusCode(), resp.String(), nil)
	}
	if len(body.Artifacts) == 0 {
		return nil, platformerrors.NewProviderError(ctx, resp.StatusCode(), "no artifacts returned", nil)
	}

	artifact := body.Artifacts[0]
	if artifact.FinishReason == "CONTENT_FILTERED" {
		return nil, platformerrors.NewProviderError(ctx, http.StatusUnprocessableEntity, "artifact content filtered", nil)
	}
	data, err := base64.StdEncoding.DecodeString(artifact.Base64)
	if err != nil {
		return nil, platformerrors.NewProviderError(ctx, resp.StatusCode(), "artifact is not base64", err)
	}
	return &provider.ImageResult{Data: data, MimeType: "image/png"}, nil
}
