package responses

import (
	"github.com/janhq/ai-gateway/internal/domain/generation"
	"github.com/janhq/ai-gateway/internal/domain/provider"
)

// ProviderListResponse is the body of GET /providers/{capability}.
type ProviderListResponse struct {
	Providers        []provider.Descriptor `json:"providers"`
	DefaultProvider  *provider.Type        `json:"defaultProvider"`
	HasAnyConfigured bool                  `json:"hasAnyConfigured"`
}

func NewProviderListResponse(list provider.StatusList) ProviderListResponse {
	providers := list.Providers
	if providers == nil {
		providers = []provider.Descriptor{}
	}
	return ProviderListResponse{
		Providers:        providers,
		DefaultProvider:  list.DefaultProvider,
		HasAnyConfigured: list.HasAnyConfigured,
	}
}

// ImageResponse is the body of POST /image.
type ImageResponse struct {
	Image     string        `json:"image" example:"data:image/png;base64,iVBORw0KGgo..."`
	Provider  provider.Type `json:"provider" example:"openai"`
	RequestID string        `json:"requestId"`
}

func NewImageResponse(result *generation.ImageResult, requestID string) ImageResponse {
	return ImageResponse{Image: result.Image, Provider: result.Provider, RequestID: requestID}
}

// SpeechResponse is the body of POST /speech. Duration is in seconds.
type SpeechResponse struct {
	Audio             string        `json:"audio"`
	Format            string        `json:"format" example:"mp3"`
	Duration          *float64      `json:"duration,omitempty" example:"2.4"`
	DurationEstimated bool          `json:"durationEstimated,omitempty"`
	Provider          provider.Type `json:"provider" example:"elevenlabs"`
	RequestID         string        `json:"requestId"`
}

func NewSpeechResponse(result *generation.SpeechResult, requestID string) SpeechResponse {
	resp := SpeechResponse{
		Audio:             result.Audio,
		Format:            result.Format,
		DurationEstimated: result.DurationEstimated,
		Provider:          result.Provider,
		RequestID:         requestID,
	}
	if result.Duration > 0 {
		seconds := result.Duration.Seconds()
		resp.Duration = &seconds
	}
	return resp
}
