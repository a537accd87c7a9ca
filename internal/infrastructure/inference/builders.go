package inference

import (
	"net/http"
	"time"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/httpclients"
)

// Endpoints configures how each provider is reached. Credentials are read
// from the settings snapshot at build time.
type Endpoints struct {
	OpenAIBaseURL         string
	OpenAIChatModel       string
	OpenAIImageModel      string
	OpenAISpeechModel     string
	OpenAIDefaultVoice    string
	AnthropicBaseURL      string
	AnthropicModel        string
	AnthropicMaxTokens    int
	AzureOpenAIAPIVersion string
	OllamaModel           string
	StabilityBaseURL      string
	StabilityEngine       string
	ElevenLabsBaseURL     string
	ElevenLabsModel       string
	ElevenLabsVoiceID     string

	// RequestTimeout bounds each image and speech call. Chat streams are
	// bounded by the session instead.
	RequestTimeout time.Duration
}

// Builders creates the client builders of every capability.
type Builders struct {
	endpoints Endpoints
	cache     *ClientCache
}

func NewBuilders(endpoints Endpoints, cache *ClientCache) *Builders {
	return &Builders{endpoints: endpoints, cache: cache}
}

func (b *Builders) Chat() map[provider.Type]provider.Builder[provider.ChatClient] {
	e := b.endpoints
	return map[provider.Type]provider.Builder[provider.ChatClient]{
		provider.TypeOpenAI: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.ChatClient, error) {
			return NewOpenAICompatibleChatClient(httpclients.NewClient("openai-chat", 0), OpenAICompatibleChatConfig{
				Name:    "openai",
				URL:     joinURL(e.OpenAIBaseURL, "/chat/completions"),
				Model:   e.OpenAIChatModel,
				Headers: map[string]string{"Authorization": "Bearer " + s.Value(provider.KeyOpenAIAPIKey)},
			}), nil
		}),
		provider.TypeAnthropic: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.ChatClient, error) {
			return NewAnthropicChatClient(httpclients.NewClient("anthropic-chat", 0), AnthropicChatConfig{
				BaseURL:   e.AnthropicBaseURL,
				APIKey:    s.Value(provider.KeyAnthropicAPIKey),
				Model:     e.AnthropicModel,
				MaxTokens: e.AnthropicMaxTokens,
			}), nil
		}),
		provider.TypeAzureOpenAI: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.ChatClient, error) {
			deployment := s.Value(provider.KeyAzureOpenAIDeployment)
			url := joinURL(s.Value(provider.KeyAzureOpenAIEndpoint), "/openai/deployments/"+deployment+"/chat/completions") +
				"?api-version=" + e.AzureOpenAIAPIVersion
			return NewOpenAICompatibleChatClient(httpclients.NewClient("azure-openai-chat", 0), OpenAICompatibleChatConfig{
				Name:    "azure_openai",
				URL:     url,
				Model:   deployment,
				Headers: map[string]string{"api-key": s.Value(provider.KeyAzureOpenAIAPIKey)},
			}), nil
		}),
		provider.TypeOllama: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.ChatClient, error) {
			return NewOpenAICompatibleChatClient(httpclients.NewClient("ollama-chat", 0), OpenAICompatibleChatConfig{
				Name:  "ollama",
				URL:   joinURL(s.Value(provider.KeyOllamaBaseURL), "/v1/chat/completions"),
				Model: e.OllamaModel,
			}), nil
		}),
	}
}

func (b *Builders) Image() map[provider.Type]provider.Builder[provider.ImageClient] {
	e := b.endpoints
	return map[provider.Type]provider.Builder[provider.ImageClient]{
		provider.TypeOpenAI: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.ImageClient, error) {
			return NewOpenAIImageClient(b.sharedHTTPClient("openai-image"), OpenAIMediaConfig{
				BaseURL:    e.OpenAIBaseURL,
				APIKey:     s.Value(provider.KeyOpenAIAPIKey),
				ImageModel: e.OpenAIImageModel,
				Timeout:    e.RequestTimeout,
			}), nil
		}),
		provider.TypeStability: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.ImageClient, error) {
			return NewStabilityImageClient(httpclients.NewClient("stability-image", e.RequestTimeout), StabilityConfig{
				BaseURL: e.StabilityBaseURL,
				APIKey:  s.Value(provider.KeyStabilityAPIKey),
				Engine:  e.StabilityEngine,
				Timeout: e.RequestTimeout,
			}), nil
		}),
	}
}

func (b *Builders) Speech() map[provider.Type]provider.Builder[provider.SpeechClient] {
	e := b.endpoints
	return map[provider.Type]provider.Builder[provider.SpeechClient]{
		provider.TypeOpenAI: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.SpeechClient, error) {
			return NewOpenAISpeechClient(b.sharedHTTPClient("openai-speech"), OpenAIMediaConfig{
				BaseURL:      e.OpenAIBaseURL,
				APIKey:       s.Value(provider.KeyOpenAIAPIKey),
				SpeechModel:  e.OpenAISpeechModel,
				DefaultVoice: e.OpenAIDefaultVoice,
				Timeout:      e.RequestTimeout,
			}), nil
		}),
		provider.TypeElevenLabs: Cached(b.cache, func(_ provider.Definition, s provider.Settings) (provider.SpeechClient, error) {
			return NewElevenLabsSpeechClient(httpclients.NewClient("elevenlabs-speech", e.RequestTimeout), ElevenLabsConfig{
				BaseURL:        e.ElevenLabsBaseURL,
				APIKey:         s.Value(provider.KeyElevenLabsAPIKey),
				Model:          e.ElevenLabsModel,
				DefaultVoiceID: e.ElevenLabsVoiceID,
				Timeout:        e.RequestTimeout,
			}), nil
		}),
	}
}

// sharedHTTPClient hands go-openai the http.Client of a resty client
// configured like the others. Resty middlewares do not run on it.
func (b *Builders) sharedHTTPClient(name string) *http.Client {
	return httpclients.NewClient(name, b.endpoints.RequestTimeout).Client()
}
