package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all environment backed configuration for the gateway.
type Config struct {
	// HTTP Server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort     int           `env:"METRICS_PORT" envDefault:"9091"`
	PprofAddr       string        `env:"PPROF_ADDR" envDefault:"127.0.0.1:6060"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitPerMin int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"`

	// Gateway limits
	ChatMaxMessageLength int           `env:"CHAT_MAX_MESSAGE_LENGTH" envDefault:"8000"`
	ChatMaxHistory       int           `env:"CHAT_MAX_HISTORY" envDefault:"100"`
	StreamBufferSize     int           `env:"STREAM_BUFFER_SIZE" envDefault:"64"`
	StreamMaxDuration    time.Duration `env:"STREAM_MAX_DURATION" envDefault:"2m"`
	ProviderTimeout      time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"60s"`
	ProviderConcurrency  int           `env:"PROVIDER_MAX_CONCURRENCY" envDefault:"16"`
	ProviderClientCache  int           `env:"PROVIDER_CLIENT_CACHE_SIZE" envDefault:"32"`
	SpeechMaxTextLength  int           `env:"SPEECH_MAX_TEXT_LENGTH" envDefault:"4096"`
	ImageMaxPromptLength int           `env:"IMAGE_MAX_PROMPT_LENGTH" envDefault:"4000"`

	// Providers
	Credentials        ProviderCredentials
	Endpoints          ProviderEndpoints
	ProviderConfigFile string             `env:"PROVIDER_CONFIG_FILE"`
	ProviderOverrides  *ProviderOverrides `env:"-"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"ai-gateway"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"jan"`
	ServiceVersion   string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`
	LogPIILevel      string `env:"LOG_PII_LEVEL" envDefault:"hashed"`
	LogPIISalt       string `env:"LOG_PII_SALT"`

	// Internal
	LoadedAt time.Time
}

// ProviderCredentials are the values that decide whether a provider is
// configured. They are never logged or rendered.
type ProviderCredentials struct {
	OpenAIAPIKey          string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey       string `env:"ANTHROPIC_API_KEY"`
	AzureOpenAIAPIKey     string `env:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIDeployment string `env:"AZURE_OPENAI_DEPLOYMENT"`
	OllamaBaseURL         string `env:"OLLAMA_BASE_URL"`
	StabilityAPIKey       string `env:"STABILITY_API_KEY"`
	ElevenLabsAPIKey      string `env:"ELEVENLABS_API_KEY"`
}

// ProviderEndpoints tune how configured providers are called.
type ProviderEndpoints struct {
	OpenAIBaseURL         string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIChatModel       string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIImageModel      string `env:"OPENAI_IMAGE_MODEL"`
	OpenAISpeechModel     string `env:"OPENAI_SPEECH_MODEL" envDefault:"tts-1"`
	OpenAIDefaultVoice    string `env:"OPENAI_DEFAULT_VOICE" envDefault:"alloy"`
	AnthropicBaseURL      string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	AnthropicModel        string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-latest"`
	AnthropicMaxTokens    int    `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`
	AzureOpenAIAPIVersion string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2024-06-01"`
	OllamaModel           string `env:"OLLAMA_MODEL" envDefault:"llama3.1"`
	StabilityBaseURL      string `env:"STABILITY_BASE_URL" envDefault:"https://api.stability.ai"`
	StabilityEngine       string `env:"STABILITY_ENGINE" envDefault:"stable-diffusion-xl-1024-v1-0"`
	ElevenLabsBaseURL     string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	ElevenLabsModel       string `env:"ELEVENLABS_MODEL" envDefault:"eleven_multilingual_v2"`
	ElevenLabsVoiceID     string `env:"ELEVENLABS_DEFAULT_VOICE_ID" envDefault:"21m00Tcm4TlvDq8ikWAM"`
}

// Snapshot freezes the credential values under their environment names.
func (c ProviderCredentials) Snapshot() map[string]string {
	return map[string]string{
		"OPENAI_API_KEY":          c.OpenAIAPIKey,
		"ANTHROPIC_API_KEY":       c.AnthropicAPIKey,
		"AZURE_OPENAI_API_KEY":    c.AzureOpenAIAPIKey,
		"AZURE_OPENAI_ENDPOINT":   c.AzureOpenAIEndpoint,
		"AZURE_OPENAI_DEPLOYMENT": c.AzureOpenAIDeployment,
		"OLLAMA_BASE_URL":         c.OllamaBaseURL,
		"STABILITY_API_KEY":       c.StabilityAPIKey,
		"ELEVENLABS_API_KEY":      c.ElevenLabsAPIKey,
	}
}

// Load reads .env files, parses environment variables into Config and
// applies the optional provider overrides file.
func Load() (*Config, error) {
	loadEnvFiles()
	return Parse(env.Options{})
}

// Parse builds a Config from opts without touching .env files.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if path := strings.TrimSpace(cfg.ProviderConfigFile); path != "" {
		overrides, err := LoadProviderOverrides(path)
		if err != nil {
			return nil, fmt.Errorf("load provider overrides: %w", err)
		}
		cfg.ProviderOverrides = overrides
		overrides.ApplyEndpoints(&cfg.Endpoints)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.LoadedAt = time.Now()
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	positive := map[string]int{
		"HTTP_PORT":                c.HTTPPort,
		"METRICS_PORT":             c.MetricsPort,
		"CHAT_MAX_MESSAGE_LENGTH":  c.ChatMaxMessageLength,
		"CHAT_MAX_HISTORY":         c.ChatMaxHistory,
		"STREAM_BUFFER_SIZE":       c.StreamBufferSize,
		"PROVIDER_MAX_CONCURRENCY": c.ProviderConcurrency,
		"SPEECH_MAX_TEXT_LENGTH":   c.SpeechMaxTextLength,
		"IMAGE_MAX_PROMPT_LENGTH":  c.ImageMaxPromptLength,
	}
	for name, v := range positive {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.StreamMaxDuration <= 0 {
		errs = append(errs, errors.New("STREAM_MAX_DURATION must be positive"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if c.RateLimitPerMin < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}

	for name, raw := range map[string]string{
		"OPENAI_BASE_URL":     c.Endpoints.OpenAIBaseURL,
		"ANTHROPIC_BASE_URL":  c.Endpoints.AnthropicBaseURL,
		"STABILITY_BASE_URL":  c.Endpoints.StabilityBaseURL,
		"ELEVENLABS_BASE_URL": c.Endpoints.ElevenLabsBaseURL,
	} {
		if raw == "" {
			continue
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	if extra := strings.TrimSpace(os.Getenv("ENV_FILE")); extra != "" {
		paths = append(paths, extra)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
