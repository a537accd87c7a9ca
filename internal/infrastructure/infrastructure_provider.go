package infrastructure

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/config"
	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/infrastructure/inference"
	"github.com/janhq/ai-gateway/internal/infrastructure/logger"
	"github.com/janhq/ai-gateway/internal/infrastructure/metrics"
	"github.com/janhq/ai-gateway/pkg/telemetry"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger installs the process logger at the configured level.
func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

func ProvideSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.ParsePIILevel(cfg.LogPIILevel), cfg.LogPIISalt)
}

// ProvideRegistry freezes the credential snapshot into the provider registry.
// Providers switched off in the overrides file are disabled per capability.
func ProvideRegistry(cfg *config.Config, log zerolog.Logger) *provider.Registry {
	var opts []provider.RegistryOption
	for _, def := range provider.DefaultCatalog() {
		if cfg.ProviderOverrides.IsDisabled(string(def.Type), string(def.Capability)) {
			opts = append(opts, provider.WithDisabled(def.Capability, def.Type))
			log.Info().
				Str("provider", string(def.Type)).
				Str("capability", string(def.Capability)).
				Msg("provider disabled by overrides file")
		}
	}

	registry := provider.NewRegistry(
		provider.NewStaticSettings(cfg.Credentials.Snapshot()),
		provider.DefaultCatalog(),
		opts...,
	)
	for _, capability := range provider.Capabilities() {
		status := registry.ConfigurationStatus(capability)
		metrics.PublishConfiguration(status)

		event := log.Info().Str("capability", string(capability)).Bool("has_any_configured", status.HasAnyConfigured)
		if status.DefaultProvider != nil {
			event = event.Str("default_provider", string(*status.DefaultProvider))
		}
		event.Msg("provider configuration loaded")
	}
	return registry
}

// ProvidePool sizes the lease pool from PROVIDER_MAX_CONCURRENCY and any
// per-provider max_concurrency override.
func ProvidePool(cfg *config.Config) *provider.Pool {
	opts := []provider.PoolOption{provider.WithWaitObserver(metrics.RecordLeaseWait)}
	for _, name := range cfg.ProviderOverrides.Types() {
		override, _ := cfg.ProviderOverrides.Get(name)
		if override.MaxConcurrency > 0 {
			opts = append(opts, provider.WithCapacity(provider.Type(name), int64(override.MaxConcurrency)))
		}
	}
	return provider.NewPool(int64(cfg.ProviderConcurrency), opts...)
}

func ProvideClientCache(cfg *config.Config) (*inference.ClientCache, error) {
	return inference.NewClientCache(cfg.ProviderClientCache)
}

func ProvideBuilders(cfg *config.Config, cache *inference.ClientCache) *inference.Builders {
	e := cfg.Endpoints
	return inference.NewBuilders(inference.Endpoints{
		OpenAIBaseURL:         e.OpenAIBaseURL,
		OpenAIChatModel:       e.OpenAIChatModel,
		OpenAIImageModel:      e.OpenAIImageModel,
		OpenAISpeechModel:     e.OpenAISpeechModel,
		OpenAIDefaultVoice:    e.OpenAIDefaultVoice,
		AnthropicBaseURL:      e.AnthropicBaseURL,
		AnthropicModel:        e.AnthropicModel,
		AnthropicMaxTokens:    e.AnthropicMaxTokens,
		AzureOpenAIAPIVersion: e.AzureOpenAIAPIVersion,
		OllamaModel:           e.OllamaModel,
		StabilityBaseURL:      e.StabilityBaseURL,
		StabilityEngine:       e.StabilityEngine,
		ElevenLabsBaseURL:     e.ElevenLabsBaseURL,
		ElevenLabsModel:       e.ElevenLabsModel,
		ElevenLabsVoiceID:     e.ElevenLabsVoiceID,
		RequestTimeout:        cfg.ProviderTimeout,
	}, cache)
}

func ProvideChatFactory(registry *provider.Registry, pool *provider.Pool, builders *inference.Builders) *provider.Factory[provider.ChatClient] {
	return provider.NewFactory(provider.CapabilityChat, registry, pool, builders.Chat())
}

func ProvideImageFactory(registry *provider.Registry, pool *provider.Pool, builders *inference.Builders) *provider.Factory[provider.ImageClient] {
	return provider.NewFactory(provider.CapabilityImage, registry, pool, builders.Image())
}

func ProvideSpeechFactory(registry *provider.Registry, pool *provider.Pool, builders *inference.Builders) *provider.Factory[provider.SpeechClient] {
	return provider.NewFactory(provider.CapabilitySpeech, registry, pool, builders.Speech())
}

// Infrastructure holds the dependencies shared by the HTTP layer.
type Infrastructure struct {
	Config *config.Config
	Logger zerolog.Logger
}

func NewInfrastructure(cfg *config.Config, logger zerolog.Logger) *Infrastructure {
	return &Infrastructure{Config: cfg, Logger: logger}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Logging
	ProvideLogger,
	ProvideSanitizer,

	// Providers
	ProvideRegistry,
	ProvidePool,
	ProvideClientCache,
	ProvideBuilders,
	ProvideChatFactory,
	ProvideImageFactory,
	ProvideSpeechFactory,

	// Metrics
	metrics.NewRecorder,

	// Infrastructure struct
	NewInfrastructure,
)
