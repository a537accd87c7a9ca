package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/config"
	"github.com/janhq/ai-gateway/internal/domain/chat"
	"github.com/janhq/ai-gateway/internal/domain/generation"
	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/domain/retry"
	"github.com/janhq/ai-gateway/internal/infrastructure/metrics"
	"github.com/janhq/ai-gateway/pkg/telemetry"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	ProvideChatLimits,
	ProvideChatService,
	ProvideImageService,
	ProvideSpeechService,
	ProvideDirectory,
)

func ProvideChatLimits(cfg *config.Config) chat.Limits {
	return chat.Limits{
		MaxMessageLength: cfg.ChatMaxMessageLength,
		MaxHistory:       cfg.ChatMaxHistory,
		BufferSize:       cfg.StreamBufferSize,
		MaxDuration:      cfg.StreamMaxDuration,
	}
}

func ProvideChatService(factory *provider.Factory[provider.ChatClient], limits chat.Limits, recorder *metrics.Recorder, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *chat.Service {
	return chat.NewService(factory, limits, recorder, sanitizer, log)
}

func ProvideImageService(cfg *config.Config, factory *provider.Factory[provider.ImageClient], recorder *metrics.Recorder, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *generation.ImageService {
	return generation.NewImageService(factory, cfg.ImageMaxPromptLength, retry.ProviderPolicy(), recorder, sanitizer, log)
}

func ProvideSpeechService(cfg *config.Config, factory *provider.Factory[provider.SpeechClient], recorder *metrics.Recorder, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *generation.SpeechService {
	return generation.NewSpeechService(factory, cfg.SpeechMaxTextLength, retry.ProviderPolicy(), recorder, sanitizer, log)
}

// ProvideDirectory lists the factories in capability order.
func ProvideDirectory(
	chatFactory *provider.Factory[provider.ChatClient],
	imageFactory *provider.Factory[provider.ImageClient],
	speechFactory *provider.Factory[provider.SpeechClient],
) *provider.Directory {
	return provider.NewDirectory(chatFactory, imageFactory, speechFactory)
}
