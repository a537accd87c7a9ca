package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/janhq/ai-gateway/internal/infrastructure/logger"
)

// ProviderOverride adjusts one provider type. It can switch a provider off
// but never on: credentials still come from the environment.
type ProviderOverride struct {
	Enabled              bool
	BaseURL              string
	ChatModel            string
	ImageModel           string
	SpeechModel          string
	MaxConcurrency       int
	DisabledCapabilities []string
}

// ProviderOverrides maps provider type names to overrides.
type ProviderOverrides struct {
	entries map[string]ProviderOverride
}

// Get returns the override of providerType.
func (o *ProviderOverrides) Get(providerType string) (ProviderOverride, bool) {
	if o == nil {
		return ProviderOverride{}, false
	}
	entry, ok := o.entries[strings.ToLower(providerType)]
	return entry, ok
}

// Types lists the provider types that have an override.
func (o *ProviderOverrides) Types() []string {
	if o == nil {
		return nil
	}
	out := make([]string, 0, len(o.entries))
	for t := range o.entries {
		out = append(out, t)
	}
	return out
}

// IsDisabled reports whether providerType is turned off for capability.
func (o *ProviderOverrides) IsDisabled(providerType, capability string) bool {
	entry, ok := o.Get(providerType)
	if !ok {
		return false
	}
	if !entry.Enabled {
		return true
	}
	for _, c := range entry.DisabledCapabilities {
		if strings.EqualFold(c, capability) {
			return true
		}
	}
	return false
}

// ApplyEndpoints copies base URLs and model names onto endpoints.
func (o *ProviderOverrides) ApplyEndpoints(endpoints *ProviderEndpoints) {
	if o == nil || endpoints == nil {
		return
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	if e, ok := o.Get("openai"); ok {
		set(&endpoints.OpenAIBaseURL, e.BaseURL)
		set(&endpoints.OpenAIChatModel, e.ChatModel)
		set(&endpoints.OpenAIImageModel, e.ImageModel)
		set(&endpoints.OpenAISpeechModel, e.SpeechModel)
	}
	if e, ok := o.Get("anthropic"); ok {
		set(&endpoints.AnthropicBaseURL, e.BaseURL)
		set(&endpoints.AnthropicModel, e.ChatModel)
	}
	if e, ok := o.Get("ollama"); ok {
		set(&endpoints.OllamaModel, e.ChatModel)
	}
	if e, ok := o.Get("stability"); ok {
		set(&endpoints.StabilityBaseURL, e.BaseURL)
		set(&endpoints.StabilityEngine, e.ImageModel)
	}
	if e, ok := o.Get("elevenlabs"); ok {
		set(&endpoints.ElevenLabsBaseURL, e.BaseURL)
		set(&endpoints.ElevenLabsModel, e.SpeechModel)
	}
}

type providerOverridesDocument struct {
	Providers map[string]providerOverrideEntry `yaml:"providers" jsonschema:"description=Overrides keyed by provider type"`
}

type providerOverrideEntry struct {
	EnableRaw            string   `yaml:"enable" jsonschema:"description=true or false; ${VAR:-default} is expanded"`
	BaseURL              string   `yaml:"base_url"`
	ChatModel            string   `yaml:"chat_model"`
	ImageModel           string   `yaml:"image_model"`
	SpeechModel          string   `yaml:"speech_model"`
	MaxConcurrency       int      `yaml:"max_concurrency" jsonschema:"minimum=0"`
	DisabledCapabilities []string `yaml:"disabled_capabilities" jsonschema:"description=Capabilities switched off for this provider"`
}

// LoadProviderOverrides parses the yaml file at path.
func LoadProviderOverrides(path string) (*ProviderOverrides, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read provider overrides %q: %w", cleanPath, err)
	}
	log := logger.GetLogger()
	log.Info().Str("path", cleanPath).Msg("loading provider overrides file")

	var doc providerOverridesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse provider overrides %q: %w", cleanPath, err)
	}

	result := &ProviderOverrides{entries: make(map[string]ProviderOverride, len(doc.Providers))}
	for rawType, entry := range doc.Providers {
		providerType := strings.ToLower(strings.TrimSpace(rawType))
		if providerType == "" {
			return nil, errors.New("provider overrides: empty provider type")
		}
		enabled, err := parseEnabled(entry.EnableRaw)
		if err != nil {
			return nil, fmt.Errorf("providers.%s: %w", providerType, err)
		}
		if entry.MaxConcurrency < 0 {
			return nil, fmt.Errorf("providers.%s: max_concurrency must not be negative", providerType)
		}

		override := ProviderOverride{
			Enabled:        enabled,
			BaseURL:        strings.TrimSpace(expandWithDefault(entry.BaseURL)),
			ChatModel:      strings.TrimSpace(expandWithDefault(entry.ChatModel)),
			ImageModel:     strings.TrimSpace(expandWithDefault(entry.ImageModel)),
			SpeechModel:    strings.TrimSpace(expandWithDefault(entry.SpeechModel)),
			MaxConcurrency: entry.MaxConcurrency,
		}
		for _, c := range entry.DisabledCapabilities {
			if c = strings.TrimSpace(c); c != "" {
				override.DisabledCapabilities = append(override.DisabledCapabilities, strings.ToLower(c))
			}
		}

		log.Info().
			Str("provider", providerType).
			Bool("enabled", override.Enabled).
			Str("base_url", override.BaseURL).
			Int("max_concurrency", override.MaxConcurrency).
			Strs("disabled_capabilities", override.DisabledCapabilities).
			Msg("provider override")
		result.entries[providerType] = override
	}
	return result, nil
}

func parseEnabled(raw string) (bool, error) {
	resolved := strings.TrimSpace(expandWithDefault(strings.TrimSpace(raw)))
	if resolved == "" {
		return true, nil
	}
	parsed, err := strconv.ParseBool(resolved)
	if err != nil {
		return false, fmt.Errorf("enable: %w", err)
	}
	return parsed, nil
}

// expandWithDefault expands ${VAR} and ${VAR:-default} using the process
// environment. Every occurrence is expanded.
func expandWithDefault(raw string) string {
	return os.Expand(raw, func(expr string) string {
		name, def, hasDefault := strings.Cut(expr, ":-")
		if val := os.Getenv(name); val != "" {
			return val
		}
		if hasDefault {
			return def
		}
		return ""
	})
}
