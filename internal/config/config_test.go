package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/domain/provider"
)

func parseWith(t *testing.T, environment map[string]string) (*Config, error) {
	t.Helper()
	return Parse(env.Options{Environment: environment})
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parseWith(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 8000, cfg.ChatMaxMessageLength)
	assert.Equal(t, 100, cfg.ChatMaxHistory)
	assert.Equal(t, 64, cfg.StreamBufferSize)
	assert.Equal(t, 2*time.Minute, cfg.StreamMaxDuration)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 16, cfg.ProviderConcurrency)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Endpoints.OpenAIBaseURL)
	assert.Equal(t, "alloy", cfg.Endpoints.OpenAIDefaultVoice)
	assert.Nil(t, cfg.ProviderOverrides)
	assert.Empty(t, cfg.Credentials.OpenAIAPIKey)
}

func TestParseCredentialsAndNormalization(t *testing.T) {
	cfg, err := parseWith(t, map[string]string{
		"OPENAI_API_KEY":       "sk-abc",
		"AZURE_OPENAI_API_KEY": "az",
		"LOG_LEVEL":            " DEBUG ",
		"LOG_FORMAT":           "JSON",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "sk-abc", cfg.Credentials.OpenAIAPIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	snapshot := cfg.Credentials.Snapshot()
	assert.Equal(t, "sk-abc", snapshot[provider.KeyOpenAIAPIKey])
	assert.Equal(t, "az", snapshot[provider.KeyAzureOpenAIAPIKey])
}

func TestSnapshotCoversCatalogKeys(t *testing.T) {
	snapshot := ProviderCredentials{}.Snapshot()
	for _, def := range provider.DefaultCatalog() {
		for _, key := range def.RequiredKeys {
			_, ok := snapshot[key]
			assert.True(t, ok, "missing %s", key)
		}
	}
}

func TestParseValidation(t *testing.T) {
	_, err := parseWith(t, map[string]string{"STREAM_BUFFER_SIZE": "0"})
	assert.ErrorContains(t, err, "STREAM_BUFFER_SIZE")

	_, err = parseWith(t, map[string]string{"OPENAI_BASE_URL": "not a url"})
	assert.ErrorContains(t, err, "OPENAI_BASE_URL")

	_, err = parseWith(t, map[string]string{"STREAM_MAX_DURATION": "0s"})
	assert.ErrorContains(t, err, "STREAM_MAX_DURATION")

	_, err = parseWith(t, map[string]string{"CHAT_MAX_HISTORY": "many"})
	assert.Error(t, err)
}

func writeOverrides(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestProviderOverridesFile(t *testing.T) {
	t.Setenv("GATEWAY_TEST_OPENAI_URL", "https://proxy.internal/v1")
	t.Setenv("GATEWAY_TEST_STABILITY_ENABLE", "false")

	path := writeOverrides(t, `
providers:
  openai:
    base_url: ${GATEWAY_TEST_OPENAI_URL}
    chat_model: ${GATEWAY_TEST_MISSING:-gpt-4o}
    max_concurrency: 4
    disabled_capabilities: [Speech]
  stability:
    enable: ${GATEWAY_TEST_STABILITY_ENABLE:-true}
  ElevenLabs:
    speech_model: eleven_turbo_v2
`)

	cfg, err := parseWith(t, map[string]string{"PROVIDER_CONFIG_FILE": path})
	require.NoError(t, err)
	require.NotNil(t, cfg.ProviderOverrides)

	assert.Equal(t, "https://proxy.internal/v1", cfg.Endpoints.OpenAIBaseURL)
	assert.Equal(t, "gpt-4o", cfg.Endpoints.OpenAIChatModel)
	assert.Equal(t, "eleven_turbo_v2", cfg.Endpoints.ElevenLabsModel)

	openai, ok := cfg.ProviderOverrides.Get("openai")
	require.True(t, ok)
	assert.Equal(t, 4, openai.MaxConcurrency)

	assert.True(t, cfg.ProviderOverrides.IsDisabled("openai", "speech"))
	assert.False(t, cfg.ProviderOverrides.IsDisabled("openai", "chat"))
	assert.True(t, cfg.ProviderOverrides.IsDisabled("stability", "image"))
	assert.False(t, cfg.ProviderOverrides.IsDisabled("anthropic", "chat"))
	assert.ElementsMatch(t, []string{"openai", "stability", "elevenlabs"}, cfg.ProviderOverrides.Types())
}

func TestProviderOverridesErrors(t *testing.T) {
	_, err := LoadProviderOverrides(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadProviderOverrides(writeOverrides(t, "providers: [not, a, map]"))
	assert.Error(t, err)

	_, err = LoadProviderOverrides(writeOverrides(t, "providers:\n  openai:\n    enable: maybe\n"))
	assert.ErrorContains(t, err, "providers.openai")

	_, err = LoadProviderOverrides(writeOverrides(t, "providers:\n  openai:\n    max_concurrency: -1\n"))
	assert.ErrorContains(t, err, "max_concurrency")
}

func TestExpandWithDefault(t *testing.T) {
	t.Setenv("GATEWAY_TEST_HOST", "example.com")
	assert.Equal(t, "https://example.com:8443", expandWithDefault("https://${GATEWAY_TEST_HOST}:${GATEWAY_TEST_PORT:-8443}"))
	assert.Equal(t, "", expandWithDefault("${GATEWAY_TEST_UNSET}"))
	assert.Equal(t, "plain", expandWithDefault("plain"))
}
