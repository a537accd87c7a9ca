package generation

import (
	"context"
	"encoding/base64"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/domain/retry"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type fakeImageClient struct {
	calls   atomic.Int32
	results []func() (*provider.ImageResult, error)
	last    provider.ImageRequest
}

func (c *fakeImageClient) GenerateImage(_ context.Context, req provider.ImageRequest) (*provider.ImageResult, error) {
	n := int(c.calls.Add(1)) - 1
	c.last = req
	if n >= len(c.results) {
		n = len(c.results) - 1
	}
	return c.results[n]()
}

func imageFactory(settings map[string]string, client provider.ImageClient) *provider.Factory[provider.ImageClient] {
	registry := provider.NewRegistry(provider.NewStaticSettings(settings), provider.DefaultCatalog())
	build := func(provider.Definition, provider.Settings) (provider.ImageClient, error) { return client, nil }
	return provider.NewFactory(provider.CapabilityImage, registry, provider.NewPool(2), map[provider.Type]provider.Builder[provider.ImageClient]{
		provider.TypeOpenAI:    build,
		provider.TypeStability: build,
	})
}

func fastRetry() retry.Policy {
	return retry.Policy{MaxRetries: 2, InitialDelay: time.Millisecond, BackoffStrategy: retry.BackoffFixed}
}

type recordedCall struct {
	providerType provider.Type
	code         platformerrors.Code
}

type callRecorder struct {
	calls []recordedCall
}

func (r *callRecorder) ProviderCall(_ provider.Capability, t provider.Type, code platformerrors.Code, _ time.Duration) {
	r.calls = append(r.calls, recordedCall{t, code})
}

func ok(data []byte) func() (*provider.ImageResult, error) {
	return func() (*provider.ImageResult, error) { return &provider.ImageResult{Data: data}, nil }
}

func fail(status int) func() (*provider.ImageResult, error) {
	return func() (*provider.ImageResult, error) {
		return nil, platformerrors.NewProviderError(context.Background(), status, "upstream said no", nil)
	}
}

func TestImageGenerateSuccess(t *testing.T) {
	client := &fakeImageClient{results: []func() (*provider.ImageResult, error){ok(pngBytes)}}
	svc := NewImageService(imageFactory(map[string]string{provider.KeyStabilityAPIKey: "st"}, client), 4000, fastRetry(), nil, nil, zerolog.Nop())

	out, err := svc.Generate(context.Background(), ImageRequest{Prompt: "a red fox"})
	require.NoError(t, err)
	assert.Equal(t, provider.TypeStability, out.Provider)
	assert.Equal(t, "image/png", out.MimeType)
	require.True(t, strings.HasPrefix(out.Image, "data:image/png;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out.Image, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, decoded)
	assert.Equal(t, "1024x1024", client.last.Size)
}

func TestImageValidationMakesNoProviderCall(t *testing.T) {
	client := &fakeImageClient{results: []func() (*provider.ImageResult, error){ok(pngBytes)}}
	svc := NewImageService(imageFactory(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, client), 10, fastRetry(), nil, nil, zerolog.Nop())

	for _, req := range []ImageRequest{
		{Prompt: ""},
		{Prompt: "   "},
		{Prompt: "this prompt is too long"},
		{Prompt: "fox", Size: "640x480"},
	} {
		_, err := svc.Generate(context.Background(), req)
		assert.Equal(t, platformerrors.CodeInvalidRequest, platformerrors.Classify(err))
	}
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestImageRetriesTransientFailures(t *testing.T) {
	client := &fakeImageClient{results: []func() (*provider.ImageResult, error){fail(503), fail(500), ok(pngBytes)}}
	recorder := &callRecorder{}
	svc := NewImageService(imageFactory(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, client), 4000, fastRetry(), recorder, nil, zerolog.Nop())

	out, err := svc.Generate(context.Background(), ImageRequest{Prompt: "fox", Size: "512x512"})
	require.NoError(t, err)
	assert.Equal(t, provider.TypeOpenAI, out.Provider)
	assert.Equal(t, int32(3), client.calls.Load())
	assert.Equal(t, []recordedCall{
		{provider.TypeOpenAI, platformerrors.CodeProviderError},
		{provider.TypeOpenAI, platformerrors.CodeProviderError},
		{provider.TypeOpenAI, ""},
	}, recorder.calls)
}

func TestImageDoesNotRetryClientErrors(t *testing.T) {
	client := &fakeImageClient{results: []func() (*provider.ImageResult, error){fail(400)}}
	svc := NewImageService(imageFactory(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, client), 4000, fastRetry(), nil, nil, zerolog.Nop())

	_, err := svc.Generate(context.Background(), ImageRequest{Prompt: "fox"})
	assert.Equal(t, platformerrors.CodeProviderError, platformerrors.Classify(err))
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestImageRejectsNonImagePayload(t *testing.T) {
	client := &fakeImageClient{results: []func() (*provider.ImageResult, error){ok([]byte("<html>oops</html>"))}}
	svc := NewImageService(imageFactory(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, client), 4000, fastRetry(), nil, nil, zerolog.Nop())

	_, err := svc.Generate(context.Background(), ImageRequest{Prompt: "fox"})
	assert.Equal(t, platformerrors.CodeProviderError, platformerrors.Classify(err))
}

func TestImageNoProviderConfigured(t *testing.T) {
	client := &fakeImageClient{results: []func() (*provider.ImageResult, error){ok(pngBytes)}}
	svc := NewImageService(imageFactory(nil, client), 4000, fastRetry(), nil, nil, zerolog.Nop())

	_, err := svc.Generate(context.Background(), ImageRequest{Prompt: "fox"})
	assert.Equal(t, platformerrors.CodeNoProviderConfigured, platformerrors.Classify(err))
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestParseImageSize(t *testing.T) {
	size, ok := ParseImageSize("")
	assert.True(t, ok)
	assert.Equal(t, ImageSize1024, size)

	for _, s := range ImageSizes() {
		got, ok := ParseImageSize(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok = ParseImageSize("1024X1024")
	assert.False(t, ok)
}
