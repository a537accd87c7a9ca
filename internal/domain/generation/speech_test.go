package generation

import (
	"context"
	"encoding/base64"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

var mp3Bytes = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)

type fakeSpeechClient struct {
	calls  atomic.Int32
	result *provider.SpeechResult
	err    error
	last   provider.SpeechRequest
}

func (c *fakeSpeechClient) SynthesizeSpeech(_ context.Context, req provider.SpeechRequest) (*provider.SpeechResult, error) {
	c.calls.Add(1)
	c.last = req
	return c.result, c.err
}

func speechService(settings map[string]string, client provider.SpeechClient) *SpeechService {
	registry := provider.NewRegistry(provider.NewStaticSettings(settings), provider.DefaultCatalog())
	build := func(provider.Definition, provider.Settings) (provider.SpeechClient, error) { return client, nil }
	factory := provider.NewFactory(provider.CapabilitySpeech, registry, provider.NewPool(2), map[provider.Type]provider.Builder[provider.SpeechClient]{
		provider.TypeOpenAI:     build,
		provider.TypeElevenLabs: build,
	})
	return NewSpeechService(factory, 4096, fastRetry(), nil, nil, zerolog.Nop())
}

func speed(v float64) *float64 { return &v }

func TestSpeechSynthesizeDefaults(t *testing.T) {
	client := &fakeSpeechClient{result: &provider.SpeechResult{Audio: mp3Bytes}}
	svc := speechService(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, client)

	out, err := svc.Synthesize(context.Background(), SpeechRequest{Text: "one two three four five"})
	require.NoError(t, err)

	assert.Equal(t, provider.TypeOpenAI, out.Provider)
	assert.Equal(t, "mp3", out.Format)
	assert.Equal(t, base64.StdEncoding.EncodeToString(mp3Bytes), out.Audio)
	assert.True(t, out.DurationEstimated)
	assert.Equal(t, 2*time.Second, out.Duration)
	assert.Equal(t, 1.0, client.last.Speed)
	assert.Empty(t, client.last.Voice)
}

func TestSpeechEstimateUsesRenderedSpeed(t *testing.T) {
	client := &fakeSpeechClient{result: &provider.SpeechResult{Audio: mp3Bytes, Speed: 1.2}}
	svc := speechService(map[string]string{provider.KeyElevenLabsAPIKey: "xi"}, client)

	text := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen"
	out, err := svc.Synthesize(context.Background(), SpeechRequest{Text: text, Speed: speed(2.0)})
	require.NoError(t, err)

	assert.Equal(t, 2.0, client.last.Speed)
	assert.True(t, out.DurationEstimated)
	assert.Equal(t, 5*time.Second, out.Duration)
}

func TestSpeechKeepsProviderMetadata(t *testing.T) {
	client := &fakeSpeechClient{result: &provider.SpeechResult{Audio: mp3Bytes, Format: "wav", Duration: 1500 * time.Millisecond}}
	svc := speechService(map[string]string{provider.KeyElevenLabsAPIKey: "xi"}, client)

	out, err := svc.Synthesize(context.Background(), SpeechRequest{Text: "hello", Voice: "Rachel", Speed: speed(1.5)})
	require.NoError(t, err)
	assert.Equal(t, provider.TypeElevenLabs, out.Provider)
	assert.Equal(t, "wav", out.Format)
	assert.Equal(t, 1500*time.Millisecond, out.Duration)
	assert.False(t, out.DurationEstimated)
	assert.Equal(t, "Rachel", client.last.Voice)
	assert.Equal(t, 1.5, client.last.Speed)
}

func TestSpeechValidation(t *testing.T) {
	client := &fakeSpeechClient{result: &provider.SpeechResult{Audio: mp3Bytes}}
	svc := speechService(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, client)

	tests := []struct {
		name  string
		req   SpeechRequest
		field string
	}{
		{"empty text", SpeechRequest{Text: " "}, "text"},
		{"speed too low", SpeechRequest{Text: "hi", Speed: speed(0.49)}, "speed"},
		{"speed too high", SpeechRequest{Text: "hi", Speed: speed(2.01)}, "speed"},
		{"voice injection", SpeechRequest{Text: "hi", Voice: "../../admin"}, "voice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Synthesize(context.Background(), tt.req)
			var platformErr *platformerrors.PlatformError
			require.ErrorAs(t, err, &platformErr)
			assert.Equal(t, tt.field, platformErr.Field)
		})
	}
	assert.Equal(t, int32(0), client.calls.Load())

	for _, s := range []float64{0.5, 2.0} {
		_, err := svc.Synthesize(context.Background(), SpeechRequest{Text: "hi", Speed: speed(s)})
		assert.NoError(t, err)
	}
}

func TestSpeechProviderNotConfigured(t *testing.T) {
	svc := speechService(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, &fakeSpeechClient{})

	_, err := svc.Synthesize(context.Background(), SpeechRequest{Text: "hi", Provider: "elevenlabs"})
	assert.Equal(t, platformerrors.CodeProviderNotConfigured, platformerrors.Classify(err))
}

func TestSpeechEmptyAudioIsProviderError(t *testing.T) {
	svc := speechService(map[string]string{provider.KeyOpenAIAPIKey: "sk"}, &fakeSpeechClient{result: &provider.SpeechResult{}})

	_, err := svc.Synthesize(context.Background(), SpeechRequest{Text: "hi"})
	assert.Equal(t, platformerrors.CodeProviderError, platformerrors.Classify(err))
}

func TestEstimateDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), EstimateDuration("   ", 1))
	assert.Equal(t, 60*time.Second, EstimateDuration(repeatWords(150), 1))
	assert.Equal(t, 30*time.Second, EstimateDuration(repeatWords(150), 2))
	assert.Equal(t, 60*time.Second, EstimateDuration(repeatWords(150), 0))
}

func repeatWords(n int) string {
	b := make([]byte, 0, n*5)
	for i := 0; i < n; i++ {
		b = append(b, "word "...)
	}
	return string(b)
}
