package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/httpclients"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

var fakePNG = []byte("\x89PNG\r\n\x1a\nfake-image")

func TestOpenAIImageClient(t *testing.T) {
	var gotModel, gotSize, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-img", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel, _ = body["model"].(string)
		gotSize, _ = body["size"].(string)
		gotFormat, _ = body["response_format"].(string)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(fakePNG)}},
		})
	}))
	defer srv.Close()

	client := NewOpenAIImageClient(nil, OpenAIMediaConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-img", Timeout: 5 * time.Second})
	out, err := client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: "512x512"})
	require.NoError(t, err)
	assert.Equal(t, fakePNG, out.Data)
	assert.Equal(t, "dall-e-2", gotModel)
	assert.Equal(t, "512x512", gotSize)
	assert.Equal(t, "b64_json", gotFormat)

	_, err = client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: "1792x1024"})
	require.NoError(t, err)
	assert.Equal(t, "dall-e-3", gotModel)
}

func TestOpenAIImageClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"Your request was rejected by the safety system","type":"invalid_request_error","code":"content_policy_violation"}}`)
	}))
	defer srv.Close()

	client := NewOpenAIImageClient(nil, OpenAIMediaConfig{BaseURL: srv.URL + "/v1", APIKey: "sk"})
	_, err := client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: "1024x1024"})
	status, ok := platformerrors.ProviderStatus(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOpenAISpeechClient(t *testing.T) {
	audio := []byte("ID3\x03\x00\x00\x00\x00\x00\x00mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alloy", body["voice"])
		assert.Equal(t, "tts-1", body["model"])
		assert.Equal(t, 1.25, body["speed"])
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	client := NewOpenAISpeechClient(nil, OpenAIMediaConfig{BaseURL: srv.URL + "/v1", APIKey: "sk"})
	out, err := client.SynthesizeSpeech(context.Background(), provider.SpeechRequest{Text: "hello", Speed: 1.25})
	require.NoError(t, err)
	assert.Equal(t, audio, out.Audio)
	assert.Equal(t, "mp3", out.Format)
}

func TestStabilityImageClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generation/sdxl/text-to-image", r.URL.Path)
		assert.Equal(t, "Bearer st-key", r.Header.Get("Authorization"))
		var body stabilityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1344, body.Width)
		assert.Equal(t, 768, body.Height)
		assert.Equal(t, "fox", body.TextPrompts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"artifacts": []any{map[string]any{"base64": base64.StdEncoding.EncodeToString(fakePNG), "finishReason": "SUCCESS"}},
		})
	}))
	defer srv.Close()

	client := NewStabilityImageClient(httpclients.NewClient("test", 0), StabilityConfig{BaseURL: srv.URL, APIKey: "st-key", Engine: "sdxl"})
	out, err := client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: "1792x1024"})
	require.NoError(t, err)
	assert.Equal(t, fakePNG, out.Data)
	assert.Equal(t, "image/png", out.MimeType)
}

func TestStabilityImageClientErrors(t *testing.T) {
	filtered := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"artifacts":[{"base64":"","finishReason":"CONTENT_FILTERED"}]}`)
	}))
	defer filtered.Close()

	client := NewStabilityImageClient(httpclients.NewClient("test", 0), StabilityConfig{BaseURL: filtered.URL, APIKey: "k", Engine: "sdxl"})
	_, err := client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: "1024x1024"})
	status, _ := platformerrors.ProviderStatus(err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	client = NewStabilityImageClient(httpclients.NewClient("test", 0), StabilityConfig{BaseURL: failing.URL, APIKey: "k", Engine: "sdxl"})
	_, err = client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: "1024x1024"})
	status, _ = platformerrors.ProviderStatus(err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestStabilityImageClientRejectsSmallSizes(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewStabilityImageClient(httpclients.NewClient("test", 0), StabilityConfig{BaseURL: srv.URL, APIKey: "k", Engine: "sdxl"})
	for _, size := range []string{"256x256", "512x512"} {
		_, err := client.GenerateImage(context.Background(), provider.ImageRequest{Prompt: "fox", Size: size})
		assert.True(t, platformerrors.IsValidationError(err), "size %s: got %v", size, err)
		assert.Equal(t, platformerrors.CodeInvalidRequest, platformerrors.Classify(err))
	}
	assert.Zero(t, calls)
}

func TestElevenLabsSpeechClient(t *testing.T) {
	audio := []byte("ID3\x03\x00\x00\x00\x00\x00\x00el-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-123", r.URL.Path)
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))
		var body elevenLabsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Text)
		assert.Equal(t, elevenLabsMaxSpeed, body.VoiceSettings.Speed)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	client := NewElevenLabsSpeechClient(httpclients.NewClient("test", 0), ElevenLabsConfig{BaseURL: srv.URL, APIKey: "xi-key", DefaultVoiceID: "voice-123"})
	out, err := client.SynthesizeSpeech(context.Background(), provider.SpeechRequest{Text: "hello", Speed: 2.0})
	require.NoError(t, err)
	assert.Equal(t, audio, out.Audio)
	assert.Equal(t, elevenLabsMaxSpeed, out.Speed)
}
