package inference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/httpclients"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// stalledProvider accepts a request and never answers it. The body is read
// first: net/http only watches for the client hanging up once the handler
// has consumed the request body.
type stalledProvider struct {
	srv          *httptest.Server
	arrived      chan struct{}
	disconnected chan struct{}
}

func newStalledProvider(t *testing.T) *stalledProvider {
	t.Helper()
	p := &stalledProvider{
		arrived:      make(chan struct{}, 1),
		disconnected: make(chan struct{}, 1),
	}
	stop := make(chan struct{})
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		p.arrived <- struct{}{}
		select {
		case <-r.Context().Done():
			p.disconnected <- struct{}{}
		case <-stop:
		}
	}))
	t.Cleanup(p.srv.Close)
	t.Cleanup(func() { close(stop) })
	return p
}

func (p *stalledProvider) waitArrived(t *testing.T) {
	t.Helper()
	select {
	case <-p.arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the provider")
	}
}

func (p *stalledProvider) assertDisconnected(t *testing.T) {
	t.Helper()
	select {
	case <-p.disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("provider connection still open after the call returned")
	}
}

type providerCall func(ctx context.Context, baseURL string, timeout time.Duration) error

func providerCalls() map[string]providerCall {
	discard := func(string) error { return nil }
	messages := []provider.ChatMessage{{Role: provider.RoleUser, Content: "hi"}}
	return map[string]providerCall{
		"openai-compatible chat": func(ctx context.Context, baseURL string, timeout time.Duration) error {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return openAIChat(baseURL).StreamChat(ctx, messages, discard)
		},
		"anthropic chat": func(ctx context.Context, baseURL string, timeout time.Duration) error {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			client := NewAnthropicChatClient(httpclients.NewClient("test", 0), AnthropicChatConfig{BaseURL: baseURL, APIKey: "k", Model: "m"})
			return client.StreamChat(ctx, messages, discard)
		},
		"stability image": func(ctx context.Context, baseURL string, timeout time.Duration) error {
			client := NewStabilityImageClient(httpclients.NewClient("test", 0), StabilityConfig{BaseURL: baseURL, APIKey: "k", Engine: "sdxl", Timeout: timeout})
			_, err := client.GenerateImage(ctx, provider.ImageRequest{Prompt: "fox", Size: "1024x1024"})
			return err
		},
		"elevenlabs speech": func(ctx context.Context, baseURL string, timeout time.Duration) error {
			client := NewElevenLabsSpeechClient(httpclients.NewClient("test", 0), ElevenLabsConfig{BaseURL: baseURL, APIKey: "k", DefaultVoiceID: "v", Timeout: timeout})
			_, err := client.SynthesizeSpeech(ctx, provider.SpeechRequest{Text: "hello", Speed: 1})
			return err
		},
		"openai image": func(ctx context.Context, baseURL string, timeout time.Duration) error {
			client := NewOpenAIImageClient(&http.Client{}, OpenAIMediaConfig{BaseURL: baseURL + "/v1", APIKey: "k", Timeout: timeout})
			_, err := client.GenerateImage(ctx, provider.ImageRequest{Prompt: "fox", Size: "1024x1024"})
			return err
		},
		"openai speech": func(ctx context.Context, baseURL string, timeout time.Duration) error {
			client := NewOpenAISpeechClient(&http.Client{}, OpenAIMediaConfig{BaseURL: baseURL + "/v1", APIKey: "k", Timeout: timeout})
			_, err := client.SynthesizeSpeech(ctx, provider.SpeechRequest{Text: "hello", Speed: 1})
			return err
		},
	}
}

func TestProviderConnectionClosedOnDeadline(t *testing.T) {
	for name, call := range providerCalls() {
		t.Run(name, func(t *testing.T) {
			p := newStalledProvider(t)

			err := call(context.Background(), p.srv.URL, 50*time.Millisecond)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout), "got %v", err)
			assert.Equal(t, platformerrors.CodeProviderError, platformerrors.Classify(err))
			p.assertDisconnected(t)
		})
	}
}

func TestProviderConnectionClosedOnCancel(t *testing.T) {
	for name, call := range providerCalls() {
		t.Run(name, func(t *testing.T) {
			p := newStalledProvider(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- call(ctx, p.srv.URL, 0) }()
			p.waitArrived(t)
			cancel()

			select {
			case err := <-done:
				assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeCancelled), "got %v", err)
			case <-time.After(2 * time.Second):
				t.Fatal("call did not return after cancellation")
			}
			p.assertDisconnected(t)
		})
	}
}
