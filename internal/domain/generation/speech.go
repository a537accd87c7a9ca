package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/domain/retry"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
	"github.com/janhq/ai-gateway/pkg/telemetry"
)

const (
	MinSpeechSpeed     = 0.5
	MaxSpeechSpeed     = 2.0
	DefaultSpeechSpeed = 1.0

	// wordsPerMinute is an average narration rate at speed 1.0.
	wordsPerMinute = 150.0
)

var voicePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type SpeechRequest struct {
	Text     string
	Voice    string
	Speed    *float64
	Provider string
}

// SpeechResult holds base64 audio. Duration is reported by the provider or
// estimated from the word count; DurationEstimated tells which.
type SpeechResult struct {
	Audio             string
	Format            string
	Duration          time.Duration
	DurationEstimated bool
	Provider          provider.Type
}

type SpeechService struct {
	resolver      Resolver[provider.SpeechClient]
	maxTextLength int
	policy        retry.Policy
	recorder      Recorder
	sanitizer     *telemetry.Sanitizer
	log           zerolog.Logger
}

func NewSpeechService(resolver Resolver[provider.SpeechClient], maxTextLength int, policy retry.Policy, recorder Recorder, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *SpeechService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if sanitizer == nil {
		sanitizer = telemetry.NewSanitizer(telemetry.PIILevelNone, "")
	}
	return &SpeechService{
		resolver:      resolver,
		maxTextLength: maxTextLength,
		policy:        policy,
		recorder:      recorder,
		sanitizer:     sanitizer,
		log:           log.With().Str("component", "speech").Logger(),
	}
}

// Validate checks req and returns the effective speed.
func (s *SpeechService) Validate(ctx context.Context, req SpeechRequest) (float64, error) {
	if strings.TrimSpace(req.Text) == "" {
		return 0, platformerrors.NewValidationError(ctx, "text", "text is empty", "")
	}
	if s.maxTextLength > 0 && utf8.RuneCountInString(req.Text) > s.maxTextLength {
		return 0, platformerrors.NewValidationError(ctx, "text",
			fmt.Sprintf("text exceeds %d characters", s.maxTextLength), "")
	}
	if req.Voice != "" && !voicePattern.MatchString(req.Voice) {
		return 0, platformerrors.NewValidationError(ctx, "voice", "voice is malformed", "")
	}
	speed := DefaultSpeechSpeed
	if req.Speed != nil {
		speed = *req.Speed
		if math.IsNaN(speed) || speed < MinSpeechSpeed || speed > MaxSpeechSpeed {
			return 0, platformerrors.NewValidationError(ctx, "speed",
				fmt.Sprintf("speed must be between %.1f and %.1f", MinSpeechSpeed, MaxSpeechSpeed), "")
		}
	}
	return speed, nil
}

// Synthesize validates req, resolves a provider and returns the audio.
func (s *SpeechService) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResult, error) {
	speed, err := s.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	handle, err := s.resolver.ResolveClient(ctx, req.Provider)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("provider", string(handle.Type)).
		Float64("speed", speed).
		Str("text_preview", s.sanitizer.Preview(req.Text, 64)).
		Msg("synthesizing speech")

	out, err := call(ctx, handle, s.policy, s.recorder, func(ctx context.Context, client provider.SpeechClient) (*provider.SpeechResult, error) {
		return client.SynthesizeSpeech(ctx, provider.SpeechRequest{Text: req.Text, Voice: req.Voice, Speed: speed})
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "synthesize speech")
	}
	if out == nil || len(out.Audio) == 0 {
		return nil, platformerrors.NewProviderError(ctx, 0, "provider returned no audio", nil)
	}

	result := &SpeechResult{
		Audio:    base64.StdEncoding.EncodeToString(out.Audio),
		Format:   out.Format,
		Duration: out.Duration,
		Provider: handle.Type,
	}
	if result.Format == "" {
		result.Format = AudioFormat(out.Audio)
	}
	if result.Duration <= 0 {
		if out.Speed > 0 {
			speed = out.Speed
		}
		result.Duration = EstimateDuration(req.Text, speed)
		result.DurationEstimated = true
	}
	return result, nil
}

// AudioFormat names the container of audio by its magic bytes, e.g. "mp3".
func AudioFormat(audio []byte) string {
	mt := mimetype.Detect(audio)
	if ext := strings.TrimPrefix(mt.Extension(), "."); ext != "" {
		return ext
	}
	return "bin"
}

// EstimateDuration approximates narration length from the word count.
func EstimateDuration(text string, speed float64) time.Duration {
	if speed <= 0 {
		speed = DefaultSpeechSpeed
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	seconds := float64(words) / (wordsPerMinute * speed) * 60
	return time.Duration(seconds * float64(time.Second)).Round(10 * time.Millisecond)
}
