package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/utils/idgen"
	"github.com/janhq/ai-gateway/pkg/telemetry"
)

// Service validates chat requests and creates streaming sessions.
type Service struct {
	resolver  Resolver
	limits    Limits
	recorder  Recorder
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
}

func NewService(resolver Resolver, limits Limits, recorder Recorder, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if limits.BufferSize <= 0 {
		limits.BufferSize = DefaultLimits().BufferSize
	}
	if limits.MaxDuration <= 0 {
		limits.MaxDuration = DefaultLimits().MaxDuration
	}
	if sanitizer == nil {
		sanitizer = telemetry.NewSanitizer(telemetry.PIILevelNone, "")
	}
	return &Service{
		resolver:  resolver,
		limits:    limits,
		recorder:  recorder,
		sanitizer: sanitizer,
		log:       log.With().Str("component", "chat").Logger(),
	}
}

// Validate checks req against the configured limits and rejects a provider
// name the chat catalogue does not know.
func (s *Service) Validate(ctx context.Context, req Request) error {
	if err := req.Validate(ctx, s.limits); err != nil {
		return err
	}
	return s.resolver.ValidateRequested(ctx, req.Provider)
}

// NewSession prepares an idle session for a validated request.
func (s *Service) NewSession(requestID string, req Request) *Session {
	sessionID, err := idgen.GenerateSecureID("chs", 16)
	if err != nil {
		sessionID = "chs_" + requestID
	}

	s.log.Debug().
		Str("request_id", requestID).
		Str("session_id", sessionID).
		Str("message_preview", s.sanitizer.Preview(req.Message, 64)).
		Msg("chat session created")

	return &Session{
		ID:        sessionID,
		RequestID: requestID,
		request:   req,
		resolver:  s.resolver,
		limits:    s.limits,
		recorder:  s.recorder,
		log:       s.log,
		state:     StateIdle,
	}
}
