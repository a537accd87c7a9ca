package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// State is the lifecycle position of a Session.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingProvider State = "awaiting_provider"
	StateStreaming        State = "streaming"
	StateCompleted        State = "completed"
	StateAborted          State = "aborted"
)

// Resolver yields chat client handles. *provider.Factory[provider.ChatClient]
// implements it.
type Resolver interface {
	ValidateRequested(ctx context.Context, requested string) error
	ResolveClient(ctx context.Context, requested string) (*provider.Handle[provider.ChatClient], error)
}

// Sink receives the events of one session in order. An error from Send
// means the caller can no longer receive events.
type Sink interface {
	Send(event StreamEvent) error
}

// Outcome labels how a session ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
)

// Recorder observes session milestones for metrics.
type Recorder interface {
	StreamStarted(providerType provider.Type)
	FirstToken(providerType provider.Type, latency time.Duration)
	StreamFinished(providerType provider.Type, outcome Outcome, code platformerrors.Code, duration time.Duration)
}

type NopRecorder struct{}

func (NopRecorder) StreamStarted(provider.Type)                                               {}
func (NopRecorder) FirstToken(provider.Type, time.Duration)                                   {}
func (NopRecorder) StreamFinished(provider.Type, Outcome, platformerrors.Code, time.Duration) {}

// Session relays one chat exchange from a provider to a Sink.
//
// The provider receive loop and the writer loop are joined by a channel of
// Limits.BufferSize tokens. When the caller falls behind and the channel is
// full, the provider loop blocks; MaxDuration bounds how long that can last.
type Session struct {
	ID        string
	RequestID string

	request  Request
	resolver Resolver
	limits   Limits
	recorder Recorder
	log      zerolog.Logger

	mu           sync.Mutex
	state        State
	terminated   bool
	providerType provider.Type
	startedAt    time.Time
	tokens       int
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ProviderType returns the resolved provider, empty before resolution.
func (s *Session) ProviderType() provider.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.providerType
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	s.state = to
	s.mu.Unlock()
}

// Run drives the session to a terminal state. It returns once the terminal
// event has been handed to sink and the provider lease is released.
func (s *Session) Run(ctx context.Context, sink Sink) State {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return s.State()
	}
	s.state = StateAwaitingProvider
	s.startedAt = time.Now()
	s.mu.Unlock()

	handle, err := s.resolver.ResolveClient(ctx, s.request.Provider)
	if err != nil {
		s.abort(sink, err)
		return s.State()
	}

	release, err := handle.Acquire(ctx)
	if err != nil {
		s.abort(sink, err)
		return s.State()
	}
	defer release()

	// providerType is only set once the stream counts as started.
	s.mu.Lock()
	s.providerType = handle.Type
	s.mu.Unlock()

	s.transition(StateStreaming)
	s.recorder.StreamStarted(handle.Type)
	s.log.Debug().
		Str("session_id", s.ID).
		Str("provider", string(handle.Type)).
		Int("history", len(s.request.History)).
		Msg("chat stream started")

	streamCtx, cancel := context.WithTimeout(ctx, s.limits.MaxDuration)
	defer cancel()

	tokens := make(chan string, s.limits.BufferSize)
	done := make(chan error, 1)
	go s.receive(streamCtx, handle.Client, tokens, done)

	for {
		select {
		case text, ok := <-tokens:
			if !ok {
				providerErr := <-done
				if providerErr != nil {
					s.abort(sink, s.streamFailure(ctx, streamCtx, providerErr))
					return s.State()
				}
				s.complete(sink)
				return s.State()
			}
			if err := s.emitToken(sink, text); err != nil {
				cancel()
				s.drain(tokens, done)
				s.abort(sink, s.sinkFailure(ctx, err))
				return s.State()
			}
		case <-streamCtx.Done():
			cancel()
			s.drain(tokens, done)
			s.abort(sink, s.streamFailure(ctx, streamCtx, nil))
			return s.State()
		}
	}
}

// receive runs the provider call; it owns and closes tokens.
func (s *Session) receive(ctx context.Context, client provider.ChatClient, tokens chan<- string, done chan<- error) {
	var err error
	defer close(tokens)
	defer func() {
		if r := recover(); r != nil {
			err = platformerrors.NewError(ctx, platformerrors.LayerProvider, platformerrors.ErrorTypeInternal,
				fmt.Sprintf("chat provider panicked: %v", r), nil, "")
		}
		done <- err
	}()

	err = client.StreamChat(ctx, s.request.Conversation(), func(text string) error {
		if text == "" {
			return nil
		}
		select {
		case tokens <- text:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// drain discards buffered tokens until the provider loop exits.
func (s *Session) drain(tokens <-chan string, done <-chan error) {
	for range tokens {
	}
	<-done
}

// streamFailure picks the cause of a stream that ended early. Caller
// cancellation and the duration limit win over whatever the provider
// reported while being torn down.
func (s *Session) streamFailure(ctx, streamCtx context.Context, providerErr error) error {
	if err := ctx.Err(); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat stream cancelled by caller")
	}
	if errors.Is(streamCtx.Err(), context.DeadlineExceeded) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTimeout,
			fmt.Sprintf("chat stream exceeded %s", s.limits.MaxDuration), streamCtx.Err(), "")
	}
	if providerErr == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"chat stream ended without a result", nil, "")
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, providerErr, "chat stream failed")
}

// sinkFailure reports a caller that stopped receiving as cancelled.
func (s *Session) sinkFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, ctx.Err(), "chat stream cancelled by caller")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeCancelled,
		"caller stopped receiving chat tokens", err, "")
}

func (s *Session) emitToken(sink Sink, text string) error {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return nil
	}
	s.tokens++
	first := s.tokens == 1
	providerType := s.providerType
	startedAt := s.startedAt
	s.mu.Unlock()

	if first {
		s.recorder.FirstToken(providerType, time.Since(startedAt))
	}
	return sink.Send(TokenEvent(text, s.RequestID))
}

// finish marks the session terminal. It returns false when a terminal event
// was already emitted.
func (s *Session) finish(state State) (bool, provider.Type, time.Duration, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return false, "", 0, 0
	}
	s.terminated = true
	s.state = state
	return true, s.providerType, time.Since(s.startedAt), s.tokens
}

func (s *Session) complete(sink Sink) {
	ok, providerType, elapsed, tokens := s.finish(StateCompleted)
	if !ok {
		return
	}
	if err := sink.Send(CompleteEvent(s.RequestID)); err != nil {
		s.log.Warn().Err(err).Str("request_id", s.RequestID).Msg("failed to deliver completion event")
	}
	s.recorder.StreamFinished(providerType, OutcomeCompleted, "", elapsed)
	s.log.Info().
		Str("request_id", s.RequestID).
		Str("session_id", s.ID).
		Str("provider", string(providerType)).
		Int("tokens", tokens).
		Dur("duration", elapsed).
		Msg("chat stream completed")
}

func (s *Session) abort(sink Sink, err error) {
	ok, providerType, elapsed, tokens := s.finish(StateAborted)
	if !ok {
		return
	}
	platformerrors.LogError(s.log, err, s.RequestID)

	sanitized := platformerrors.Sanitize(err, s.RequestID)
	if sendErr := sink.Send(ErrorEvent(sanitized)); sendErr != nil {
		s.log.Debug().Err(sendErr).Str("request_id", s.RequestID).Msg("error event not delivered")
	}

	outcome := OutcomeError
	if platformerrors.IsErrorType(err, platformerrors.ErrorTypeCancelled) {
		outcome = OutcomeCancelled
	}
	s.recorder.StreamFinished(providerType, outcome, sanitized.Code(), elapsed)
	s.log.Info().
		Str("request_id", s.RequestID).
		Str("session_id", s.ID).
		Str("provider", string(providerType)).
		Str("code", string(sanitized.Code())).
		Int("tokens", tokens).
		Dur("duration", elapsed).
		Msg("chat stream aborted")
}
