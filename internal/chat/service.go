// Package chat turns a user message into a provider call and classifies the
// outcome.
package chat

import (
	"context"
	"errors"
	"io"
	"iter"
	"time"

	"github.com/newthinker/chatrelay/internal/config"
	"github.com/newthinker/chatrelay/internal/core"
	"github.com/newthinker/chatrelay/internal/llm"
	"go.uber.org/zap"
)

// SystemPrompt is the fixed instruction sent ahead of every user message.
const SystemPrompt = `You are a helpful, concise assistant. Answer the user's question directly and accurately.
If you are not sure about something, say so instead of guessing.`

// Modes used in metrics.
const (
	ModeSync   = "sync"
	ModeStream = "stream"
)

// ConfigSource supplies the provider configuration for one call.
type ConfigSource interface {
	Resolve() (config.ProviderConfig, error)
}

// ConfigSourceFunc adapts a function to ConfigSource.
type ConfigSourceFunc func() (config.ProviderConfig, error)

func (f ConfigSourceFunc) Resolve() (config.ProviderConfig, error) { return f() }

// StaticConfig always returns cfg.
func StaticConfig(cfg config.ProviderConfig) ConfigSource {
	return ConfigSourceFunc(func() (config.ProviderConfig, error) { return cfg, nil })
}

// Provider is the provider adapter used by Service.
type Provider interface {
	CompleteChat(ctx context.Context, systemPrompt, userMessage string, cfg config.ProviderConfig) (string, error)
	StreamChat(ctx context.Context, systemPrompt, userMessage string, cfg config.ProviderConfig) (llm.TokenStream, error)
}

// Recorder receives chat metrics.
type Recorder interface {
	RecordChat(mode, outcome string, seconds float64)
	RecordStreamToken()
}

type nopRecorder struct{}

func (nopRecorder) RecordChat(string, string, float64) {}
func (nopRecorder) RecordStreamToken()                 {}

// Service is the chat orchestrator. It holds no per-request state.
type Service struct {
	configs      ConfigSource
	provider     Provider
	systemPrompt string
	logger       *zap.Logger
	recorder     Recorder
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithSystemPrompt replaces SystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) { s.systemPrompt = prompt }
}

// NewService creates a Service resolving configuration from configs on every
// call.
func NewService(configs ConfigSource, provider Provider, opts ...Option) *Service {
	s := &Service{
		configs:      configs,
		provider:     provider,
		systemPrompt: SystemPrompt,
		logger:       zap.NewNop(),
		recorder:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat answers message with a single blocking provider call.
func (s *Service) Chat(ctx context.Context, message string) (*Response, error) {
	cfg, err := s.configs.Resolve()
	if err != nil {
		return nil, s.fail(ctx, ModeSync, time.Now(), err)
	}
	return s.ChatWith(ctx, cfg, message)
}

// ChatWith is Chat with an explicit configuration.
func (s *Service) ChatWith(ctx context.Context, cfg config.ProviderConfig, message string) (*Response, error) {
	start := time.Now()
	if err := checkCredentials(cfg); err != nil {
		return nil, s.fail(ctx, ModeSync, start, err)
	}

	answer, err := s.provider.CompleteChat(ctx, s.systemPrompt, message, cfg)
	if err != nil {
		return nil, s.fail(ctx, ModeSync, start, err)
	}

	s.recorder.RecordChat(ModeSync, "ok", time.Since(start).Seconds())
	s.logger.Debug("chat completed",
		zap.String("model", cfg.Model),
		zap.Int("answer_len", len(answer)),
	)
	return &Response{Answer: answer}, nil
}

// ChatStream answers message as a sequence of events. The sequence ends with
// exactly one Done or Error event. Stopping iteration early closes the
// provider stream.
func (s *Service) ChatStream(ctx context.Context, message string) iter.Seq[StreamEvent] {
	return func(yield func(StreamEvent) bool) {
		cfg, err := s.configs.Resolve()
		if err != nil {
			yield(ErrorEvent(s.fail(ctx, ModeStream, time.Now(), err).Message))
			return
		}
		s.stream(ctx, cfg, message, yield)
	}
}

// ChatStreamWith is ChatStream with an explicit configuration.
func (s *Service) ChatStreamWith(ctx context.Context, cfg config.ProviderConfig, message string) iter.Seq[StreamEvent] {
	return func(yield func(StreamEvent) bool) {
		s.stream(ctx, cfg, message, yield)
	}
}

func (s *Service) stream(ctx context.Context, cfg config.ProviderConfig, message string, yield func(StreamEvent) bool) {
	start := time.Now()
	if err := checkCredentials(cfg); err != nil {
		yield(ErrorEvent(s.fail(ctx, ModeStream, start, err).Message))
		return
	}

	tokens, err := s.provider.StreamChat(ctx, s.systemPrompt, message, cfg)
	if err != nil {
		yield(ErrorEvent(s.fail(ctx, ModeStream, start, err).Message))
		return
	}
	defer tokens.Close()

	count := 0
	for {
		text, err := tokens.Recv()
		if errors.Is(err, io.EOF) {
			s.recorder.RecordChat(ModeStream, "ok", time.Since(start).Seconds())
			s.logger.Debug("chat stream completed",
				zap.String("model", cfg.Model),
				zap.Int("tokens", count),
			)
			yield(Done())
			return
		}
		if err != nil {
			yield(ErrorEvent(s.fail(ctx, ModeStream, start, err).Message))
			return
		}

		count++
		s.recorder.RecordStreamToken()
		if !yield(Token(text)) {
			s.recorder.RecordChat(ModeStream, "canceled", time.Since(start).Seconds())
			s.logger.Debug("chat stream abandoned by consumer", zap.Int("tokens", count))
			return
		}
	}
}

func (s *Service) fail(ctx context.Context, mode string, start time.Time, err error) *Error {
	chatErr := classify(err)

	// Caller cancellation is recorded as canceled, never as a provider failure.
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.recorder.RecordChat(mode, "canceled", time.Since(start).Seconds())
		s.logger.Debug("chat canceled by caller",
			zap.String("mode", mode),
			zap.Error(err),
		)
		return chatErr
	}

	s.recorder.RecordChat(mode, chatErr.Kind.String(), time.Since(start).Seconds())

	log := s.logger.Warn
	if chatErr.Kind == KindUpstreamFailure {
		log = s.logger.Error
	}
	log("chat failed",
		zap.String("mode", mode),
		zap.String("kind", chatErr.Kind.String()),
		zap.Error(err),
	)
	return chatErr
}

func checkCredentials(cfg config.ProviderConfig) error {
	if cfg.APIKey == "" {
		return core.Errorf(core.ErrMissingCredentials,
			"%s environment variable is required.", config.EnvAPIKey)
	}
	return nil
}
