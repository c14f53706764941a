package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/newthinker/chatrelay/internal/config"
	"github.com/newthinker/chatrelay/internal/core"
	"go.uber.org/zap"
)

// Adapter isolates all provider interaction behind CompleteChat and
// StreamChat. Every failure it returns matches core.ErrProvider.
type Adapter struct {
	newClient ClientFactory
	logger    *zap.Logger
}

// NewAdapter creates an adapter that builds clients with factory.
func NewAdapter(factory ClientFactory, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{newClient: factory, logger: logger}
}

// BuildMessages composes the two-part prompt sent for every chat.
func BuildMessages(systemPrompt, userMessage string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userMessage},
	}
}

// CompleteChat issues one blocking call and returns the generated text.
func (a *Adapter) CompleteChat(ctx context.Context, systemPrompt, userMessage string, cfg config.ProviderConfig) (string, error) {
	client, err := a.build(cfg, ClientOptions{})
	if err != nil {
		return "", providerError(err)
	}

	content, err := client.Complete(ctx, BuildMessages(systemPrompt, userMessage))
	if err != nil {
		return "", providerError(err)
	}
	return content, nil
}

// StreamChat opens an incremental delivery channel. The client is built with
// streaming requested; if that fails it is rebuilt without, and the stream
// then carries whatever the plain client delivers.
func (a *Adapter) StreamChat(ctx context.Context, systemPrompt, userMessage string, cfg config.ProviderConfig) (TokenStream, error) {
	client, err := negotiate(
		func() (Client, error) { return a.build(cfg, ClientOptions{Streaming: true}) },
		func() (Client, error) { return a.build(cfg, ClientOptions{}) },
		func(err error) {
			a.logger.Debug("streaming not available, using default client", zap.Error(err))
		},
	)
	if err != nil {
		return nil, providerError(err)
	}

	src, err := client.Stream(ctx, BuildMessages(systemPrompt, userMessage))
	if err != nil {
		return nil, providerError(err)
	}
	return &tokenStream{src: src}, nil
}

func (a *Adapter) build(cfg config.ProviderConfig, opts ClientOptions) (Client, error) {
	if a.newClient == nil {
		return nil, errors.New("no client factory configured")
	}
	client, err := a.newClient(cfg, opts)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client factory returned no client (streaming=%t)", opts.Streaming)
	}
	return client, nil
}

// tokenStream normalizes raw chunks into text fragments.
type tokenStream struct {
	src ChunkSource
}

func (s *tokenStream) Recv() (string, error) {
	for {
		chunk, err := s.src.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", providerError(err)
		}
		if text, ok := NormalizeFragment(chunk); ok {
			return text, nil
		}
	}
}

func (s *tokenStream) Close() error {
	return s.src.Close()
}

func providerError(err error) error {
	if errors.Is(err, core.ErrProvider) {
		return err
	}
	return core.WrapError(core.ErrProvider, err)
}
