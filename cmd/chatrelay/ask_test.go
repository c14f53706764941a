package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/newthinker/chatrelay/internal/chat"
	"github.com/newthinker/chatrelay/internal/config"
	"github.com/newthinker/chatrelay/internal/llm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStream struct {
	tokens []string
}

func (s *sliceStream) Recv() (string, error) {
	if len(s.tokens) == 0 {
		return "", io.EOF
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, nil
}

func (s *sliceStream) Close() error { return nil }

type cannedProvider struct {
	answer string
	tokens []string
}

func (p *cannedProvider) CompleteChat(context.Context, string, string, config.ProviderConfig) (string, error) {
	return p.answer, nil
}

func (p *cannedProvider) StreamChat(context.Context, string, string, config.ProviderConfig) (llm.TokenStream, error) {
	return &sliceStream{tokens: p.tokens}, nil
}

func newAskService(cfg config.ProviderConfig) *chat.Service {
	return chat.NewService(chat.StaticConfig(cfg), &cannedProvider{
		answer: "42",
		tokens: []string{"4", "2"},
	})
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := ask(context.Background(), cmd, newAskService(config.ProviderConfig{APIKey: "k"}), "meaning?", false)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out.String())
}

func TestAsk_Stream(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := ask(context.Background(), cmd, newAskService(config.ProviderConfig{APIKey: "k"}), "meaning?", true)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out.String())
}

func TestAsk_StreamError(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := ask(context.Background(), cmd, newAskService(config.ProviderConfig{}), "meaning?", true)
	require.Error(t, err)
	assert.Equal(t, "GROQ_API_KEY environment variable is required.", err.Error())
}

func TestAsk_MissingCredentials(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)

	err := ask(context.Background(), cmd, newAskService(config.ProviderConfig{}), "meaning?", false)
	var chatErr *chat.Error
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, chat.KindUnauthorized, chatErr.Kind)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "chatrelay dev")
}
