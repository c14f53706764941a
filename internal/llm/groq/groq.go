// internal/llm/groq/groq.go
package groq

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/newthinker/chatrelay/internal/config"
	"github.com/newthinker/chatrelay/internal/llm"
	"github.com/sashabaranov/go-openai"
)

// Client implements llm.Client against Groq's OpenAI-compatible API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	streaming   bool
}

// New creates a new Groq client for one provider configuration.
func New(cfg config.ProviderConfig, opts llm.ClientOptions) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if math.IsNaN(cfg.Temperature) || math.IsInf(cfg.Temperature, 0) {
		return nil, fmt.Errorf("temperature must be finite, got %v", cfg.Temperature)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = config.DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	temperature := float32(cfg.Temperature)
	if temperature == 0 {
		// go-openai omits a zero temperature from the request body
		temperature = math.SmallestNonzeroFloat32
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: temperature,
		streaming:   opts.Streaming,
	}, nil
}

// Factory adapts New to llm.ClientFactory.
func Factory(cfg config.ProviderConfig, opts llm.ClientOptions) (llm.Client, error) {
	c, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Complete sends a blocking chat completion request.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.request(messages))
	if err != nil {
		return "", fmt.Errorf("groq API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream opens a streaming chat completion. Without the streaming option the
// full answer is fetched with Complete and delivered as a single chunk.
func (c *Client) Stream(ctx context.Context, messages []llm.Message) (llm.ChunkSource, error) {
	if !c.streaming {
		content, err := c.Complete(ctx, messages)
		if err != nil {
			return nil, err
		}
		return llm.SingleChunk(content), nil
	}

	req := c.request(messages)
	req.Stream = true
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("groq API error: %w", err)
	}
	return &streamSource{stream: stream}, nil
}

func (c *Client) request(messages []llm.Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case llm.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case llm.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
	}
}

// streamSource yields one llm.Fragment per stream chunk.
type streamSource struct {
	stream *openai.ChatCompletionStream
}

func (s *streamSource) Recv() (any, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return llm.Fragment{}, nil
	}
	return llm.Fragment{Text: resp.Choices[0].Delta.Content}, nil
}

func (s *streamSource) Close() error {
	s.stream.Close()
	return nil
}
