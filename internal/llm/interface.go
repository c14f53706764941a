package llm

import (
	"context"

	"github.com/newthinker/chatrelay/internal/config"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message
type Message struct {
	Role    Role
	Content string
}

// ClientOptions are the capabilities requested when building a Client.
type ClientOptions struct {
	// Streaming asks for incremental delivery. Clients built without it may
	// still implement Stream by delivering the full answer as one chunk.
	Streaming bool
}

// Client is a provider client bound to one ProviderConfig.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Stream(ctx context.Context, messages []Message) (ChunkSource, error)
}

// ChunkSource yields raw output chunks until io.EOF.
//
// A chunk may be a string, a Fragment, a *Fragment, or any value with a
// Text() string method. Anything else is ignored by the adapter.
type ChunkSource interface {
	Recv() (any, error)
	Close() error
}

// ClientFactory builds a Client for a configuration. It may reject options
// it does not support.
type ClientFactory func(cfg config.ProviderConfig, opts ClientOptions) (Client, error)

// TokenStream yields normalized, non-empty text fragments until io.EOF.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}
