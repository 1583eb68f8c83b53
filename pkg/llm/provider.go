package llm

import (
	"context"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider is a stateless chat endpoint: the caller ships the whole
// history on every call.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
}

// Conversation is the live multi-turn state held for one session.
type Conversation interface {
	// Send appends one user turn and returns the model's text reply.
	Send(ctx context.Context, text string) (string, error)

	// Close releases whatever the backend holds for this conversation.
	Close() error
}

// Backend is the external text-generation capability.
type Backend interface {
	Name() string
	StartConversation(ctx context.Context, systemInstruction string) (Conversation, error)
}
