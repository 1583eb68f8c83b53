package llm

import (
	"context"
	"sync"
)

// HistoryBackend turns a stateless LLMProvider into a Backend by keeping the
// message history client side.
type HistoryBackend struct {
	name     string
	provider LLMProvider
	options  []Option
}

func NewHistoryBackend(name string, provider LLMProvider, options ...Option) *HistoryBackend {
	return &HistoryBackend{name: name, provider: provider, options: options}
}

func (b *HistoryBackend) Name() string {
	return b.name
}

func (b *HistoryBackend) StartConversation(ctx context.Context, systemInstruction string) (Conversation, error) {
	conv := &historyConversation{provider: b.provider, options: b.options}
	if systemInstruction != "" {
		conv.history = append(conv.history, Message{Role: RoleSystem, Content: systemInstruction})
	}
	return conv, nil
}

type historyConversation struct {
	mu       sync.Mutex
	provider LLMProvider
	options  []Option
	history  []Message
}

// Send only keeps the turn when the provider answered, so a failed call
// leaves the history untouched.
func (c *historyConversation) Send(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn := append(append(make([]Message, 0, len(c.history)+1), c.history...), Message{Role: RoleUser, Content: text})
	reply, err := c.provider.Chat(ctx, turn, c.options...)
	if err != nil {
		return "", err
	}

	c.history = append(turn, Message{Role: RoleAssistant, Content: reply})
	return reply, nil
}

func (c *historyConversation) Close() error {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
	return nil
}
