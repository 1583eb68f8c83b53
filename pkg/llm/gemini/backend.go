package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hdt-be/pkg/llm"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

// Backend starts stateful Gemini chats; the conversation history lives in
// the genai chat object.
type Backend struct {
	client *genai.Client
	model  string
}

var _ llm.Backend = (*Backend)(nil)

func NewBackend(ctx context.Context, apiKey, model string) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Backend{client: client, model: model}, nil
}

func (b *Backend) Name() string {
	return fmt.Sprintf("gemini:%s", b.model)
}

func (b *Backend) StartConversation(ctx context.Context, systemInstruction string) (llm.Conversation, error) {
	config := &genai.GenerateContentConfig{}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	chat, err := b.client.Chats.Create(ctx, b.model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("start gemini chat: %w", err)
	}
	return &conversation{chat: chat}, nil
}

type conversation struct {
	chat *genai.Chat
}

func (c *conversation) Send(ctx context.Context, text string) (string, error) {
	if c.chat == nil {
		return "", errors.New("gemini conversation closed")
	}

	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return strings.TrimRight(resp.Text(), "\n"), nil
}

// Close drops the chat; genai keeps no server side state for it.
func (c *conversation) Close() error {
	c.chat = nil
	return nil
}
