package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"hdt-be/pkg/llm"
)

// DefaultKeepAlive keeps the model resident between the turns of a work
// session so follow-up tasks skip the load.
const DefaultKeepAlive = "30m"

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	KeepAlive string
	Client    *http.Client
}

var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ModelName: modelName,
		KeepAlive: DefaultKeepAlive,
		// Backstop only, the orchestrator bounds each call through ctx.
		Client: &http.Client{Timeout: 10 * time.Minute},
	}
}

type ollamaChatRequest struct {
	Model     string          `json:"model"`
	Messages  []ollamaMessage `json:"messages"`
	Stream    bool            `json:"stream"`
	KeepAlive string          `json:"keep_alive,omitempty"`
	Options   *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model      string        `json:"model"`
	Message    ollamaMessage `json:"message"`
	Done       bool          `json:"done"`
	DoneReason string        `json:"done_reason,omitempty"`
	Error      string        `json:"error,omitempty"`
}

var errIncomplete = errors.New("ollama: reply not finished")

func (o *OllamaProvider) request(history []llm.Message, opts ...llm.Option) ollamaChatRequest {
	options := &llm.Options{Temperature: 0.7, Model: o.ModelName}
	for _, opt := range opts {
		opt(options)
	}

	req := ollamaChatRequest{
		Model:     options.Model,
		Messages:  make([]ollamaMessage, len(history)),
		KeepAlive: o.KeepAlive,
		Options:   &ollamaOptions{Temperature: options.Temperature, NumPredict: options.MaxTokens},
	}
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		req.Messages[i] = ollamaMessage{Role: role, Content: msg.Content}
	}
	return req
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var resp ollamaChatResponse
	if err := llm.PostJSON(ctx, o.Client, "ollama", o.BaseURL+"/api/chat", nil, o.request(history, opts...), &resp); err != nil {
		return "", err
	}

	switch {
	case resp.Error != "":
		return "", errors.New("ollama: " + resp.Error)
	case !resp.Done:
		return "", errIncomplete
	}
	return resp.Message.Content, nil
}
