package factory

import (
	"context"
	"errors"
	"fmt"

	"hdt-be/pkg/llm"
	"hdt-be/pkg/llm/gemini"
	"hdt-be/pkg/llm/huggingface"
	"hdt-be/pkg/llm/ollama"
)

// ErrNotConfigured reports that no text-generation capability is set up.
var ErrNotConfigured = errors.New("llm backend not configured")

type Settings struct {
	Provider       string // "gemini", "ollama", "huggingface" or "" for none
	Model          string
	GeminiAPIKey   string
	OllamaBaseURL  string
	HuggingFaceKey string
	HuggingFaceURL string
}

// NewBackend returns the configured capability, or ErrNotConfigured when
// the selected provider lacks the settings it needs.
func NewBackend(ctx context.Context, s Settings) (llm.Backend, error) {
	switch s.Provider {
	case "", "none":
		return nil, ErrNotConfigured
	case "gemini":
		if s.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_GEMINI_API_KEY is empty", ErrNotConfigured)
		}
		return gemini.NewBackend(ctx, s.GeminiAPIKey, s.Model)
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		provider := ollama.NewOllamaProvider(baseURL, s.Model)
		return llm.NewHistoryBackend("ollama:"+s.Model, provider), nil
	case "huggingface":
		if s.HuggingFaceKey == "" {
			return nil, fmt.Errorf("%w: HUGGINGFACE_API_KEY is empty", ErrNotConfigured)
		}
		provider := huggingface.NewHuggingFaceProvider(s.HuggingFaceKey, s.HuggingFaceURL, s.Model)
		return llm.NewHistoryBackend("huggingface:"+s.Model, provider), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
