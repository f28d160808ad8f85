package ai

import (
	"fmt"
)

// DynamicConfig holds AI provider configuration with runtime-tunable Ollama settings.
type DynamicConfig struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config, read through getters so the settings API can change them live
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// NewResponderWithDynamicConfig creates a Responder based on the config.
// This is the factory function - switch AI provider by changing config.Provider.
func NewResponderWithDynamicConfig(cfg DynamicConfig) (Responder, error) {
	ollama := NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return ollama, nil

	default:
		// Auto: Gemini when a key is configured, Ollama as the fallback path.
		if cfg.GeminiAPIKey != "" {
			return NewFallbackService(NewGeminiService(cfg.GeminiAPIKey), ollama), nil
		}
		return ollama, nil
	}
}
