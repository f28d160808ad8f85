package ai

import (
	"context"
)

// Reply is a drafted response plus the model's self-reported confidence.
type Reply struct {
	Text       string  `json:"response"`
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
}

// Responder is the interface for AI reply drafting.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type Responder interface {
	// GenerateReply drafts an answer to an inbound message given the composed
	// system prompt. Confidence is clamped to [0,1].
	GenerateReply(ctx context.Context, systemPrompt, message string) (*Reply, error)
	// GeneratePersona produces a system-prompt persona from a style-analysis prompt.
	GeneratePersona(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
