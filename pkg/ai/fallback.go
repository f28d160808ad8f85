package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
)

// FallbackService implements smart AI provider routing with fallback.
// Reply drafting prefers Gemini (better instruction following for the JSON
// contract), falling back to Ollama on quota exhaustion or outage.
type FallbackService struct {
	gemini Responder
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini Responder, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	return apperr.CodeOf(err) == apperr.CodeRateLimit
}

// GenerateReply tries Gemini first, falls back to Ollama on quota or connection errors.
func (f *FallbackService) GenerateReply(ctx context.Context, systemPrompt, message string) (*Reply, error) {
	if f.gemini != nil {
		result, err := f.gemini.GenerateReply(ctx, systemPrompt, message)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err // Caller's deadline is spent, don't burn it twice.
		}
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.GenerateReply(ctx, systemPrompt, message)
		if err == nil {
			return result, nil
		}
		if isConnectionError(err) && f.gemini != nil && ctx.Err() == nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.GenerateReply(ctx, systemPrompt, message)
		}
		return nil, fmt.Errorf("ollama reply generation failed: %w", err)
	}

	return nil, apperr.New(apperr.CodeMissingAPIKey, "no AI provider available for reply generation")
}

// GeneratePersona tries Gemini first, falls back to Ollama.
func (f *FallbackService) GeneratePersona(ctx context.Context, prompt string) (string, error) {
	if f.gemini != nil {
		result, err := f.gemini.GeneratePersona(ctx, prompt)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted for persona: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error for persona: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.GeneratePersona(ctx, prompt)
		if err == nil {
			return result, nil
		}
		return "", fmt.Errorf("ollama persona generation failed: %w", err)
	}

	return "", apperr.New(apperr.CodeMissingAPIKey, "no AI provider available for persona generation")
}
