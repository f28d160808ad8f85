package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
)

// OllamaService implements Responder using an Ollama local LLM.
type OllamaService struct {
	getBaseURL func() string // Dynamic getter for BaseURL
	getModel   func() string // Dynamic getter for Model
	client     *http.Client
}

// NewOllamaService creates a new Ollama service with static settings.
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{
		getBaseURL: func() string { return baseURL },
		getModel:   func() string { return model },
		client:     &http.Client{},
	}
}

// NewOllamaServiceWithGetters creates a new Ollama service whose base URL and
// model can be changed at runtime through the settings API.
func NewOllamaServiceWithGetters(getBaseURL, getModel func() string) *OllamaService {
	return &OllamaService{
		getBaseURL: getBaseURL,
		getModel:   getModel,
		client:     &http.Client{},
	}
}

// GenerateReply implements Responder.
func (o *OllamaService) GenerateReply(ctx context.Context, systemPrompt, message string) (*Reply, error) {
	prompt := fmt.Sprintf(`%s

You received the following message from a follower:

MESSAGE:
%s

Reply in the voice described above. Respond with ONLY a JSON object, no other text:
{"response": "<your reply>", "confidence": <0.0-1.0 how certain you are this reply is correct and on-brand>}`, systemPrompt, message)

	text, err := o.generate(ctx, prompt, 0.4, 300)
	if err != nil {
		return nil, err
	}

	reply, err := parseReplyJSON(text)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeAPIError, "ollama returned an unparseable reply", err)
	}
	return reply, nil
}

// GeneratePersona implements Responder.
func (o *OllamaService) GeneratePersona(ctx context.Context, prompt string) (string, error) {
	return o.generate(ctx, prompt, 0.3, 800)
}

func (o *OllamaService) generate(ctx context.Context, prompt string, temperature float64, numPredict int) (string, error) {
	url := o.getBaseURL() + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.getModel(),
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": temperature,
			"num_predict": numPredict,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperr.Wrap(apperr.CodeTimeout, "ollama request timed out", err)
		}
		return "", apperr.Wrap(apperr.CodeAPIError, "ollama request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", apperr.New(apperr.CodeRateLimit, "ollama server is overloaded")
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.CodeAPIError, fmt.Sprintf("ollama API error (%d): %s", resp.StatusCode, string(respBody)))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", apperr.Wrap(apperr.CodeAPIError, "failed to parse ollama response", err)
	}

	return result.Response, nil
}
