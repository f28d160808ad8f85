package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
)

const geminiModel = "gemini-2.5-flash"

// GeminiService implements Responder against the Generative Language REST API.
type GeminiService struct {
	apiKey string
	client *http.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		client: &http.Client{},
	}
}

// GenerateReply asks Gemini for a reply and a confidence score as strict JSON.
func (g *GeminiService) GenerateReply(ctx context.Context, systemPrompt, message string) (*Reply, error) {
	prompt := fmt.Sprintf(`%s

You received the following message from a follower:

MESSAGE:
%s

Reply in the voice described above. Respond with ONLY a JSON object, no other text:
{"response": "<your reply>", "confidence": <0.0-1.0 how certain you are this reply is correct and on-brand>}`, systemPrompt, message)

	text, err := g.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	reply, err := parseReplyJSON(text)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeAPIError, "gemini returned an unparseable reply", err)
	}
	return reply, nil
}

// GeneratePersona returns the raw completion text.
func (g *GeminiService) GeneratePersona(ctx context.Context, prompt string) (string, error) {
	return g.generateContent(ctx, prompt)
}

func (g *GeminiService) generateContent(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", apperr.New(apperr.CodeMissingAPIKey, "GEMINI_API_KEY is not configured")
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", geminiModel, g.apiKey)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperr.Wrap(apperr.CodeTimeout, "gemini request timed out", err)
		}
		return "", apperr.Wrap(apperr.CodeAPIError, "gemini request failed", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", apperr.New(apperr.CodeRateLimit, "gemini quota exhausted")
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.CodeAPIError, fmt.Sprintf("gemini API error (%d): %s", resp.StatusCode, string(respBody)))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", apperr.Wrap(apperr.CodeAPIError, "failed to decode gemini response", err)
	}

	// Parse text from response
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", apperr.New(apperr.CodeAPIError, "gemini returned no candidates")
}

// parseReplyJSON extracts a Reply from model output, tolerating markdown fences
// and stray prose around the JSON object.
func parseReplyJSON(text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var reply Reply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return nil, err
	}
	if reply.Text == "" {
		return nil, fmt.Errorf("empty response field")
	}
	if reply.Confidence < 0 {
		reply.Confidence = 0
	}
	if reply.Confidence > 1 {
		reply.Confidence = 1
	}
	return &reply, nil
}
