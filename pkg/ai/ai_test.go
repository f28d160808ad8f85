package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplyJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Reply
		wantErr bool
	}{
		{
			name:  "clean object",
			input: `{"response": "yes we ship", "confidence": 0.9}`,
			want:  Reply{Text: "yes we ship", Confidence: 0.9},
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"response\": \"hello\", \"confidence\": 0.5}\n```",
			want:  Reply{Text: "hello", Confidence: 0.5},
		},
		{
			name:  "prose around the object",
			input: `Sure! Here is the reply: {"response": "thanks!", "confidence": 0.7} Hope that helps.`,
			want:  Reply{Text: "thanks!", Confidence: 0.7},
		},
		{
			name:  "confidence above one is clamped",
			input: `{"response": "ok", "confidence": 1.7}`,
			want:  Reply{Text: "ok", Confidence: 1},
		},
		{
			name:  "negative confidence is clamped",
			input: `{"response": "ok", "confidence": -0.2}`,
			want:  Reply{Text: "ok", Confidence: 0},
		},
		{
			name:    "empty response field",
			input:   `{"response": "", "confidence": 0.9}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			input:   "I cannot answer that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReplyJSON(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

type stubResponder struct {
	reply *Reply
	err   error
	calls int
}

func (s *stubResponder) GenerateReply(ctx context.Context, systemPrompt, message string) (*Reply, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func (s *stubResponder) GeneratePersona(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply.Text, nil
}

func newOllamaStub(t *testing.T, replyText string) *OllamaService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": replyText,
			"done":     true,
		})
	}))
	t.Cleanup(srv.Close)
	return NewOllamaService(srv.URL, "llama3")
}

func TestFallbackPrefersGemini(t *testing.T) {
	gemini := &stubResponder{reply: &Reply{Text: "from gemini", Confidence: 0.8}}
	ollama := newOllamaStub(t, `{"response": "from ollama", "confidence": 0.6}`)

	svc := NewFallbackService(gemini, ollama)
	reply, err := svc.GenerateReply(context.Background(), "persona", "hi")
	require.NoError(t, err)
	assert.Equal(t, "from gemini", reply.Text)
	assert.Equal(t, 1, gemini.calls)
}

func TestFallbackUsesOllamaOnQuotaExhaustion(t *testing.T) {
	gemini := &stubResponder{err: apperr.New(apperr.CodeRateLimit, "quota exhausted")}
	ollama := newOllamaStub(t, `{"response": "from ollama", "confidence": 0.6}`)

	svc := NewFallbackService(gemini, ollama)
	reply, err := svc.GenerateReply(context.Background(), "persona", "hi")
	require.NoError(t, err)
	assert.Equal(t, "from ollama", reply.Text)
}

func TestFallbackWithoutProviders(t *testing.T) {
	svc := NewFallbackService(nil, nil)
	_, err := svc.GenerateReply(context.Background(), "persona", "hi")
	assert.Equal(t, apperr.CodeMissingAPIKey, apperr.CodeOf(err))
}

func TestOllamaGenerateReply(t *testing.T) {
	ollama := newOllamaStub(t, `{"response": "9am to 6pm", "confidence": 0.75}`)
	reply, err := ollama.GenerateReply(context.Background(), "persona", "opening hours?")
	require.NoError(t, err)
	assert.Equal(t, "9am to 6pm", reply.Text)
	assert.InDelta(t, 0.75, reply.Confidence, 1e-9)
}

func TestOllamaUnparseableReplyIsTyped(t *testing.T) {
	ollama := newOllamaStub(t, "sorry, I can only answer in prose")
	_, err := ollama.GenerateReply(context.Background(), "persona", "hi")
	assert.Equal(t, apperr.CodeAPIError, apperr.CodeOf(err))
}
