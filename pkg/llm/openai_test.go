package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIBackend_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		assert.Equal(t, 220, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "sys", req.Messages[0].Content)
		assert.Equal(t, "prompt", req.Messages[1].Content)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "short summary"}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	b := NewOpenAIBackend(OpenAIParams{Name: "deepseek", APIKey: "test-key", Endpoint: server.URL + "/v1",
		Model: "deepseek-chat", MaxTokens: 220, Temperature: 0.5})
	assert.Equal(t, "deepseek", b.Name())

	text, err := b.Complete(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "short summary", text)
}

func TestOpenAIBackend_Errors(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
		}))
		defer server.Close()

		b := NewOpenAIBackend(OpenAIParams{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m"})
		assert.Equal(t, "openai", b.Name())
		_, err := b.Complete(context.Background(), "s", "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no response")
	})

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
		}))
		defer server.Close()

		b := NewOpenAIBackend(OpenAIParams{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m"})
		_, err := b.Complete(context.Background(), "s", "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat completion")
	})

	t.Run("summarizer falls back on api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		b := NewOpenAIBackend(OpenAIParams{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m"})
		res := NewSummarizer(Params{Backends: []Backend{b}}).Summarize(context.Background(), Request{Title: "Headline"})
		assert.Equal(t, "fallback", res.Backend)
		assert.Equal(t, "Headline", res.Summary)
	})
}

func TestGeminiBackend_Name(t *testing.T) {
	b, err := NewGeminiBackend(context.Background(), GeminiParams{APIKey: "test-key", Model: "gemini-1.5-flash"})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "gemini", b.Name())
}
