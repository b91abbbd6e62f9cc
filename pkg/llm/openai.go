package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend talks to OpenAI or any compatible endpoint (DeepSeek and similar)
type OpenAIBackend struct {
	name        string
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// OpenAIParams configures an OpenAIBackend
type OpenAIParams struct {
	Name        string // used in logs, "openai" if empty
	APIKey      string
	Endpoint    string // base URL, keeps the library default if empty
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewOpenAIBackend makes a backend for an OpenAI-compatible chat completion API
func NewOpenAIBackend(p OpenAIParams) *OpenAIBackend {
	clientConfig := openai.DefaultConfig(p.APIKey)
	if p.Endpoint != "" {
		clientConfig.BaseURL = p.Endpoint
	}
	if p.Name == "" {
		p.Name = "openai"
	}
	return &OpenAIBackend{
		name:        p.Name,
		client:      openai.NewClientWithConfig(clientConfig),
		model:       p.Model,
		maxTokens:   p.MaxTokens,
		temperature: float32(p.Temperature),
	}
}

// Name returns the backend name
func (o *OpenAIBackend) Name() string { return o.name }

// Complete sends one system+user exchange and returns the first choice
func (o *OpenAIBackend) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
