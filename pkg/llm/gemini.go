package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend talks to Google Gemini
type GeminiBackend struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

// GeminiParams configures a GeminiBackend
type GeminiParams struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Options     []option.ClientOption // extra client options, endpoint overrides in tests
}

// NewGeminiBackend creates the client. Close releases it.
func NewGeminiBackend(ctx context.Context, p GeminiParams) (*GeminiBackend, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(p.APIKey)}, p.Options...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiBackend{
		client:      client,
		model:       p.Model,
		maxTokens:   int32(p.MaxTokens), //nolint:gosec // small configured value
		temperature: float32(p.Temperature),
	}, nil
}

// Name returns the backend name
func (g *GeminiBackend) Name() string { return "gemini" }

// Complete generates text for prompt with system as the instruction
func (g *GeminiBackend) Complete(ctx context.Context, system, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.SetTemperature(g.temperature)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		break // first candidate only
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", errors.New("no text in gemini response")
	}
	return sb.String(), nil
}

// Close releases the client
func (g *GeminiBackend) Close() error {
	return g.client.Close()
}
