package generator

import (
	"context"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rkoshiba/janmon/internal/postprocess"
)

// GeminiGenerator generates question texts through the Gemini API.
type GeminiGenerator struct {
	apiKey string
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(apiKey, model string) *GeminiGenerator {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiGenerator{apiKey: apiKey, model: model}
}

func (g *GeminiGenerator) Name() string { return "gemini" }

// Generate produces one question text for the instruction. A fresh client is
// opened per call; each candidate generation is independent.
func (g *GeminiGenerator) Generate(ctx context.Context, instruction string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.8)

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(instruction)))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text := postprocess.Clean(collectText(resp))
	if text == "" {
		return "", fmt.Errorf("generator returned empty question text")
	}
	return text, nil
}

// IsAvailable checks that a client can be constructed with the configured key.
func (g *GeminiGenerator) IsAvailable(ctx context.Context) error {
	if g.apiKey == "" {
		return fmt.Errorf("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return fmt.Errorf("gemini not available: %v", err)
	}
	return client.Close()
}

func collectText(resp *genai.GenerateContentResponse) string {
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out += string(t)
			}
		}
	}
	return out
}
