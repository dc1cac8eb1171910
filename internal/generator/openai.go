package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rkoshiba/janmon/internal/postprocess"
)

// reasoningModelPrefixes lists model families that reject sampling
// temperatures other than 1.
var reasoningModelPrefixes = []string{"o1-preview", "o1-mini", "gpt-5"}

// OpenAIGenerator generates question texts through an OpenAI-compatible
// chat-completions endpoint.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerator creates a generator for the given model. baseURL may be
// empty for the official endpoint; any OpenAI-compatible server works.
func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces one question text for the instruction. The raw model
// output is cleaned of thinking blocks, echo prefixes and wrapping before it
// is returned; an empty cleaned result is a generation failure.
func (g *OpenAIGenerator) Generate(ctx context.Context, instruction string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("openai api key is not set")
	}

	temperature := 0.8
	for _, prefix := range reasoningModelPrefixes {
		if strings.HasPrefix(g.model, prefix) {
			temperature = 1.0
			break
		}
	}

	body := chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(instruction)}},
		Temperature: temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("generator error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("generator returned no choices")
	}

	text := postprocess.Clean(cr.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("generator returned empty question text")
	}
	return text, nil
}

// IsAvailable probes the models endpoint.
func (g *OpenAIGenerator) IsAvailable(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/models", nil)
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai not available: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	return nil
}
