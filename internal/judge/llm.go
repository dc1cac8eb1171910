package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rkoshiba/janmon/internal/scoring"
)

// LLMJudge evaluates instruction compliance through an OpenAI-compatible
// chat API at temperature zero.
type LLMJudge struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewLLMJudge creates a judge backed by an OpenAI-compatible endpoint. An
// empty baseURL defaults to the OpenAI API.
func NewLLMJudge(apiKey, model, baseURL string, timeout time.Duration) *LLMJudge {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &LLMJudge{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

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

func (j *LLMJudge) Name() string {
	return fmt.Sprintf("llm-judge (%s)", j.model)
}

// Judge returns the raw compliance reply for an instruction and its scoring
// result.
func (j *LLMJudge) Judge(ctx context.Context, instruction string, result *scoring.Result) (string, error) {
	if j.apiKey == "" {
		return "", errors.New("judge API key not configured")
	}

	reqBody := chatRequest{
		Model: j.model,
		Messages: []chatMessage{
			{Role: "user", Content: BuildPrompt(instruction, result)},
		},
		Temperature: 0,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling judge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling judge API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading judge response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("judge API returned status %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("unmarshaling judge response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("judge API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("judge API returned no choices")
	}

	return cr.Choices[0].Message.Content, nil
}

// IsAvailable checks that the endpoint is reachable.
func (j *LLMJudge) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if j.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+j.apiKey)
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("judge API unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("judge API returned status %d", resp.StatusCode)
	}
	return nil
}
