package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rkoshiba/janmon/internal/hand"
)

// RemoteEngine scores hands against a calculator HTTP service that wraps a
// mahjong scoring library.
type RemoteEngine struct {
	baseURL string
	client  *http.Client
}

type scoreRequest struct {
	Hand *hand.Hand `json:"hand"`
}

type scoreResponse struct {
	Han   int      `json:"han"`
	Fu    int      `json:"fu"`
	Score int      `json:"score"`
	Yaku  []string `json:"yaku"`
	Error string   `json:"error,omitempty"`
}

// NewRemoteEngine creates a client for the calculator service at baseURL.
func NewRemoteEngine(baseURL string, timeout time.Duration) *RemoteEngine {
	if baseURL == "" {
		baseURL = "http://localhost:8420"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *RemoteEngine) Name() string { return "remote" }

// Score posts the hand to the calculator and returns its result. A response
// carrying an error message, or an empty yaku list, is a calculation
// failure: a hand that decomposes but scores nothing is invalid for this
// domain and must not silently score as zero.
func (e *RemoteEngine) Score(ctx context.Context, h *hand.Hand) (*Result, error) {
	payload, err := json.Marshal(scoreRequest{Hand: h})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/score", e.baseURL), bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calculator returned status %d", resp.StatusCode)
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode score response: %w", err)
	}

	if sr.Error != "" {
		return nil, fmt.Errorf("calculation failed: %s", sr.Error)
	}
	if len(sr.Yaku) == 0 {
		return nil, fmt.Errorf("calculation failed: no valid yaku found")
	}

	return &Result{Han: sr.Han, Fu: sr.Fu, Score: sr.Score, Yaku: sr.Yaku}, nil
}

// IsAvailable probes the calculator's health endpoint.
func (e *RemoteEngine) IsAvailable(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/health", e.baseURL), nil)
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("calculator not available: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calculator returned status %d", resp.StatusCode)
	}
	return nil
}
