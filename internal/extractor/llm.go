package extractor

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

	"github.com/rkoshiba/janmon/internal/hand"
)

const extractionSystemPrompt = `あなたは麻雀の問題文から手牌情報を抽出するアシスタントです。
問題文を読み、以下のJSONスキーマに厳密に従って手牌情報を出力してください。
JSON以外のテキストは一切出力しないでください。

{
  "tiles": ["1m", "2m", ...],        // 手牌の全ての牌(副露・勝利牌を含む)
  "melds": [{"tiles": ["1p","2p","3p"], "is_open": true}],  // 副露(なければ空配列)
  "win_tile": "3m",                   // 勝利牌
  "dora_indicators": ["5s"],          // ドラ表示牌(なければ空配列)
  "is_riichi": false,
  "is_tsumo": false,
  "is_ippatsu": false,
  "is_rinshan": false,
  "is_chankan": false,
  "is_haitei": false,
  "is_houtei": false,
  "is_daburu_riichi": false,
  "is_nagashi_mangan": false,
  "is_tenhou": false,
  "is_chiihou": false,
  "is_renhou": false,
  "is_open_riichi": false,
  "player_wind": "east",              // east/south/west/north
  "round_wind": "east",
  "paarenchan": 0,
  "kyoutaku_number": 0,
  "tsumi_number": 0
}

牌は数字+スート(m=萬子, p=筒子, s=索子, z=字牌)で表記してください。赤5は0で表記します。
問題文から読み取れない項目はデフォルト値(false, 0, east)を使用してください。`

// LLMExtractor extracts hand data through an OpenAI-compatible chat API.
type LLMExtractor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewLLMExtractor creates an extractor backed by an OpenAI-compatible
// endpoint. An empty baseURL defaults to the OpenAI API.
func NewLLMExtractor(apiKey, model, baseURL string, timeout time.Duration) *LLMExtractor {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &LLMExtractor{
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

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
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

func (e *LLMExtractor) Name() string {
	return fmt.Sprintf("llm-extractor (%s)", e.model)
}

// Extract sends the question text to the model and decodes the structured
// hand from its JSON reply.
func (e *LLMExtractor) Extract(ctx context.Context, questionText string) (*hand.Hand, error) {
	if e.apiKey == "" {
		return nil, errors.New("extractor API key not configured")
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: questionText},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading extraction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API returned status %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("unmarshaling extraction response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("extraction API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, errors.New("extraction API returned no choices")
	}

	return decodeHand(cr.Choices[0].Message.Content)
}

func decodeHand(content string) (*hand.Hand, error) {
	content = StripJSONFences(content)
	if content == "" {
		return nil, nil
	}

	var h hand.Hand
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&h); err != nil {
		return nil, nil
	}
	if len(h.Tiles) == 0 && h.WinTile == "" {
		return nil, nil
	}
	return &h, nil
}

// IsAvailable checks that the endpoint is reachable.
func (e *LLMExtractor) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("extraction API unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("extraction API returned status %d", resp.StatusCode)
	}
	return nil
}
