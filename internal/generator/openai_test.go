package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Temperature != 0.8 {
			t.Errorf("expected temperature 0.8, got %v", req.Temperature)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "toitoi") {
			t.Errorf("instruction missing from prompt: %+v", req.Messages)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"「東場0本場、あなたは東家。最終的な得点を計算してください。」"}}]}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("test-key", "gpt-4o-mini", server.URL)

	text, err := g.Generate(context.Background(), "produce a hard toitoi problem")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Output cleanup must have stripped the wrapping brackets.
	if text != "東場0本場、あなたは東家。最終的な得点を計算してください。" {
		t.Errorf("unexpected question text %q", text)
	}
}

func TestOpenAIGenerator_Generate_ReasoningModelTemperature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Temperature != 1.0 {
			t.Errorf("reasoning models require temperature 1, got %v", req.Temperature)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"問題文"}}]}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("test-key", "o1-mini", server.URL)
	if _, err := g.Generate(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenAIGenerator_Generate_NoAPIKey(t *testing.T) {
	g := NewOpenAIGenerator("", "gpt-4o-mini", "")
	if _, err := g.Generate(context.Background(), "x"); err == nil {
		t.Error("expected error when no API key")
	}
}

func TestOpenAIGenerator_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("test-key", "gpt-4o-mini", server.URL)
	if _, err := g.Generate(context.Background(), "x"); err == nil {
		t.Error("expected error for non-OK status")
	}
}

func TestOpenAIGenerator_Generate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"  "}}]}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("test-key", "gpt-4o-mini", server.URL)
	if _, err := g.Generate(context.Background(), "x"); err == nil {
		t.Error("expected error for empty question text")
	}
}

func TestVariationInstruction(t *testing.T) {
	a, b := VariationInstruction(1), VariationInstruction(2)
	if a == b {
		t.Error("expected distinct variation instructions per candidate")
	}
}
