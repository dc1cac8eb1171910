package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rkoshiba/janmon/internal/hand"
)

func testHand() *hand.Hand {
	return &hand.Hand{
		Tiles:    []string{"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m", "1s", "2s", "3s", "4s", "4s"},
		WinTile:  "4s",
		IsRiichi: true,
	}
}

func TestRemoteEngine_Score(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/score" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Hand.WinTile != "4s" {
			t.Errorf("expected win tile 4s, got %s", req.Hand.WinTile)
		}
		json.NewEncoder(w).Encode(scoreResponse{
			Han: 2, Fu: 30, Score: 2000,
			Yaku: []string{"Riichi", "Pinfu"},
		})
	}))
	defer server.Close()

	e := NewRemoteEngine(server.URL, 5*time.Second)

	res, err := e.Score(context.Background(), testHand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Han != 2 || res.Fu != 30 || res.Score != 2000 {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(res.Yaku) != 2 {
		t.Errorf("expected 2 yaku, got %v", res.Yaku)
	}
}

func TestRemoteEngine_Score_CalculatorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(scoreResponse{Error: "no valid hand found"})
	}))
	defer server.Close()

	e := NewRemoteEngine(server.URL, 5*time.Second)

	_, err := e.Score(context.Background(), testHand())
	if err == nil {
		t.Fatal("expected error from calculator error response")
	}
	if !strings.Contains(err.Error(), "no valid hand found") {
		t.Errorf("expected calculator reason in error, got %v", err)
	}
}

func TestRemoteEngine_Score_ZeroYakuFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Legal decomposition but no yaku: must fail, not score as zero.
		json.NewEncoder(w).Encode(scoreResponse{Han: 0, Fu: 30, Score: 0, Yaku: nil})
	}))
	defer server.Close()

	e := NewRemoteEngine(server.URL, 5*time.Second)

	_, err := e.Score(context.Background(), testHand())
	if err == nil {
		t.Fatal("expected error for zero-yaku hand")
	}
}

func TestRemoteEngine_Score_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := NewRemoteEngine(server.URL, 5*time.Second)

	if _, err := e.Score(context.Background(), testHand()); err == nil {
		t.Fatal("expected error for non-OK status")
	}
}

func TestRemoteEngine_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := NewRemoteEngine(server.URL, 5*time.Second)
	if err := e.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
