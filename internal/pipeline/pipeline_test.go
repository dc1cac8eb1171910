package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rkoshiba/janmon/internal/hand"
	"github.com/rkoshiba/janmon/internal/scoring"
)

type mockExtractor struct {
	extract func(ctx context.Context, text string) (*hand.Hand, error)
}

func (m *mockExtractor) Extract(ctx context.Context, text string) (*hand.Hand, error) {
	return m.extract(ctx, text)
}

type mockEngine struct {
	score func(ctx context.Context, h *hand.Hand) (*scoring.Result, error)
}

func (m *mockEngine) Name() string { return "mock" }

func (m *mockEngine) Score(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
	return m.score(ctx, h)
}

func (m *mockEngine) IsAvailable(ctx context.Context) error { return nil }

type mockJudge struct {
	judge func(ctx context.Context, instruction string, result *scoring.Result) (string, error)
}

func (m *mockJudge) Judge(ctx context.Context, instruction string, result *scoring.Result) (string, error) {
	return m.judge(ctx, instruction, result)
}

func validHand() *hand.Hand {
	return &hand.Hand{
		Tiles: []string{
			"1m", "2m", "3m", "4p", "5p", "6p",
			"7s", "8s", "9s", "1z", "1z", "1z", "4s", "4s",
		},
		WinTile:    "4s",
		IsTsumo:    true,
		PlayerWind: "east",
		RoundWind:  "east",
	}
}

func pinfuResult() *scoring.Result {
	return &scoring.Result{Han: 1, Fu: 30, Score: 1000, Yaku: []string{"Menzen Tsumo"}}
}

func TestPipelineVerifiedCompliant(t *testing.T) {
	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return validHand(), nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			return pinfuResult(), nil
		}},
		&mockJudge{judge: func(ctx context.Context, instruction string, result *scoring.Result) (string, error) {
			return "Yes\n理由: 条件を満たしている", nil
		}},
		nil,
	)

	res := p.Run(context.Background(), "ツモ和了の問題を作成してください", "問題文")
	if res.Status != StatusVerified {
		t.Fatalf("Status = %q, want %q (reason: %s)", res.Status, StatusVerified, res.Reason)
	}
	if !res.ComplianceJudged {
		t.Error("ComplianceJudged = false, want true")
	}
	if !res.Compliant() {
		t.Errorf("Compliant() = false, verdict = %q parsed = %v", res.ComplianceVerdict, res.ComplianceParsed)
	}
	if res.ComplianceReason != "条件を満たしている" {
		t.Errorf("ComplianceReason = %q", res.ComplianceReason)
	}
	if res.Score.Score != 1000 {
		t.Errorf("Score.Score = %d, want 1000", res.Score.Score)
	}
}

func TestPipelineExtractionFailed(t *testing.T) {
	tests := []struct {
		name    string
		extract func(ctx context.Context, text string) (*hand.Hand, error)
	}{
		{"error", func(ctx context.Context, text string) (*hand.Hand, error) {
			return nil, errors.New("api unreachable")
		}},
		{"nil hand", func(ctx context.Context, text string) (*hand.Hand, error) {
			return nil, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&mockExtractor{extract: tt.extract}, &mockEngine{}, nil, nil)
			res := p.Run(context.Background(), "", "問題文")
			if res.Status != StatusExtractionFailed {
				t.Errorf("Status = %q, want %q", res.Status, StatusExtractionFailed)
			}
			if res.ReachedCalculation() {
				t.Error("ReachedCalculation() = true for extraction failure")
			}
		})
	}
}

func TestPipelineValidationFailureIsCalculationFailed(t *testing.T) {
	h := validHand()
	h.WinTile = "9p"

	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return h, nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			t.Fatal("engine must not be called for an invalid hand")
			return nil, nil
		}},
		nil,
		nil,
	)

	res := p.Run(context.Background(), "", "問題文")
	if res.Status != StatusCalculationFailed {
		t.Errorf("Status = %q, want %q", res.Status, StatusCalculationFailed)
	}
	if res.Hand == nil {
		t.Error("Hand not carried on calculation failure")
	}
	if !res.ReachedCalculation() {
		t.Error("ReachedCalculation() = false for calculation failure")
	}
}

func TestPipelineScoringFailure(t *testing.T) {
	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return validHand(), nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			return nil, errors.New("no valid yaku found")
		}},
		nil,
		nil,
	)

	res := p.Run(context.Background(), "", "問題文")
	if res.Status != StatusCalculationFailed {
		t.Errorf("Status = %q, want %q", res.Status, StatusCalculationFailed)
	}
}

func TestPipelineTrailingWinTileCorrected(t *testing.T) {
	h := validHand()
	h.Tiles = append(h.Tiles, "4s")

	var scored *hand.Hand
	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return h, nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			scored = h
			return pinfuResult(), nil
		}},
		nil,
		nil,
	)

	res := p.Run(context.Background(), "", "問題文")
	if res.Status != StatusVerified {
		t.Fatalf("Status = %q, want %q (reason: %s)", res.Status, StatusVerified, res.Reason)
	}
	if len(scored.Tiles) != 14 {
		t.Errorf("len(Tiles) after correction = %d, want 14", len(scored.Tiles))
	}
}

func TestPipelineJudgeErrorKeepsVerified(t *testing.T) {
	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return validHand(), nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			return pinfuResult(), nil
		}},
		&mockJudge{judge: func(ctx context.Context, instruction string, result *scoring.Result) (string, error) {
			return "", errors.New("rate limited")
		}},
		nil,
	)

	res := p.Run(context.Background(), "指示", "問題文")
	if res.Status != StatusVerified {
		t.Errorf("Status = %q, want %q", res.Status, StatusVerified)
	}
	if res.ComplianceJudged {
		t.Error("ComplianceJudged = true after judge error")
	}
	if res.Compliant() {
		t.Error("Compliant() = true after judge error")
	}
}

func TestPipelineEmptyInstructionSkipsJudge(t *testing.T) {
	judgeCalled := false
	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return validHand(), nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			return pinfuResult(), nil
		}},
		&mockJudge{judge: func(ctx context.Context, instruction string, result *scoring.Result) (string, error) {
			judgeCalled = true
			return "Yes", nil
		}},
		nil,
	)

	res := p.Run(context.Background(), "", "問題文")
	if judgeCalled {
		t.Error("judge called for empty instruction")
	}
	if res.ComplianceJudged {
		t.Error("ComplianceJudged = true without a judge call")
	}
}

func TestPipelineUnparsedVerdictKept(t *testing.T) {
	p := New(
		&mockExtractor{extract: func(ctx context.Context, text string) (*hand.Hand, error) {
			return validHand(), nil
		}},
		&mockEngine{score: func(ctx context.Context, h *hand.Hand) (*scoring.Result, error) {
			return pinfuResult(), nil
		}},
		&mockJudge{judge: func(ctx context.Context, instruction string, result *scoring.Result) (string, error) {
			return "判定不能でした。", nil
		}},
		nil,
	)

	res := p.Run(context.Background(), "指示", "問題文")
	if !res.ComplianceJudged {
		t.Error("ComplianceJudged = false, want true")
	}
	if res.ComplianceParsed {
		t.Error("ComplianceParsed = true for unparseable verdict")
	}
	if res.ComplianceVerdict != "判定不能でした。" {
		t.Errorf("ComplianceVerdict = %q, want raw first line", res.ComplianceVerdict)
	}
	if res.Compliant() {
		t.Error("Compliant() = true for unparsed verdict")
	}
}
