// Package scoring defines the score-calculator contract and its remote
// client. The decomposition of a hand into melds and the identification of
// yaku happen inside the external calculator service; this package only
// carries its results and enforces the domain rule that a scoreless hand
// is invalid.
package scoring

import (
	"context"

	"github.com/rkoshiba/janmon/internal/hand"
)

// Result is the calculator's verdict for a valid winning hand.
type Result struct {
	Han   int      `json:"han"`
	Fu    int      `json:"fu"`
	Score int      `json:"score"`
	Yaku  []string `json:"yaku"`
}

// Engine computes the score of a validated hand. Implementations return an
// error when no legal decomposition into melds and a pair exists, or when a
// legal decomposition carries zero yaku.
type Engine interface {
	Name() string
	Score(ctx context.Context, h *hand.Hand) (*Result, error)
	IsAvailable(ctx context.Context) error
}
