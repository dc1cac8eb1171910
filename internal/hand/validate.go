package hand

import (
	"errors"
	"fmt"
)

// ErrInvalidHand is wrapped by every validation failure so callers can
// distinguish a malformed hand from a transport or calculation error.
var ErrInvalidHand = errors.New("invalid hand")

const baseTileCount = 14

// FixTrailingWinTile corrects a known extractor artifact: some extractors
// append the winning tile to the tile list a second time even though it is
// already present, inflating the count beyond 14 when no kan justifies it.
// When the hand has no kan, more than 14 tiles and its last tile equals the
// winning tile, the trailing duplicate is dropped. Applying the correction
// to an already-corrected hand is a no-op.
func FixTrailingWinTile(h *Hand) {
	if h.HasKan() {
		return
	}
	n := len(h.Tiles)
	if n <= baseTileCount {
		return
	}
	if h.Tiles[n-1] == h.WinTile {
		h.Tiles = h.Tiles[:n-1]
	}
}

// Validate checks the hand's local well-formedness: tile-code format, meld
// shape and containment, minimum tile count and winning-tile membership.
// It does not decide whether the hand actually wins; that is the score
// calculator's job.
func Validate(h *Hand) error {
	if len(h.Tiles) == 0 {
		return fmt.Errorf("%w: tiles are required", ErrInvalidHand)
	}
	for _, t := range h.Tiles {
		if _, _, err := ParseTile(t); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidHand, err)
		}
	}
	for _, t := range h.DoraIndicators {
		if _, _, err := ParseTile(t); err != nil {
			return fmt.Errorf("%w: dora indicator: %v", ErrInvalidHand, err)
		}
	}

	if err := validateMelds(h); err != nil {
		return err
	}

	min := baseTileCount + h.KanCount()
	if len(h.Tiles) < min {
		return fmt.Errorf("%w: hand has %d tiles, want at least %d", ErrInvalidHand, len(h.Tiles), min)
	}

	if !contains(h.Tiles, h.WinTile) {
		return fmt.Errorf("%w: win tile %s is not in the hand", ErrInvalidHand, h.WinTile)
	}
	return nil
}

// validateMelds checks each meld's shape and that its tiles, counted as a
// multiset, are covered by the hand's tiles.
func validateMelds(h *Hand) error {
	if len(h.Melds) == 0 {
		return nil
	}

	counts := make(map[string]int, len(h.Tiles))
	for _, t := range h.Tiles {
		counts[t]++
	}

	for _, m := range h.Melds {
		if _, err := ClassifyMeld(m.Tiles); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidHand, err)
		}
		meldCounts := make(map[string]int, len(m.Tiles))
		for _, t := range m.Tiles {
			meldCounts[t]++
		}
		for tile, n := range meldCounts {
			if counts[tile] < n {
				return fmt.Errorf("%w: meld tile %s appears %d times in meld but %d times in hand",
					ErrInvalidHand, tile, n, counts[tile])
			}
		}
	}
	return nil
}

func contains(tiles []string, tile string) bool {
	for _, t := range tiles {
		if t == tile {
			return true
		}
	}
	return false
}
