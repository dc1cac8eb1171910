package hand

import (
	"errors"
	"testing"
)

func pinfuTiles() []string {
	return []string{"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m", "1s", "2s", "3s", "4s", "4s"}
}

func TestValidate_Pinfu(t *testing.T) {
	h := &Hand{Tiles: pinfuTiles(), WinTile: "4s"}

	if err := Validate(h); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_WinTileNotInHand(t *testing.T) {
	h := &Hand{Tiles: pinfuTiles(), WinTile: "9s"}

	err := Validate(h)
	if err == nil {
		t.Fatal("expected error for win tile not in hand")
	}
	if !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand, got %v", err)
	}
}

func TestValidate_EmptyTiles(t *testing.T) {
	h := &Hand{WinTile: "1m"}

	if err := Validate(h); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand, got %v", err)
	}
}

func TestValidate_BadTileCode(t *testing.T) {
	tiles := pinfuTiles()
	tiles[0] = "xx"
	h := &Hand{Tiles: tiles, WinTile: "4s"}

	if err := Validate(h); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand, got %v", err)
	}
}

func TestValidate_TooFewTiles(t *testing.T) {
	h := &Hand{
		Tiles:   []string{"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m", "1s", "2s", "3s", "4s"},
		WinTile: "4s",
	}

	if err := Validate(h); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand for 13 tiles, got %v", err)
	}
}

func TestValidate_KanRaisesMinimumCount(t *testing.T) {
	// 14 tiles but one ankan present: the quad consumes an extra tile, so
	// a legal hand needs 15.
	h := &Hand{
		Tiles:   []string{"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m", "1z", "1z", "1z", "1z", "1s"},
		Melds:   []Meld{{Tiles: []string{"1z", "1z", "1z", "1z"}, IsOpen: false}},
		WinTile: "1s",
	}

	if err := Validate(h); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand for 14 tiles with a kan, got %v", err)
	}

	h.Tiles = append(h.Tiles, "1s")
	if err := Validate(h); err != nil {
		t.Errorf("unexpected error for 15 tiles with a kan: %v", err)
	}
}

func TestValidate_MeldContainment(t *testing.T) {
	h := &Hand{
		Tiles:   []string{"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m", "5z", "5z", "1s", "2s", "3s"},
		Melds:   []Meld{{Tiles: []string{"5z", "5z", "5z"}, IsOpen: true}},
		WinTile: "3s",
	}

	err := Validate(h)
	if err == nil {
		t.Fatal("expected error: meld needs three 5z but hand holds two")
	}
	if !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand, got %v", err)
	}
}

func TestValidate_HonorSequenceMeldRejected(t *testing.T) {
	h := &Hand{
		Tiles:   []string{"1z", "2z", "3z", "4m", "5m", "6m", "7m", "8m", "9m", "1s", "2s", "3s", "4s", "4s"},
		Melds:   []Meld{{Tiles: []string{"1z", "2z", "3z"}, IsOpen: true}},
		WinTile: "4s",
	}

	if err := Validate(h); !errors.Is(err, ErrInvalidHand) {
		t.Errorf("expected ErrInvalidHand for honor sequence meld, got %v", err)
	}
}

func TestFixTrailingWinTile_DropsDuplicate(t *testing.T) {
	tiles := append(pinfuTiles(), "4s")
	h := &Hand{Tiles: tiles, WinTile: "4s"}

	FixTrailingWinTile(h)

	if len(h.Tiles) != 14 {
		t.Errorf("expected 14 tiles after correction, got %d", len(h.Tiles))
	}
}

func TestFixTrailingWinTile_Idempotent(t *testing.T) {
	h := &Hand{Tiles: append(pinfuTiles(), "4s"), WinTile: "4s"}

	FixTrailingWinTile(h)
	FixTrailingWinTile(h)

	if len(h.Tiles) != 14 {
		t.Errorf("expected second application to be a no-op, got %d tiles", len(h.Tiles))
	}
}

func TestFixTrailingWinTile_KanHandUntouched(t *testing.T) {
	h := &Hand{
		Tiles:   []string{"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m", "1z", "1z", "1z", "1z", "1s", "1s"},
		Melds:   []Meld{{Tiles: []string{"1z", "1z", "1z", "1z"}, IsOpen: false}},
		WinTile: "1s",
	}

	FixTrailingWinTile(h)

	if len(h.Tiles) != 15 {
		t.Errorf("kan hand must keep its 15 tiles, got %d", len(h.Tiles))
	}
}

func TestFixTrailingWinTile_LastTileDiffers(t *testing.T) {
	tiles := append(pinfuTiles(), "9p")
	h := &Hand{Tiles: tiles, WinTile: "4s"}

	FixTrailingWinTile(h)

	if len(h.Tiles) != 15 {
		t.Errorf("correction must only drop a trailing win-tile duplicate, got %d tiles", len(h.Tiles))
	}
}
