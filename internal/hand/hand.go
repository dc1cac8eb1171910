// Package hand defines the structured mahjong hand model shared by the
// extraction, validation and scoring layers, and implements the local
// well-formedness checks that run before a hand is sent to the calculator.
package hand

// Meld is a group of tiles taken as a unit: a sequence (chi), an identical
// triplet (pon) or an identical quad (kan). Only kan may be closed; pon and
// chi are always open.
type Meld struct {
	Tiles  []string `json:"tiles"`
	IsOpen bool     `json:"is_open"`
}

// Hand is the full winning-hand description extracted from a question text.
// Tiles holds every tile in the hand, including tiles that also appear in
// Melds and the winning tile itself.
type Hand struct {
	Tiles           []string `json:"tiles"`
	Melds           []Meld   `json:"melds,omitempty"`
	WinTile         string   `json:"win_tile"`
	DoraIndicators  []string `json:"dora_indicators,omitempty"`
	IsRiichi        bool     `json:"is_riichi"`
	IsTsumo         bool     `json:"is_tsumo"`
	IsIppatsu       bool     `json:"is_ippatsu"`
	IsRinshan       bool     `json:"is_rinshan"`
	IsChankan       bool     `json:"is_chankan"`
	IsHaitei        bool     `json:"is_haitei"`
	IsHoutei        bool     `json:"is_houtei"`
	IsDaburuRiichi  bool     `json:"is_daburu_riichi"`
	IsNagashiMangan bool     `json:"is_nagashi_mangan"`
	IsTenhou        bool     `json:"is_tenhou"`
	IsChiihou       bool     `json:"is_chiihou"`
	IsRenhou        bool     `json:"is_renhou"`
	IsOpenRiichi    bool     `json:"is_open_riichi"`
	PlayerWind      string   `json:"player_wind,omitempty"`
	RoundWind       string   `json:"round_wind,omitempty"`
	Paarenchan      int      `json:"paarenchan"`
	KyoutakuNumber  int      `json:"kyoutaku_number"`
	TsumiNumber     int      `json:"tsumi_number"`
}

// HasKan reports whether any meld is a quad.
func (h *Hand) HasKan() bool {
	for _, m := range h.Melds {
		if len(m.Tiles) == 4 {
			return true
		}
	}
	return false
}

// KanCount returns the number of quad melds in the hand.
func (h *Hand) KanCount() int {
	n := 0
	for _, m := range h.Melds {
		if len(m.Tiles) == 4 {
			n++
		}
	}
	return n
}
