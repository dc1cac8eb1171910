package hand

import "fmt"

// MeldKind classifies a meld by its tile pattern.
type MeldKind int

const (
	MeldChi MeldKind = iota // three sequential tiles of one numbered suit
	MeldPon                 // three identical tiles
	MeldKan                 // four identical tiles
)

func (k MeldKind) String() string {
	switch k {
	case MeldChi:
		return "chi"
	case MeldPon:
		return "pon"
	case MeldKan:
		return "kan"
	}
	return "unknown"
}

// ParseTile validates a tile code such as "5m" or "3z" and returns its rank
// and suit. Numbered suits are m (man), p (pin) and s (sou) with ranks 1-9;
// rank 0 denotes the red five. Honors use suit z with ranks 1-7.
func ParseTile(code string) (rank int, suit byte, err error) {
	if len(code) != 2 {
		return 0, 0, fmt.Errorf("invalid tile %q: want <rank><suit>", code)
	}
	r, s := code[0], code[1]
	if r < '0' || r > '9' {
		return 0, 0, fmt.Errorf("invalid tile %q: bad rank %q", code, string(r))
	}
	rank = int(r - '0')
	switch s {
	case 'm', 'p', 's':
		return rank, s, nil
	case 'z':
		if rank < 1 || rank > 7 {
			return 0, 0, fmt.Errorf("invalid tile %q: honor rank must be 1-7", code)
		}
		return rank, s, nil
	}
	return 0, 0, fmt.Errorf("invalid tile %q: bad suit %q", code, string(s))
}

// IsHonor reports whether the tile code names a wind or dragon tile.
func IsHonor(code string) bool {
	return len(code) == 2 && code[1] == 'z'
}

// ClassifyMeld determines the meld kind from its tiles. Four identical tiles
// form a kan, three identical a pon and three sequential same-suit tiles a
// chi. Honor tiles can never form a sequence.
func ClassifyMeld(tiles []string) (MeldKind, error) {
	for _, t := range tiles {
		if _, _, err := ParseTile(t); err != nil {
			return 0, err
		}
	}
	switch len(tiles) {
	case 4:
		if tiles[0] == tiles[1] && tiles[1] == tiles[2] && tiles[2] == tiles[3] {
			return MeldKan, nil
		}
		return 0, fmt.Errorf("invalid meld %v: a quad must be four identical tiles", tiles)
	case 3:
		if tiles[0] == tiles[1] && tiles[1] == tiles[2] {
			return MeldPon, nil
		}
		if isSequence(tiles) {
			return MeldChi, nil
		}
		return 0, fmt.Errorf("invalid meld %v: not a triplet or a sequence", tiles)
	}
	return 0, fmt.Errorf("invalid meld size %d: want 3 or 4 tiles", len(tiles))
}

// isSequence reports whether three already-validated tiles form a run of
// consecutive ranks in one numbered suit, in any order.
func isSequence(tiles []string) bool {
	var ranks [3]int
	suit := tiles[0][1]
	if suit == 'z' {
		return false
	}
	for i, t := range tiles {
		r, s, _ := ParseTile(t)
		if s != suit {
			return false
		}
		if r == 0 {
			r = 5 // red five sorts as a regular five
		}
		ranks[i] = r
	}
	lo, mid, hi := ranks[0], ranks[1], ranks[2]
	if lo > mid {
		lo, mid = mid, lo
	}
	if mid > hi {
		mid, hi = hi, mid
	}
	if lo > mid {
		lo, mid = mid, lo
	}
	return mid == lo+1 && hi == mid+1
}
