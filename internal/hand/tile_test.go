package hand

import "testing"

func TestParseTile(t *testing.T) {
	valid := []string{"1m", "9m", "0p", "5s", "1z", "7z"}
	for _, code := range valid {
		if _, _, err := ParseTile(code); err != nil {
			t.Errorf("ParseTile(%q): unexpected error %v", code, err)
		}
	}

	invalid := []string{"", "m", "10m", "8z", "0z", "5x", "５m"}
	for _, code := range invalid {
		if _, _, err := ParseTile(code); err == nil {
			t.Errorf("ParseTile(%q): expected error", code)
		}
	}
}

func TestClassifyMeld(t *testing.T) {
	cases := []struct {
		tiles []string
		want  MeldKind
		ok    bool
	}{
		{[]string{"1m", "2m", "3m"}, MeldChi, true},
		{[]string{"3m", "1m", "2m"}, MeldChi, true},
		{[]string{"5p", "5p", "5p"}, MeldPon, true},
		{[]string{"1z", "1z", "1z"}, MeldPon, true},
		{[]string{"1z", "1z", "1z", "1z"}, MeldKan, true},
		{[]string{"1z", "2z", "3z"}, 0, false},   // honors never sequence
		{[]string{"1m", "2p", "3s"}, 0, false},   // mixed suits
		{[]string{"1m", "3m", "5m"}, 0, false},   // gap
		{[]string{"1m", "1m", "2m", "3m"}, 0, false}, // quad of distinct tiles
		{[]string{"1m", "1m"}, 0, false},         // wrong size
	}

	for _, c := range cases {
		got, err := ClassifyMeld(c.tiles)
		if c.ok && err != nil {
			t.Errorf("ClassifyMeld(%v): unexpected error %v", c.tiles, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ClassifyMeld(%v): expected error", c.tiles)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ClassifyMeld(%v) = %v, want %v", c.tiles, got, c.want)
		}
	}
}

func TestClassifyMeld_RedFiveSequence(t *testing.T) {
	kind, err := ClassifyMeld([]string{"4p", "0p", "6p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != MeldChi {
		t.Errorf("expected chi with red five, got %v", kind)
	}
}
