package cellsheet

import "testing"

func TestPositionFromLabel(t *testing.T) {
	tests := []struct {
		label    string
		expected Position
	}{
		{"A1", Position{Row: 0, Col: 0}},
		{"B3", Position{Row: 2, Col: 1}},
		{"Z1", Position{Row: 0, Col: 25}},
		{"AA1", Position{Row: 0, Col: 26}},
		{"ZZ10", Position{Row: 9, Col: 701}},
		{"AAA1", Position{Row: 0, Col: 702}},
		{"XFD16384", Position{Row: 16383, Col: 16383}},
		{"XFE16384", PositionNone},
		{"XFD16385", PositionNone},
		{"A0", PositionNone},
		{"A01", Position{Row: 0, Col: 0}},
		{"B0010", Position{Row: 9, Col: 1}},
		{"A00", PositionNone},
		{"a1", PositionNone},
		{"1A", PositionNone},
		{"A", PositionNone},
		{"1", PositionNone},
		{"", PositionNone},
		{"ABCD1", PositionNone},
		{"A123456", PositionNone},
		{"AB12CD", PositionNone},
		{"A-1", PositionNone},
		{"A 1", PositionNone},
		{"AAAA99999", PositionNone},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := PositionFromLabel(tt.label); got != tt.expected {
				t.Errorf("PositionFromLabel(%q) = %+v, expected %+v", tt.label, got, tt.expected)
			}
		})
	}
}

func TestPositionToLabel(t *testing.T) {
	tests := []struct {
		pos      Position
		expected string
	}{
		{Position{Row: 0, Col: 0}, "A1"},
		{Position{Row: 9, Col: 25}, "Z10"},
		{Position{Row: 0, Col: 26}, "AA1"},
		{Position{Row: 0, Col: 701}, "ZZ1"},
		{Position{Row: 0, Col: 702}, "AAA1"},
		{Position{Row: 16383, Col: 16383}, "XFD16384"},
		{Position{Row: -1, Col: 0}, ""},
		{Position{Row: 0, Col: MaxCols}, ""},
		{Position{Row: MaxRows, Col: 0}, ""},
		{PositionNone, ""},
	}

	for _, tt := range tests {
		if got := tt.pos.ToLabel(); got != tt.expected {
			t.Errorf("%+v.ToLabel() = %q, expected %q", tt.pos, got, tt.expected)
		}
	}
}

func TestPositionRoundTrip(t *testing.T) {
	for row := 0; row < MaxRows; row += 997 {
		for col := 0; col < MaxCols; col += 13 {
			p := Position{Row: row, Col: col}
			label := p.ToLabel()
			if back := PositionFromLabel(label); back != p {
				t.Fatalf("round trip of %+v through %q gave %+v", p, label, back)
			}
			if again := PositionFromLabel(label).ToLabel(); again != label {
				t.Fatalf("label %q re-encoded as %q", label, again)
			}
		}
	}
	edge := Position{Row: MaxRows - 1, Col: MaxCols - 1}
	if PositionFromLabel(edge.ToLabel()) != edge {
		t.Errorf("round trip failed at the grid corner")
	}
}

func TestPositionOrdering(t *testing.T) {
	if !pos("B1").Less(pos("A2")) {
		t.Errorf("B1 should sort before A2 (row-major)")
	}
	if !pos("A1").Less(pos("B1")) {
		t.Errorf("A1 should sort before B1")
	}
	if pos("C3").Less(pos("C3")) {
		t.Errorf("a position is not less than itself")
	}
	if PositionNone.IsValid() {
		t.Errorf("PositionNone must be invalid")
	}
}
