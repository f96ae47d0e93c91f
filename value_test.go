package cellsheet

import (
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{35, "35"},
		{-2, "-2"},
		{0.2, "0.2"},
		{1.0 / 3, "0.3333333333333333"},
		{1500, "1500"},
		{123456789012, "123456789012"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
		{1e-7, "1e-07"},
	}
	for _, tt := range tests {
		if got := NumberValue(tt.in).String(); got != tt.want {
			t.Errorf("NumberValue(%v).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumericText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"3", 3, true},
		{"-3.5", -3.5, true},
		{"+.5", 0.5, true},
		{"2.", 2, true},
		{"1e3", 1000, true},
		{"1E-2", 0.01, true},
		{"", 0, false},
		{"3D", 0, false},
		{" 3", 0, false},
		{"3 ", 0, false},
		{"1e", 0, false},
		{"e3", 0, false},
		{".", 0, false},
		{"inf", 0, false},
		{"NaN", 0, false},
		{"0x10", 0, false},
		{"1_000", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumericText(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseNumericText(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValueRendering(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Value{}, ""},
		{TextValue("hello"), "hello"},
		{ErrorValue(ErrorCodeValue), "#VALUE!"},
		{ErrorValue(ErrorCodeDiv0), "#DIV/0!"},
		{ErrorValue(9), "#ERR9!"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestNewContent(t *testing.T) {
	tests := []struct {
		text      string
		kind      ContentKind
		storedAs  string
		valueText string
	}{
		{"", ContentEmpty, "", ""},
		{"plain", ContentText, "plain", "plain"},
		{"'quoted", ContentText, "'quoted", "quoted"},
		{"''twice", ContentText, "''twice", "'twice"},
		{"=", ContentText, "=", "="},
		{"='=x", ContentText, "'=x", "=x"},
		{" =1", ContentText, " =1", " =1"},
		{"= 2 * ( 3 )", ContentFormula, "=2*3", "6"},
	}
	for _, tt := range tests {
		content, err := NewContent(tt.text, NativeTokenizer{})
		if err != nil {
			t.Errorf("NewContent(%q) failed: %v", tt.text, err)
			continue
		}
		if content.Kind() != tt.kind {
			t.Errorf("NewContent(%q).Kind() = %s, want %s", tt.text, content.Kind(), tt.kind)
		}
		if content.Text() != tt.storedAs {
			t.Errorf("NewContent(%q).Text() = %q, want %q", tt.text, content.Text(), tt.storedAs)
		}
		if got := content.Value(emptyLookup{}).String(); got != tt.valueText {
			t.Errorf("NewContent(%q).Value() = %q, want %q", tt.text, got, tt.valueText)
		}
	}

	if _, err := NewContent("=1+", NativeTokenizer{}); !IsFormulaConstruction(err) {
		t.Errorf("NewContent(\"=1+\") = %v, want a formula construction error", err)
	}
}
