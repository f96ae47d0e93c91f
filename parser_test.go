package cellsheet

import (
	"reflect"
	"testing"
)

// emptyLookup resolves nothing, so every reference reads as zero
type emptyLookup struct{}

func (emptyLookup) LookupCell(pos Position) (*Cell, bool) {
	return nil, false
}

func TestLexerTokens(t *testing.T) {
	tokens, err := NewLexer("-1 + A2*(3.5e2 - B10)").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		typ   TokenType
		value string
	}{
		{TokenUnaryPrefixOp, "-"},
		{TokenNumber, "1"},
		{TokenBinaryOp, "+"},
		{TokenCell, "A2"},
		{TokenBinaryOp, "*"},
		{TokenLeftParen, "("},
		{TokenNumber, "3.5e2"},
		{TokenBinaryOp, "-"},
		{TokenCell, "B10"},
		{TokenRightParen, ")"},
		{TokenEOF, ""},
	}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, expected %d: %+v", len(tokens), len(expected), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Type != exp.typ || tokens[i].Value != exp.value {
			t.Errorf("token %d = %s %q, expected %s %q", i, tokens[i].Type, tokens[i].Value, exp.typ, exp.value)
		}
	}
}

func TestFormulaRender(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  1  ", "1"},
		{"  -1  ", "-1"},
		{"2 + 2", "2+2"},
		{"(2*3)+4", "2*3+4"},
		{"2*(3+4)", "2*(3+4)"},
		{"( ( (  1) ) )", "1"},
		{"(1-2)-3", "1-2-3"},
		{"1-(2-3)", "1-(2-3)"},
		{"1-(2+3)", "1-(2+3)"},
		{"1+(2-3)", "1+2-3"},
		{"(1+2)*(3-4)", "(1+2)*(3-4)"},
		{"8/(4/2)", "8/(4/2)"},
		{"8/(4*2)", "8/(4*2)"},
		{"(8/4)/2", "8/4/2"},
		{"2*(3/4)", "2*3/4"},
		{"-(1+2)", "-(1+2)"},
		{"-(2*3)", "-(2*3)"},
		{"-2*3", "-2*3"},
		{"2/-(3*4)", "2/-(3*4)"},
		{"2/-(3/4)", "2/-(3/4)"},
		{"8/+(2*2)", "8/+(2*2)"},
		{"2*-(3/4)", "2*-(3/4)"},
		{"-(-(1*2))", "--(1*2)"},
		{"A01+B002", "A1+B2"},
		{"1 - -1", "1--1"},
		{"+3", "+3"},
		{"1.5e3", "1500"},
		{".5", "0.5"},
		{"0.25", "0.25"},
		{"A1 + A2 + A1 + A3 + A1 + A2 + A1", "A1+A2+A1+A3+A1+A2+A1"},
		{"XFD16384 * ZZ9", "XFD16384*ZZ9"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			formula, err := ParseFormula(tt.input)
			if err != nil {
				t.Fatalf("ParseFormula(%q) failed: %v", tt.input, err)
			}
			if got := formula.Expression(); got != tt.expected {
				t.Errorf("ParseFormula(%q).Expression() = %q, expected %q", tt.input, got, tt.expected)
			}
			// canonical text parses back to itself
			again, err := ParseFormula(formula.Expression())
			if err != nil {
				t.Fatalf("re-parsing %q failed: %v", formula.Expression(), err)
			}
			if again.Expression() != formula.Expression() {
				t.Errorf("re-render of %q gave %q", formula.Expression(), again.Expression())
			}
			// and keeps its meaning
			if want, got := formula.Evaluate(emptyLookup{}), again.Evaluate(emptyLookup{}); got != want {
				t.Errorf("%q evaluates to %v, but its render %q evaluates to %v", tt.input, want, formula.Expression(), got)
			}
		})
	}
}

func TestFormulaParseFailures(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"A2B",
		"3X",
		"1e5B",
		"A0++",
		"((1)",
		"(1))",
		")",
		"2+4-",
		"*1",
		"1 2",
		"X0",
		"a1",
		"ABCD1",
		"A123456",
		"XFD16385",
		"XFE16384",
		"R2D2",
		"A1:B2",
		"SUM(A1)",
		"1^2",
		"\"text\"",
		"1e400",
		"1.",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			formula, err := ParseFormula(input)
			if err == nil {
				t.Fatalf("ParseFormula(%q) should fail, got %q", input, formula.Expression())
			}
			if !IsFormulaConstruction(err) {
				t.Errorf("ParseFormula(%q) failed with the wrong category: %v", input, err)
			}
		})
	}
}

func TestFormulaReferencedCells(t *testing.T) {
	tests := []struct {
		input    string
		expected []Position
	}{
		{"1+2", []Position{}},
		{"A1 + A2 + A1 + A3 + A1 + A2 + A1", []Position{pos("A1"), pos("A2"), pos("A3")}},
		{"B2*(A1+B2)-C3", []Position{pos("B2"), pos("A1"), pos("C3")}},
		{"-Z9", []Position{pos("Z9")}},
	}

	for _, tt := range tests {
		formula, err := ParseFormula(tt.input)
		if err != nil {
			t.Fatalf("ParseFormula(%q) failed: %v", tt.input, err)
		}
		if got := formula.ReferencedCells(); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("ReferencedCells(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestFormulaEvaluate(t *testing.T) {
	tests := []struct {
		input    string
		expected Value
	}{
		{"1+2*3", NumberValue(7)},
		{"(1+2)*3", NumberValue(9)},
		{"-1--1", NumberValue(0)},
		{"7/2", NumberValue(3.5)},
		{"8/4/2", NumberValue(1)},
		{"A1+5", NumberValue(5)},
		{"1/0", ErrorValue(ErrorCodeDiv0)},
		{"0/0", ErrorValue(ErrorCodeDiv0)},
		{"1/(A1-A1)", ErrorValue(ErrorCodeDiv0)},
		{"1e200/1e-200", ErrorValue(ErrorCodeDiv0)},
		{"1.7976931348623157e308+1.7976931348623157e308", ErrorValue(ErrorCodeDiv0)},
		{"1e300*1e300", ErrorValue(ErrorCodeDiv0)},
		{"1+1/0*0", ErrorValue(ErrorCodeDiv0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			formula, err := ParseFormula(tt.input)
			if err != nil {
				t.Fatalf("ParseFormula(%q) failed: %v", tt.input, err)
			}
			if got := formula.Evaluate(emptyLookup{}); got != tt.expected {
				t.Errorf("Evaluate(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExcelTokenizer(t *testing.T) {
	valid := []struct {
		input    string
		expected string
	}{
		{"A1+B2*3", "A1+B2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"C3/(D4-2)", "C3/(D4-2)"},
	}
	for _, tt := range valid {
		t.Run(tt.input, func(t *testing.T) {
			formula, err := ParseFormulaWith(ExcelTokenizer{}, tt.input)
			if err != nil {
				t.Fatalf("ParseFormulaWith(excel, %q) failed: %v", tt.input, err)
			}
			if got := formula.Expression(); got != tt.expected {
				t.Errorf("expression = %q, expected %q", got, tt.expected)
			}
		})
	}

	formula, err := ParseFormulaWith(ExcelTokenizer{}, "(1+2)*3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := formula.Evaluate(emptyLookup{}); got != NumberValue(9) {
		t.Errorf("(1+2)*3 = %v, expected 9", got)
	}

	invalid := []string{"SUM(A1)", "\"text\"", "A1:B2", "A1&B1", "X0"}
	for _, input := range invalid {
		if _, err := ParseFormulaWith(ExcelTokenizer{}, input); !IsFormulaConstruction(err) {
			t.Errorf("ParseFormulaWith(excel, %q) should fail with a construction error, got %v", input, err)
		}
	}
}
