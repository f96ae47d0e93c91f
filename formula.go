package cellsheet

import (
	"errors"

	"github.com/polydawn/go-errcat"
)

// Formula is a parsed expression together with its canonical text and
// the positions it references. formulas are immutable.
type Formula struct {
	root       ASTNode
	expression string
	references []Position
}

// ParseFormula parses expression (the text after '=') with the native
// tokenizer
func ParseFormula(expression string) (*Formula, error) {
	return ParseFormulaWith(NativeTokenizer{}, expression)
}

// ParseFormulaWith parses expression using the given tokenizer. any
// failure is reported as ErrFormulaConstruction.
func ParseFormulaWith(tokenizer Tokenizer, expression string) (*Formula, error) {
	tokens, err := tokenizer.Tokenize(expression)
	if err != nil {
		return nil, errcat.Errorf(ErrFormulaConstruction, "invalid formula %q: %s", expression, err)
	}
	root, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, errcat.Errorf(ErrFormulaConstruction, "invalid formula %q: %s", expression, err)
	}
	return &Formula{
		root:       root,
		expression: root.ToString(),
		references: collectReferences(root),
	}, nil
}

// Evaluate runs the formula against cells. runtime failures come back
// as an error Value rather than a Go error.
func (f *Formula) Evaluate(cells CellLookup) Value {
	result, err := f.root.Eval(cells)
	if err != nil {
		var formulaErr *FormulaError
		if errors.As(err, &formulaErr) {
			return ErrorValue(formulaErr.Code)
		}
		return ErrorValue(ErrorCodeValue)
	}
	return NumberValue(result)
}

// Expression is the canonical rendering: minimal parentheses, no spaces
func (f *Formula) Expression() string {
	return f.expression
}

// ReferencedCells returns each referenced position once, in order of
// first appearance
func (f *Formula) ReferencedCells() []Position {
	refs := make([]Position, len(f.references))
	copy(refs, f.references)
	return refs
}

func (f *Formula) AST() ASTNode {
	return f.root
}
