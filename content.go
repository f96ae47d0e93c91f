package cellsheet

// reserved leading characters of raw cell text
const (
	FormulaSign = '='
	EscapeSign  = '\''
)

// ContentKind tags the three content variants
type ContentKind uint8

const (
	ContentEmpty ContentKind = iota
	ContentText
	ContentFormula
)

func (k ContentKind) String() string {
	switch k {
	case ContentEmpty:
		return "empty"
	case ContentText:
		return "text"
	case ContentFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// CellContent is what a cell holds. the set of implementations is closed:
// EmptyContent, TextContent and FormulaContent.
type CellContent interface {
	Kind() ContentKind
	Value(cells CellLookup) Value
	Text() string
	ReferencedCells() []Position
	sealed()
}

var (
	_ CellContent = EmptyContent{}
	_ CellContent = TextContent{}
	_ CellContent = FormulaContent{}
)

// NewContent classifies raw cell text:
//
//	""          -> empty
//	"='..."     -> text "'..." (the escape keeps it from being a formula)
//	"=expr"     -> formula over expr
//	anything    -> text
func NewContent(text string, tokenizer Tokenizer) (CellContent, error) {
	switch {
	case text == "":
		return EmptyContent{}, nil
	case len(text) > 1 && text[0] == FormulaSign && text[1] == EscapeSign:
		return TextContent{raw: text[1:]}, nil
	case len(text) > 1 && text[0] == FormulaSign:
		formula, err := ParseFormulaWith(tokenizer, text[1:])
		if err != nil {
			return nil, err
		}
		return FormulaContent{formula: formula}, nil
	default:
		return TextContent{raw: text}, nil
	}
}

type EmptyContent struct{}

func (EmptyContent) Kind() ContentKind            { return ContentEmpty }
func (EmptyContent) Value(cells CellLookup) Value { return Value{} }
func (EmptyContent) Text() string                 { return "" }
func (EmptyContent) ReferencedCells() []Position  { return nil }
func (EmptyContent) sealed()                      {}

type TextContent struct {
	raw string
}

func (TextContent) Kind() ContentKind { return ContentText }

// Value drops a single leading escape marker
func (c TextContent) Value(cells CellLookup) Value {
	if len(c.raw) > 0 && c.raw[0] == EscapeSign {
		return TextValue(c.raw[1:])
	}
	return TextValue(c.raw)
}

func (c TextContent) Text() string              { return c.raw }
func (TextContent) ReferencedCells() []Position { return nil }
func (TextContent) sealed()                     {}

type FormulaContent struct {
	formula *Formula
}

func (FormulaContent) Kind() ContentKind { return ContentFormula }

func (c FormulaContent) Value(cells CellLookup) Value {
	return c.formula.Evaluate(cells)
}

func (c FormulaContent) Text() string {
	return string(FormulaSign) + c.formula.Expression()
}

func (c FormulaContent) ReferencedCells() []Position {
	return c.formula.ReferencedCells()
}

func (c FormulaContent) Formula() *Formula {
	return c.formula
}

func (FormulaContent) sealed() {}
