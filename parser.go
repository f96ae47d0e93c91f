package cellsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type NodePosition struct {
	Start int
	End   int
}

// ParseError reports where formula text stopped making sense
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at %d)", e.Message, e.Pos)
}

// CellLookup is the view of a sheet that formula evaluation needs
type CellLookup interface {
	LookupCell(pos Position) (*Cell, bool)
}

// ASTNode is a node of a parsed formula. Eval short-circuits with a
// *FormulaError as soon as any subtree fails.
type ASTNode interface {
	Eval(cells CellLookup) (float64, error)
	GetPosition() NodePosition
	ToString() string
}

// Parser parses tokens into an AST
type Parser struct {
	tokens []Token
	pos    int
}

// NumberNode represents a numeric literal
type NumberNode struct {
	Value    float64
	Position NodePosition
}

func (n *NumberNode) Eval(cells CellLookup) (float64, error) {
	return n.Value, nil
}

func (n *NumberNode) GetPosition() NodePosition {
	return n.Position
}

func (n *NumberNode) ToString() string {
	return formatNumber(n.Value)
}

// CellRefNode represents a reference to another cell
type CellRefNode struct {
	Ref      Position
	Position NodePosition
}

// Eval resolves the referenced cell. missing and empty cells count as
// zero, numeric text counts as its number, anything else is #VALUE!.
func (n *CellRefNode) Eval(cells CellLookup) (float64, error) {
	cell, ok := cells.LookupCell(n.Ref)
	if !ok {
		return 0, nil
	}
	return cell.numericValue()
}

func (n *CellRefNode) GetPosition() NodePosition {
	return n.Position
}

func (n *CellRefNode) ToString() string {
	return n.Ref.ToLabel()
}

// BinaryOpNode represents a binary operation
type BinaryOpNode struct {
	Op       BinaryOp
	Left     ASTNode
	Right    ASTNode
	Position NodePosition
}

func (n *BinaryOpNode) Eval(cells CellLookup) (float64, error) {
	left, err := n.Left.Eval(cells)
	if err != nil {
		return 0, err
	}
	right, err := n.Right.Eval(cells)
	if err != nil {
		return 0, err
	}

	var result float64
	switch n.Op {
	case BinOpAdd:
		result = left + right
	case BinOpSubtract:
		result = left - right
	case BinOpMultiply:
		result = left * right
	case BinOpDivide:
		if right == 0 {
			return 0, NewFormulaError(ErrorCodeDiv0)
		}
		result = left / right
	default:
		return 0, NewFormulaError(ErrorCodeValue)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, NewFormulaError(ErrorCodeDiv0)
	}
	return result, nil
}

func (n *BinaryOpNode) GetPosition() NodePosition {
	return n.Position
}

func (n *BinaryOpNode) ToString() string {
	rule := parenRules[nodePrecedence(n)]
	var b strings.Builder
	writeOperand(&b, n.Left, rule[nodePrecedence(n.Left)]&parenLeft != 0)
	b.WriteString(n.opString())
	writeOperand(&b, n.Right, rule[nodePrecedence(n.Right)]&parenRight != 0)
	return b.String()
}

func (n *BinaryOpNode) opString() string {
	switch n.Op {
	case BinOpAdd:
		return "+"
	case BinOpSubtract:
		return "-"
	case BinOpMultiply:
		return "*"
	case BinOpDivide:
		return "/"
	}
	return "?"
}

// UnaryOpNode represents a unary operation
type UnaryOpNode struct {
	Op       UnaryOp
	Operand  ASTNode
	Position NodePosition
}

func (n *UnaryOpNode) Eval(cells CellLookup) (float64, error) {
	val, err := n.Operand.Eval(cells)
	if err != nil {
		return 0, err
	}
	if n.Op == UnaryOpMinus {
		return -val, nil
	}
	return val, nil
}

func (n *UnaryOpNode) GetPosition() NodePosition {
	return n.Position
}

func (n *UnaryOpNode) ToString() string {
	var b strings.Builder
	if n.Op == UnaryOpMinus {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	rule := parenRules[precUnary]
	writeOperand(&b, n.Operand, rule[nodePrecedence(n.Operand)]&parenRight != 0)
	return b.String()
}

type exprPrecedence int

const (
	precAdd exprPrecedence = iota
	precSub
	precMul
	precDiv
	precUnary
	precAtom
	precCount
)

// bits saying which side of a parent needs parentheses around a child
const (
	parenNone  = 0
	parenLeft  = 1 << 0
	parenRight = 1 << 1
	parenBoth  = parenLeft | parenRight
)

// parenRules[parent][child]. a-(b+c) and a/(b*c) keep their parens,
// (a+b)*c keeps them on both sides, a+(b-c) drops them. a unary keeps
// them around any binary operand so a/-(b*c) cannot regroup.
var parenRules = [precCount][precCount]uint8{
	precAdd:   {parenNone, parenNone, parenNone, parenNone, parenNone, parenNone},
	precSub:   {parenRight, parenRight, parenNone, parenNone, parenNone, parenNone},
	precMul:   {parenBoth, parenBoth, parenNone, parenNone, parenNone, parenNone},
	precDiv:   {parenBoth, parenBoth, parenRight, parenRight, parenNone, parenNone},
	precUnary: {parenBoth, parenBoth, parenRight, parenRight, parenNone, parenNone},
	precAtom:  {parenNone, parenNone, parenNone, parenNone, parenNone, parenNone},
}

func nodePrecedence(node ASTNode) exprPrecedence {
	switch n := node.(type) {
	case *BinaryOpNode:
		switch n.Op {
		case BinOpAdd:
			return precAdd
		case BinOpSubtract:
			return precSub
		case BinOpMultiply:
			return precMul
		default:
			return precDiv
		}
	case *UnaryOpNode:
		return precUnary
	default:
		return precAtom
	}
}

func writeOperand(b *strings.Builder, node ASTNode, parens bool) {
	if parens {
		b.WriteByte('(')
	}
	b.WriteString(node.ToString())
	if parens {
		b.WriteByte(')')
	}
}

func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		pos:    0,
	}
}

// Parse parses the tokens into an AST
func (p *Parser) Parse() (ASTNode, error) {
	if len(p.tokens) == 0 {
		return nil, &ParseError{Pos: 0, Message: "no tokens to parse"}
	}

	node, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	// everything except EOF must be consumed
	if p.pos >= len(p.tokens) || p.tokens[p.pos].Type != TokenEOF {
		tok := p.peekToken()
		return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("unexpected token after expression: %s", tok.Value)}
	}

	return node, nil
}

func (p *Parser) peekToken() Token {
	if p.pos >= len(p.tokens) {
		end := 0
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Pos
		}
		return Token{Type: TokenEOF, Pos: end}
	}
	return p.tokens[p.pos]
}

// parseAddition handles addition and subtraction
func (p *Parser) parseAddition() (ASTNode, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Type != TokenBinaryOp {
			break
		}

		var op BinaryOp
		switch tok.Value {
		case "+":
			op = BinOpAdd
		case "-":
			op = BinOpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseMultiplication handles multiplication and division
func (p *Parser) parseMultiplication() (ASTNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Type != TokenBinaryOp {
			break
		}

		var op BinaryOp
		switch tok.Value {
		case "*":
			op = BinOpMultiply
		case "/":
			op = BinOpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &BinaryOpNode{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: NodePosition{Start: left.GetPosition().Start, End: right.GetPosition().End},
		}
	}

	return left, nil
}

// parseUnary handles unary operators
func (p *Parser) parseUnary() (ASTNode, error) {
	tok := p.peekToken()

	if tok.Type == TokenUnaryPrefixOp {
		var op UnaryOp
		switch tok.Value {
		case "+":
			op = UnaryOpPlus
		case "-":
			op = UnaryOpMinus
		default:
			return nil, &ParseError{Pos: tok.Pos, Message: "unknown unary operator: " + tok.Value}
		}

		p.pos++
		operand, err := p.parseUnary() // recurse for chained unary operators
		if err != nil {
			return nil, err
		}

		return &UnaryOpNode{
			Op:       op,
			Operand:  operand,
			Position: NodePosition{Start: tok.Pos, End: operand.GetPosition().End},
		}, nil
	}

	return p.parsePrimary()
}

// parsePrimary handles literals, references and parentheses
func (p *Parser) parsePrimary() (ASTNode, error) {
	tok := p.peekToken()

	switch tok.Type {
	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil || math.IsInf(val, 0) {
			return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("invalid number: %s", tok.Value)}
		}
		return &NumberNode{
			Value:    val,
			Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
		}, nil

	case TokenCell:
		p.pos++
		ref := PositionFromLabel(tok.Value)
		if !ref.IsValid() {
			return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("invalid cell reference: %s", tok.Value)}
		}
		return &CellRefNode{
			Ref:      ref,
			Position: NodePosition{Start: tok.Pos, End: tok.Pos + len(tok.Value)},
		}, nil

	case TokenLeftParen:
		p.pos++
		node, err := p.parseAddition()
		if err != nil {
			return nil, err
		}

		if p.pos >= len(p.tokens) || p.tokens[p.pos].Type != TokenRightParen {
			return nil, &ParseError{Pos: p.peekToken().Pos, Message: "expected closing parenthesis"}
		}
		p.pos++

		return node, nil

	case TokenEOF:
		return nil, &ParseError{Pos: tok.Pos, Message: "unexpected end of formula"}

	default:
		return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("unexpected token: %s", tok.Value)}
	}
}

// collectReferences walks the tree left to right and returns every
// referenced position once, in order of first appearance
func collectReferences(node ASTNode) []Position {
	seen := make(map[Position]struct{})
	refs := []Position{}
	collectReferencesRecursive(node, seen, &refs)
	return refs
}

func collectReferencesRecursive(node ASTNode, seen map[Position]struct{}, refs *[]Position) {
	switch n := node.(type) {
	case *CellRefNode:
		if _, ok := seen[n.Ref]; !ok {
			seen[n.Ref] = struct{}{}
			*refs = append(*refs, n.Ref)
		}
	case *BinaryOpNode:
		collectReferencesRecursive(n.Left, seen, refs)
		collectReferencesRecursive(n.Right, seen, refs)
	case *UnaryOpNode:
		collectReferencesRecursive(n.Operand, seen, refs)
	}
}
