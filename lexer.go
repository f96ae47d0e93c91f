package cellsheet

// TokenType represents the token categories the parser consumes
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenCell
	TokenUnaryPrefixOp
	TokenBinaryOp
	TokenLeftParen
	TokenRightParen
	TokenError
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of formula"
	case TokenNumber:
		return "number"
	case TokenCell:
		return "cell reference"
	case TokenUnaryPrefixOp:
		return "unary operator"
	case TokenBinaryOp:
		return "operator"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	default:
		return "error"
	}
}

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	BinOpAdd BinaryOp = iota
	BinOpSubtract
	BinOpMultiply
	BinOpDivide
)

// UnaryOp represents unary operators in AST nodes
type UnaryOp int

const (
	UnaryOpPlus UnaryOp = iota
	UnaryOpMinus
)

// character classification constants. slightly easier to read.
const (
	charNull     = 0
	charTab      = '\t'
	charNewline  = '\n'
	charReturn   = '\r'
	charSpace    = ' '
	charLParen   = '('
	charRParen   = ')'
	charAsterisk = '*'
	charPlus     = '+'
	charMinus    = '-'
	charPeriod   = '.'
	charSlash    = '/'
)

// TokenState represents the lexer state for validation
type TokenState int

const (
	StateStart TokenState = iota
	StateAfterValue
	StateAfterOperator
	StateAfterLeftParen
	StateAfterRightParen
)

// tokenTransitions maps the current state to valid next token types
var tokenTransitions = map[TokenState]map[TokenType]bool{
	StateStart: {
		TokenUnaryPrefixOp: true,
		TokenNumber:        true,
		TokenCell:          true,
		TokenLeftParen:     true,
	},
	StateAfterValue: { // after number or cell
		TokenBinaryOp:   true,
		TokenRightParen: true,
		TokenEOF:        true,
	},
	StateAfterOperator: {
		TokenNumber:        true,
		TokenCell:          true,
		TokenLeftParen:     true,
		TokenUnaryPrefixOp: true,
	},
	StateAfterLeftParen: {
		TokenNumber:        true,
		TokenCell:          true,
		TokenLeftParen:     true, // nested
		TokenUnaryPrefixOp: true,
	},
	StateAfterRightParen: {
		TokenBinaryOp:   true,
		TokenRightParen: true, // if nested
		TokenEOF:        true,
	},
}

// Token represents a lexical token with position information
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune offset in the expression
}

// Tokenizer turns the expression part of a formula (the text after the
// leading '=') into tokens for the parser. the stream always ends with
// a TokenEOF token.
type Tokenizer interface {
	Tokenize(expression string) ([]Token, error)
}

// NativeTokenizer is the built-in state machine tokenizer
type NativeTokenizer struct{}

func (NativeTokenizer) Tokenize(expression string) ([]Token, error) {
	return NewLexer(expression).Tokenize()
}

// Lexer tokenizes a single formula expression
type Lexer struct {
	runes      []rune // UTF-8 aware representation
	pos        int
	state      TokenState
	parenDepth int
	tokens     []Token
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		runes:  []rune(input),
		pos:    0,
		state:  StateStart,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input, failing on the first token that
// is malformed or out of place
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok := l.nextToken()
		if tok.Type == TokenError {
			return nil, &ParseError{Pos: tok.Pos, Message: tok.Value}
		}
		if !l.validateTransition(tok.Type) {
			if tok.Type == TokenEOF {
				return nil, &ParseError{Pos: tok.Pos, Message: "unexpected end of formula"}
			}
			return nil, &ParseError{Pos: tok.Pos, Message: "unexpected " + tok.Type.String() + " " + tok.Value}
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
		l.updateState(tok.Type)
	}

	if l.parenDepth > 0 {
		return nil, &ParseError{Pos: l.pos, Message: "unbalanced parentheses: missing closing parenthesis"}
	}
	return l.tokens, nil
}

// validateTransition checks if the token type is valid in current state
func (l *Lexer) validateTransition(tokenType TokenType) bool {
	validTokens, exists := tokenTransitions[l.state]
	if !exists {
		return false
	}
	return validTokens[tokenType]
}

// updateState updates the lexer state based on the token type
func (l *Lexer) updateState(tokenType TokenType) {
	switch tokenType {
	case TokenNumber, TokenCell:
		l.state = StateAfterValue
	case TokenUnaryPrefixOp, TokenBinaryOp:
		l.state = StateAfterOperator
	case TokenLeftParen:
		l.state = StateAfterLeftParen
	case TokenRightParen:
		l.state = StateAfterRightParen
	}
}

// nextToken returns the next token from the input
func (l *Lexer) nextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.runes) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	startPos := l.pos
	ch := l.current()

	if l.isDigit(ch) || (ch == charPeriod && l.isDigit(l.peek(1))) {
		return l.scanNumber()
	}

	switch ch {
	case charLParen:
		l.pos++
		l.parenDepth++
		return Token{Type: TokenLeftParen, Value: "(", Pos: startPos}
	case charRParen:
		l.pos++
		l.parenDepth--
		if l.parenDepth < 0 {
			return Token{Type: TokenError, Value: "unexpected closing parenthesis", Pos: startPos}
		}
		return Token{Type: TokenRightParen, Value: ")", Pos: startPos}
	case charPlus, charMinus:
		return l.scanUnaryPrefixOrBinaryOp()
	case charAsterisk, charSlash:
		l.pos++
		return Token{Type: TokenBinaryOp, Value: string(ch), Pos: startPos}
	}

	if l.isAlpha(ch) {
		return l.scanCell()
	}

	l.pos++
	return Token{Type: TokenError, Value: "unexpected character: " + string(ch), Pos: startPos}
}

// helper methods for character navigation and classification

func (l *Lexer) substring(start, end int) string {
	if start < 0 || end > len(l.runes) || start > end {
		return ""
	}
	return string(l.runes[start:end])
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.runes) || pos < 0 {
		return charNull
	}
	return l.runes[pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func (l *Lexer) isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func (l *Lexer) isAlphaNumeric(ch rune) bool {
	return l.isAlpha(ch) || l.isDigit(ch)
}

// scanNumber scans a number token including decimals and scientific
// notation. a letter glued to the end ("3X", "1e5B") is an error.
func (l *Lexer) scanNumber() Token {
	startPos := l.pos

	// integer part
	for l.pos < len(l.runes) && l.isDigit(l.current()) {
		l.pos++
	}

	// decimal part
	if l.current() == charPeriod && l.isDigit(l.peek(1)) {
		l.pos++ // consume '.'
		for l.pos < len(l.runes) && l.isDigit(l.current()) {
			l.pos++
		}
	}

	// scientific notation (e or E)
	if l.current() == 'e' || l.current() == 'E' {
		savedPos := l.pos
		l.pos++

		if l.current() == charPlus || l.current() == charMinus {
			l.pos++
		}

		if !l.isDigit(l.current()) {
			l.pos = savedPos
		} else {
			for l.pos < len(l.runes) && l.isDigit(l.current()) {
				l.pos++
			}
		}
	}

	if l.isAlpha(l.current()) || l.current() == charPeriod {
		return Token{Type: TokenError, Value: "malformed number: " + l.substring(startPos, l.pos+1), Pos: startPos}
	}

	return Token{Type: TokenNumber, Value: l.substring(startPos, l.pos), Pos: startPos}
}

// scanCell scans a letters-then-digits cell reference. whether the
// reference is inside the grid is left to the parser.
func (l *Lexer) scanCell() Token {
	startPos := l.pos

	for l.pos < len(l.runes) && l.isAlphaNumeric(l.current()) {
		l.pos++
	}

	value := l.substring(startPos, l.pos)
	if !isCellShaped(value) {
		return Token{Type: TokenError, Value: "invalid cell reference: " + value, Pos: startPos}
	}
	return Token{Type: TokenCell, Value: value, Pos: startPos}
}

// isCellShaped checks if a string is shaped like a cell reference (e.g., A1, B12)
func isCellShaped(s string) bool {
	if len(s) < 2 {
		return false
	}

	// find where letters end and numbers begin
	letterEnd := 0
	for i, ch := range s {
		if ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' {
			letterEnd = i + 1
		} else {
			break
		}
	}

	// must have at least one letter and one digit
	if letterEnd == 0 || letterEnd == len(s) {
		return false
	}

	for i := letterEnd; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// scanUnaryPrefixOrBinaryOp scans + and - which can be either unary
// prefix or binary
func (l *Lexer) scanUnaryPrefixOrBinaryOp() Token {
	startPos := l.pos
	ch := l.current()
	l.pos++

	if l.isUnaryContext() {
		return Token{Type: TokenUnaryPrefixOp, Value: string(ch), Pos: startPos}
	}
	return Token{Type: TokenBinaryOp, Value: string(ch), Pos: startPos}
}

// isUnaryContext reports whether an operator here can only be a prefix:
// at the start, after another operator, or after a left paren
func (l *Lexer) isUnaryContext() bool {
	switch l.state {
	case StateStart, StateAfterOperator, StateAfterLeftParen:
		return true
	default:
		return false
	}
}
