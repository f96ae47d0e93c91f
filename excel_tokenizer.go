package cellsheet

import (
	"strings"

	"github.com/xuri/efp"
)

// ExcelTokenizer tokenizes with the efp Excel formula parser and maps
// its tokens onto the categories the parser understands. functions,
// strings, booleans, ranges and comparison operators all fail here.
type ExcelTokenizer struct{}

func (ExcelTokenizer) Tokenize(expression string) ([]Token, error) {
	parser := efp.ExcelParser()
	parsed := parser.Parse(expression)

	tokens := make([]Token, 0, len(parsed)+1)
	for i, tok := range parsed {
		if strings.TrimSpace(tok.TValue) == "" && tok.TType != efp.TokenTypeSubexpression {
			continue
		}
		mapped, err := mapExcelToken(tok, i)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, mapped)
	}
	tokens = append(tokens, Token{Type: TokenEOF, Pos: len(parsed)})
	return tokens, nil
}

func mapExcelToken(tok efp.Token, index int) (Token, error) {
	switch tok.TType {
	case efp.TokenTypeOperand:
		switch tok.TSubType {
		case efp.TokenSubTypeNumber:
			if !isDecimalLiteral(tok.TValue) {
				return Token{}, &ParseError{Pos: index, Message: "malformed number: " + tok.TValue}
			}
			return Token{Type: TokenNumber, Value: tok.TValue, Pos: index}, nil
		case efp.TokenSubTypeRange:
			if !isCellShaped(tok.TValue) {
				return Token{}, &ParseError{Pos: index, Message: "invalid cell reference: " + tok.TValue}
			}
			return Token{Type: TokenCell, Value: tok.TValue, Pos: index}, nil
		}
	case efp.TokenTypeOperatorPrefix:
		if tok.TValue == "-" || tok.TValue == "+" {
			return Token{Type: TokenUnaryPrefixOp, Value: tok.TValue, Pos: index}, nil
		}
	case efp.TokenTypeOperatorInfix:
		switch tok.TValue {
		case "+", "-", "*", "/":
			return Token{Type: TokenBinaryOp, Value: tok.TValue, Pos: index}, nil
		}
	case efp.TokenTypeSubexpression:
		switch tok.TSubType {
		case efp.TokenSubTypeStart:
			return Token{Type: TokenLeftParen, Value: "(", Pos: index}, nil
		case efp.TokenSubTypeStop:
			return Token{Type: TokenRightParen, Value: ")", Pos: index}, nil
		}
	}
	return Token{}, &ParseError{Pos: index, Message: "unsupported " + tok.TType + " token: " + tok.TValue}
}
