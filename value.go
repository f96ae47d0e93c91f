package cellsheet

import (
	"math"
	"strconv"
)

// ValueType tags the variant held by a Value
type ValueType uint8

const (
	// ValueTypeText is the zero value so that Value{} is the empty text
	// an Empty cell produces.
	ValueTypeText ValueType = iota
	ValueTypeNumber
	ValueTypeError
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeText:
		return "text"
	case ValueTypeNumber:
		return "number"
	case ValueTypeError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is the result of reading a cell: text, a number, or a formula
// error. values are never mutated after construction.
type Value struct {
	Type   ValueType
	Text   string
	Number float64
	Error  FormulaError
}

func TextValue(text string) Value {
	return Value{Type: ValueTypeText, Text: text}
}

func NumberValue(number float64) Value {
	return Value{Type: ValueTypeNumber, Number: number}
}

func ErrorValue(code ErrorCode) Value {
	return Value{Type: ValueTypeError, Error: FormulaError{Code: code}}
}

func (v Value) IsText() bool   { return v.Type == ValueTypeText }
func (v Value) IsNumber() bool { return v.Type == ValueTypeNumber }
func (v Value) IsError() bool  { return v.Type == ValueTypeError }

// String renders the value the way it appears in printed output: text
// as-is, numbers in plain decimal form, errors as their fixed token.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeNumber:
		return formatNumber(v.Number)
	case ValueTypeError:
		return v.Error.String()
	default:
		return v.Text
	}
}

// formatNumber prints the shortest decimal that round-trips, falling
// back to exponent form only for very large or very small magnitudes
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseNumericText accepts only a complete decimal literal: optional
// sign, digits with an optional fraction, optional exponent. strconv
// alone would also take "inf", "nan", hex floats and underscores.
func parseNumericText(text string) (float64, bool) {
	if !isDecimalLiteral(text) {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mantissaDigits := 0
	for i < len(s) && isDigitByte(s[i]) {
		i++
		mantissaDigits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigitByte(s[i]) {
			i++
			mantissaDigits++
		}
	}
	if mantissaDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exponentDigits := 0
		for i < len(s) && isDigitByte(s[i]) {
			i++
			exponentDigits++
		}
		if exponentDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigitByte(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
