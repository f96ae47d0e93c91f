package cellsheet

import (
	"fmt"

	"github.com/polydawn/go-errcat"
)

// ErrorCategory classifies structural errors returned by sheet operations.
// these are failures of the operation itself, as opposed to FormulaError
// values which are data produced by evaluating a formula.
type ErrorCategory string

const (
	// ErrInvalidPosition means a position outside the grid was passed
	// to a sheet operation, or a label could not be parsed.
	ErrInvalidPosition = ErrorCategory("cellsheet-invalid-position")

	// ErrFormulaConstruction means formula text failed to parse.
	ErrFormulaConstruction = ErrorCategory("cellsheet-formula-construction")

	// ErrCircularDependency means the edit would introduce a reference
	// cycle through the edited position.
	ErrCircularDependency = ErrorCategory("cellsheet-circular-dependency")
)

func IsInvalidPosition(err error) bool {
	return err != nil && errcat.Category(err) == ErrInvalidPosition
}

func IsFormulaConstruction(err error) bool {
	return err != nil && errcat.Category(err) == ErrFormulaConstruction
}

func IsCircularDependency(err error) bool {
	return err != nil && errcat.Category(err) == ErrCircularDependency
}

// ErrorCode enumerates formula runtime error kinds
type ErrorCode uint8

const (
	// ErrorCodeValue: a referenced cell can't be interpreted as a number
	ErrorCodeValue ErrorCode = iota + 1
	// ErrorCodeDiv0: division by zero, or any non-finite result
	ErrorCodeDiv0
)

// ErrorMapper maps error codes to the fixed tokens shown in output.
// these strings are part of the printed contract.
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeValue: "#VALUE!",
	ErrorCodeDiv0:  "#DIV/0!",
}

// FormulaError is a runtime evaluation error. it is carried inside a
// Value and cached like any other result, never returned from Value().
type FormulaError struct {
	Code ErrorCode
}

func NewFormulaError(code ErrorCode) *FormulaError {
	return &FormulaError{Code: code}
}

// Error satisfies the error interface so evaluation can short-circuit
// with ordinary error returns inside the AST.
func (e *FormulaError) Error() string {
	return e.String()
}

func (e FormulaError) String() string {
	if token, ok := ErrorMapper[e.Code]; ok {
		return token
	}
	return fmt.Sprintf("#ERR%d!", e.Code)
}
