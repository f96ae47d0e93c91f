package cellsheet

import (
	"fmt"
	"testing"

	"github.com/inconshreveable/log15"
	"github.com/polydawn/go-errcat"
	"github.com/smartystreets/goconvey/convey"
)

// shouldHaveCategory is a goconvey assertion over errcat categories
func shouldHaveCategory(actual interface{}, expected ...interface{}) string {
	if len(expected) != 1 {
		return "shouldHaveCategory needs exactly one expected category"
	}
	if actual == nil {
		return fmt.Sprintf("Actual: nil\nExpected category: %q", expected[0])
	}
	err, ok := actual.(error)
	if !ok {
		return fmt.Sprintf("Actual: %v\nExpected an error with category %q", actual, expected[0])
	}
	if got := errcat.Category(err); got != expected[0] {
		return fmt.Sprintf("Actual category: %q\nExpected category: %q\n(Full error: %v)", got, expected[0], err)
	}
	return ""
}

// conveyWriter routes log output into the goconvey report
type conveyWriter struct {
	c convey.C
}

func (w conveyWriter) Write(msg []byte) (int, error) {
	return w.c.Print(string(msg))
}

func testLogger(c convey.C) log15.Logger {
	log := log15.New()
	log.SetHandler(log15.StreamHandler(conveyWriter{c}, log15.TerminalFormat()))
	return log
}

func pos(label string) Position {
	p := PositionFromLabel(label)
	if !p.IsValid() {
		panic("bad label in test: " + label)
	}
	return p
}

// SheetTestCase is a chainable helper for sheet scenarios. the first
// failure stops the chain.
type SheetTestCase struct {
	t      *testing.T
	name   string
	sheet  *Sheet
	failed bool
}

func NewSheetTestCase(t *testing.T, name string) *SheetTestCase {
	return &SheetTestCase{
		t:     t,
		name:  name,
		sheet: NewSheet(),
	}
}

func (tc *SheetTestCase) Set(label string, text string) *SheetTestCase {
	if tc.failed {
		return tc
	}
	if err := tc.sheet.Set(label, text); err != nil {
		tc.t.Errorf("%s: Set(%s, %q) failed: %v", tc.name, label, text, err)
		tc.failed = true
	}
	return tc
}

func (tc *SheetTestCase) SetFails(label string, text string, category ErrorCategory) *SheetTestCase {
	if tc.failed {
		return tc
	}
	err := tc.sheet.Set(label, text)
	if err == nil {
		tc.t.Errorf("%s: Set(%s, %q) should have failed with %s", tc.name, label, text, category)
		tc.failed = true
		return tc
	}
	if got := errcat.Category(err); got != category {
		tc.t.Errorf("%s: Set(%s, %q) failed with %v, expected %s", tc.name, label, text, got, category)
		tc.failed = true
	}
	return tc
}

func (tc *SheetTestCase) Remove(label string) *SheetTestCase {
	if tc.failed {
		return tc
	}
	if err := tc.sheet.Remove(label); err != nil {
		tc.t.Errorf("%s: Remove(%s) failed: %v", tc.name, label, err)
		tc.failed = true
	}
	return tc
}

// AssertValueEq compares the value at label. numbers compare as
// numbers, strings against the rendered value, ErrorCode against the
// error variant.
func (tc *SheetTestCase) AssertValueEq(label string, expected interface{}) *SheetTestCase {
	if tc.failed {
		return tc
	}
	actual, err := tc.sheet.Get(label)
	if err != nil {
		tc.t.Errorf("%s: Get(%s) failed: %v", tc.name, label, err)
		return tc
	}
	switch exp := expected.(type) {
	case int:
		if !actual.IsNumber() || actual.Number != float64(exp) {
			tc.t.Errorf("%s: %s = %v (%s), expected %d", tc.name, label, actual, actual.Type, exp)
		}
	case float64:
		if !actual.IsNumber() || actual.Number != exp {
			tc.t.Errorf("%s: %s = %v (%s), expected %v", tc.name, label, actual, actual.Type, exp)
		}
	case ErrorCode:
		if !actual.IsError() || actual.Error.Code != exp {
			tc.t.Errorf("%s: %s = %v (%s), expected %s", tc.name, label, actual, actual.Type, ErrorMapper[exp])
		}
	case string:
		if !actual.IsText() || actual.Text != exp {
			tc.t.Errorf("%s: %s = %v (%s), expected text %q", tc.name, label, actual, actual.Type, exp)
		}
	default:
		tc.t.Fatalf("%s: unsupported expected type %T", tc.name, expected)
	}
	return tc
}

func (tc *SheetTestCase) AssertTextEq(label string, expected string) *SheetTestCase {
	if tc.failed {
		return tc
	}
	actual, err := tc.sheet.Text(label)
	if err != nil {
		tc.t.Errorf("%s: Text(%s) failed: %v", tc.name, label, err)
		return tc
	}
	if actual != expected {
		tc.t.Errorf("%s: text of %s = %q, expected %q", tc.name, label, actual, expected)
	}
	return tc
}

func (tc *SheetTestCase) AssertSize(rows, cols int) *SheetTestCase {
	if tc.failed {
		return tc
	}
	if got := tc.sheet.GetPrintableSize(); got != (Size{Rows: rows, Cols: cols}) {
		tc.t.Errorf("%s: size = %dx%d, expected %dx%d", tc.name, got.Rows, got.Cols, rows, cols)
	}
	return tc
}

func (tc *SheetTestCase) AssertAbsent(label string) *SheetTestCase {
	if tc.failed {
		return tc
	}
	cell, err := tc.sheet.GetCell(pos(label))
	if err != nil {
		tc.t.Errorf("%s: GetCell(%s) failed: %v", tc.name, label, err)
		return tc
	}
	if cell != nil {
		tc.t.Errorf("%s: expected %s to be unoccupied, found %q", tc.name, label, cell.Text())
	}
	return tc
}
