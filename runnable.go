package cellsheet

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// RunnableSheet provides a chainable interface for sheet operations.
// it wraps a Sheet and tracks the first error internally; once an error
// is recorded the remaining calls are no-ops.
type RunnableSheet struct {
	sheet   *Sheet
	err     error
	printLn func(string)
}

// NewRunnableSheet creates a new RunnableSheet. printLn is required and
// is used by Log, CheckError and the print methods.
func NewRunnableSheet(printLn func(string), opts ...Option) *RunnableSheet {
	return &RunnableSheet{
		sheet:   NewSheet(opts...),
		err:     nil,
		printLn: printLn,
	}
}

// Set sets a cell by label (chainable)
func (r *RunnableSheet) Set(label string, text string) *RunnableSheet {
	if r.err != nil {
		return r
	}
	r.err = r.sheet.Set(label, text)
	return r
}

// Clear clears a cell by label (chainable)
func (r *RunnableSheet) Clear(label string) *RunnableSheet {
	if r.err != nil {
		return r
	}
	r.err = r.sheet.Remove(label)
	return r
}

// SetBatch sets several cells. labels are applied in row-major order so
// that the outcome does not depend on map iteration.
func (r *RunnableSheet) SetBatch(cells map[string]string) *RunnableSheet {
	labels := make([]string, 0, len(cells))
	for label := range cells {
		labels = append(labels, label)
	}
	sortLabels(labels)
	for _, label := range labels {
		r.Set(label, cells[label])
	}
	return r
}

// Get retrieves a value (chainable)
func (r *RunnableSheet) Get(label string) (*RunnableSheet, Value) {
	if r.err != nil {
		return r, Value{}
	}
	val, err := r.sheet.Get(label)
	if err != nil {
		r.err = err
	}
	return r, val
}

// Value returns the value at label, ignoring errors
func (r *RunnableSheet) Value(label string) Value {
	val, _ := r.sheet.Get(label)
	return val
}

// Text returns the stored text at label, ignoring errors
func (r *RunnableSheet) Text(label string) string {
	text, _ := r.sheet.Text(label)
	return text
}

// Log prints "label: value" (chainable)
func (r *RunnableSheet) Log(label string) *RunnableSheet {
	val, err := r.sheet.Get(label)
	if err != nil {
		r.printLn(fmt.Sprintf("%s: ERROR: %v", label, err))
		return r
	}
	r.printLn(fmt.Sprintf("%s: %s", label, val))
	return r
}

// PrintValues prints the value grid line by line (chainable)
func (r *RunnableSheet) PrintValues() *RunnableSheet {
	return r.printGrid(r.sheet.PrintValues)
}

// PrintTexts prints the text grid line by line (chainable)
func (r *RunnableSheet) PrintTexts() *RunnableSheet {
	return r.printGrid(r.sheet.PrintTexts)
}

func (r *RunnableSheet) printGrid(print func(w io.Writer) error) *RunnableSheet {
	var buf strings.Builder
	if err := print(&buf); err != nil && r.err == nil {
		r.err = err
		return r
	}
	for _, line := range strings.SplitAfter(buf.String(), "\n") {
		if line != "" {
			r.printLn(strings.TrimSuffix(line, "\n"))
		}
	}
	return r
}

// Error returns the current error state
func (r *RunnableSheet) Error() error {
	return r.err
}

// CheckError logs the current error using printLn (chainable)
func (r *RunnableSheet) CheckError() *RunnableSheet {
	if r.err != nil {
		r.printLn(fmt.Sprintf("ERROR: %v", r.err))
	} else {
		r.printLn("No errors")
	}
	return r
}

// Sheet returns the underlying sheet. use with caution as it bypasses
// error tracking.
func (r *RunnableSheet) Sheet() *Sheet {
	return r.sheet
}

// Reset clears the error state (chainable)
func (r *RunnableSheet) Reset() *RunnableSheet {
	r.err = nil
	return r
}

// Then runs fn unless an error is already recorded (chainable)
func (r *RunnableSheet) Then(fn func(*RunnableSheet) *RunnableSheet) *RunnableSheet {
	if r.err != nil {
		return r
	}
	return fn(r)
}

// OnError lets fn replace or swallow the recorded error (chainable)
func (r *RunnableSheet) OnError(fn func(error) error) *RunnableSheet {
	if r.err != nil {
		r.err = fn(r.err)
	}
	return r
}

// Must panics if an error is recorded (chainable)
func (r *RunnableSheet) Must() *RunnableSheet {
	if r.err != nil {
		panic(r.err)
	}
	return r
}

// If runs fn only when condition holds (chainable)
func (r *RunnableSheet) If(condition bool, fn func(*RunnableSheet) *RunnableSheet) *RunnableSheet {
	if condition {
		return r.Then(fn)
	}
	return r
}

func sortLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		return PositionFromLabel(labels[i]).Less(PositionFromLabel(labels[j]))
	})
}
