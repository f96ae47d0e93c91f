package cellsheet

import (
	"fmt"
	"io"
	"sort"

	"github.com/inconshreveable/log15"
	"github.com/polydawn/go-errcat"
)

// SheetInterface is the editing and reading surface of a sheet
type SheetInterface interface {
	SetCell(pos Position, text string) error
	GetCell(pos Position) (*Cell, error)
	ClearCell(pos Position) error
	GetPrintableSize() Size
	PrintValues(w io.Writer) error
	PrintTexts(w io.Writer) error
}

var _ SheetInterface = (*Sheet)(nil)

// Sheet owns every cell, keyed by position, and tracks the printable
// bounding box. it is not safe for concurrent use.
type Sheet struct {
	cells     map[Position]*Cell
	rowCounts map[int]int // occupied cells per row
	colCounts map[int]int // occupied cells per column
	size      Size

	// dependents of cleared positions, handed back when the position is
	// occupied again
	detached map[Position]map[Position]struct{}

	tokenizer Tokenizer
	log       log15.Logger
}

// Option configures a Sheet
type Option func(*Sheet)

func WithLogger(log log15.Logger) Option {
	return func(s *Sheet) {
		s.log = log
	}
}

func WithTokenizer(tokenizer Tokenizer) Option {
	return func(s *Sheet) {
		s.tokenizer = tokenizer
	}
}

func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		cells:     make(map[Position]*Cell),
		rowCounts: make(map[int]int),
		colCounts: make(map[int]int),
		detached:  make(map[Position]map[Position]struct{}),
		tokenizer: NativeTokenizer{},
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func invalidPosition(pos Position) error {
	return errcat.Errorf(ErrInvalidPosition, "invalid position (row %d, col %d)", pos.Row, pos.Col)
}

// SetCell classifies text, rejects the edit if it fails to parse or would
// close a reference cycle, and otherwise replaces whatever was at pos.
// a rejected edit changes nothing.
func (s *Sheet) SetCell(pos Position, text string) (err error) {
	defer errcat.RequireErrorHasCategory(&err, ErrorCategory(""))

	if !pos.IsValid() {
		s.log.Warn("rejected edit", "reason", "invalid position", "row", pos.Row, "col", pos.Col)
		return invalidPosition(pos)
	}

	content, err := NewContent(text, s.tokenizer)
	if err != nil {
		s.log.Warn("rejected edit", "pos", pos, "reason", "formula construction", "err", err)
		return err
	}

	plan, err := s.planEdit(pos, content.ReferencedCells())
	if err != nil {
		s.log.Warn("rejected edit", "pos", pos, "reason", "circular dependency", "err", err)
		return err
	}

	cell := newCell(s, pos, content)
	cleared := 0
	if old, ok := s.cells[pos]; ok {
		cleared += old.invalidate()
		cleared += old.invalidateDependents()
		s.unwire(pos, old.ReferencedCells())
		cell.dependents = old.dependents
	} else {
		s.adoptDetached(cell)
		cleared += cell.invalidateDependents()
	}

	s.install(cell)
	s.applyPlan(plan)

	s.log.Debug("set cell", "pos", pos, "kind", content.Kind(), "references", len(plan.edges), "invalidated", cleared)
	return nil
}

// GetCell returns the cell at pos, or nil if the position is unoccupied
func (s *Sheet) GetCell(pos Position) (*Cell, error) {
	if !pos.IsValid() {
		return nil, invalidPosition(pos)
	}
	return s.cells[pos], nil
}

// LookupCell is GetCell for positions already known to be valid
func (s *Sheet) LookupCell(pos Position) (*Cell, bool) {
	cell, ok := s.cells[pos]
	return cell, ok
}

// ClearCell removes the cell at pos, if any, and shrinks the printable
// area. caches that were computed from the cleared cell are dropped.
func (s *Sheet) ClearCell(pos Position) (err error) {
	defer errcat.RequireErrorHasCategory(&err, ErrorCategory(""))

	if !pos.IsValid() {
		s.log.Warn("rejected clear", "reason", "invalid position", "row", pos.Row, "col", pos.Col)
		return invalidPosition(pos)
	}

	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}

	cleared := cell.invalidate()
	cleared += cell.invalidateDependents()
	s.unwire(pos, cell.ReferencedCells())
	if len(cell.dependents) > 0 {
		s.detached[pos] = cell.dependents
	}
	s.uninstall(pos)

	s.log.Debug("cleared cell", "pos", pos, "invalidated", cleared, "size", fmt.Sprintf("%dx%d", s.size.Rows, s.size.Cols))
	return nil
}

// GetPrintableSize returns the smallest box anchored at A1 that covers
// every cell
func (s *Sheet) GetPrintableSize() Size {
	return s.size
}

// Len is the number of occupied cells
func (s *Sheet) Len() int {
	return len(s.cells)
}

// Positions returns every occupied position in row-major order
func (s *Sheet) Positions() []Position {
	result := make([]Position, 0, len(s.cells))
	for pos := range s.cells {
		result = append(result, pos)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

func (s *Sheet) install(cell *Cell) {
	pos := cell.pos
	if _, exists := s.cells[pos]; !exists {
		s.rowCounts[pos.Row]++
		s.colCounts[pos.Col]++
	}
	s.cells[pos] = cell

	if pos.Row+1 > s.size.Rows {
		s.size.Rows = pos.Row + 1
	}
	if pos.Col+1 > s.size.Cols {
		s.size.Cols = pos.Col + 1
	}
}

func (s *Sheet) uninstall(pos Position) {
	delete(s.cells, pos)
	decrement(s.rowCounts, pos.Row)
	decrement(s.colCounts, pos.Col)

	if len(s.cells) == 0 {
		s.size = Size{}
		return
	}
	// trim empty trailing rows and columns
	for s.size.Rows > 0 && s.rowCounts[s.size.Rows-1] == 0 {
		s.size.Rows--
	}
	for s.size.Cols > 0 && s.colCounts[s.size.Cols-1] == 0 {
		s.size.Cols--
	}
}

func decrement(counts map[int]int, key int) {
	counts[key]--
	if counts[key] <= 0 {
		delete(counts, key)
	}
}

// label-addressed helpers

func (s *Sheet) resolveLabel(label string) (Position, error) {
	pos := PositionFromLabel(label)
	if !pos.IsValid() {
		return PositionNone, errcat.Errorf(ErrInvalidPosition, "invalid cell label %q", label)
	}
	return pos, nil
}

// Set is SetCell addressed by label, e.g. Set("B2", "=A1+1")
func (s *Sheet) Set(label string, text string) error {
	pos, err := s.resolveLabel(label)
	if err != nil {
		return err
	}
	return s.SetCell(pos, text)
}

// Get returns the value at label. unoccupied cells read as empty text.
func (s *Sheet) Get(label string) (Value, error) {
	pos, err := s.resolveLabel(label)
	if err != nil {
		return Value{}, err
	}
	cell, ok := s.cells[pos]
	if !ok {
		return Value{}, nil
	}
	return cell.Value(), nil
}

// Text returns the stored text at label, or "" if unoccupied
func (s *Sheet) Text(label string) (string, error) {
	pos, err := s.resolveLabel(label)
	if err != nil {
		return "", err
	}
	cell, ok := s.cells[pos]
	if !ok {
		return "", nil
	}
	return cell.Text(), nil
}

// Remove is ClearCell addressed by label
func (s *Sheet) Remove(label string) error {
	pos, err := s.resolveLabel(label)
	if err != nil {
		return err
	}
	return s.ClearCell(pos)
}
