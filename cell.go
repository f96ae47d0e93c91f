package cellsheet

import "sort"

// Cell is one occupied slot of a sheet. it owns its content and a
// memoized value, and knows which positions depend on it. dependents
// are positions, resolved through the sheet on every walk.
type Cell struct {
	sheet      *Sheet
	pos        Position
	content    CellContent
	cache      *Value
	dependents map[Position]struct{}
}

func newCell(sheet *Sheet, pos Position, content CellContent) *Cell {
	return &Cell{
		sheet:      sheet,
		pos:        pos,
		content:    content,
		dependents: make(map[Position]struct{}),
	}
}

func (c *Cell) Position() Position {
	return c.pos
}

func (c *Cell) Kind() ContentKind {
	return c.content.Kind()
}

func (c *Cell) Content() CellContent {
	return c.content
}

// Value returns the memoized value, evaluating the content on a miss
func (c *Cell) Value() Value {
	if c.cache != nil {
		return *c.cache
	}
	value := c.content.Value(c.sheet)
	c.cache = &value
	return value
}

// Text is the stored text exactly as it would be re-entered. it is
// never cached.
func (c *Cell) Text() string {
	return c.content.Text()
}

func (c *Cell) ReferencedCells() []Position {
	return c.content.ReferencedCells()
}

// RegisterDependent records that the cell at pos references this cell
func (c *Cell) RegisterDependent(pos Position) {
	c.dependents[pos] = struct{}{}
}

// Dependents returns the direct dependents in row-major order
func (c *Cell) Dependents() []Position {
	result := make([]Position, 0, len(c.dependents))
	for pos := range c.dependents {
		result = append(result, pos)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

// HasCache reports whether a memoized value is present
func (c *Cell) HasCache() bool {
	return c.cache != nil
}

// InvalidateCache drops the memoized value of this cell and of every
// transitive dependent. a cell without a cache stops the walk there.
func (c *Cell) InvalidateCache() {
	c.invalidate()
}

// invalidate is InvalidateCache with a count of the cleared caches
func (c *Cell) invalidate() int {
	if c.cache == nil {
		return 0
	}
	cleared := 0
	stack := []*Cell{c}
	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cell.cache == nil {
			continue
		}
		cell.cache = nil
		cleared++
		for pos := range cell.dependents {
			if dep, ok := cell.sheet.LookupCell(pos); ok && dep.cache != nil {
				stack = append(stack, dep)
			}
		}
	}
	return cleared
}

// invalidateDependents clears every dependent's cache, whether or not
// this cell holds one itself. an empty cell read by a formula is never
// cached, so its own cache says nothing about its dependents.
func (c *Cell) invalidateDependents() int {
	cleared := 0
	for pos := range c.dependents {
		if dep, ok := c.sheet.LookupCell(pos); ok {
			cleared += dep.invalidate()
		}
	}
	return cleared
}

// numericValue is how a formula sees this cell through a reference
func (c *Cell) numericValue() (float64, error) {
	switch c.content.Kind() {
	case ContentEmpty:
		return 0, nil
	case ContentText:
		number, ok := parseNumericText(c.Value().Text)
		if !ok {
			return 0, NewFormulaError(ErrorCodeValue)
		}
		return number, nil
	default:
		value := c.Value()
		if !value.IsNumber() {
			return 0, NewFormulaError(ErrorCodeValue)
		}
		return value.Number, nil
	}
}
