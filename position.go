package cellsheet

import "strconv"

// grid limits, matching common spreadsheet applications
const (
	MaxRows = 16384
	MaxCols = 16384
)

// label shape constraints. columns are base-26 with a 1-indexed
// alphabet (A..Z, AA..), rows are 1-based decimal
const (
	letterCount     = 26
	maxLabelLength  = 8
	maxLabelLetters = 3
	maxLabelDigits  = 5
)

// Position is a zero-based (row, column) coordinate in a sheet
type Position struct {
	Row int
	Col int
}

// PositionNone is the sentinel for "no valid position"
var PositionNone = Position{Row: -1, Col: -1}

// IsValid reports whether both coordinates are within the grid limits
func (p Position) IsValid() bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < MaxRows && p.Col < MaxCols
}

// Less orders positions row-major
func (p Position) Less(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// ToLabel renders the position as an "A1" style label. invalid
// positions render as the empty string.
func (p Position) ToLabel() string {
	if !p.IsValid() {
		return ""
	}
	var letters [maxLabelLetters]byte
	i := len(letters)
	for col := p.Col + 1; col > 0; col = (col - 1) / letterCount {
		i--
		letters[i] = byte('A' + (col-1)%letterCount)
	}
	return string(letters[i:]) + strconv.Itoa(p.Row+1)
}

func (p Position) String() string {
	return p.ToLabel()
}

// PositionFromLabel parses an "A1" style label. anything that is not an
// uppercase letter run followed by a digit run, or that falls outside
// the grid, yields PositionNone. zeros leading the row are allowed, so
// "A01" is A1.
func PositionFromLabel(label string) Position {
	if len(label) == 0 || len(label) > maxLabelLength {
		return PositionNone
	}

	letters := 0
	for letters < len(label) && isUpperLetter(label[letters]) {
		letters++
	}
	digits := len(label) - letters
	if letters == 0 || letters > maxLabelLetters || digits == 0 || digits > maxLabelDigits {
		return PositionNone
	}
	col := 0
	for i := 0; i < letters; i++ {
		col = col*letterCount + int(label[i]-'A') + 1
	}
	row := 0
	for i := letters; i < len(label); i++ {
		ch := label[i]
		if ch < '0' || ch > '9' {
			return PositionNone
		}
		row = row*10 + int(ch-'0')
	}

	pos := Position{Row: row - 1, Col: col - 1}
	if !pos.IsValid() {
		return PositionNone
	}
	return pos
}

func isUpperLetter(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

// Size is the printable bounding box of a sheet, anchored at A1
type Size struct {
	Rows int
	Cols int
}

// IsEmpty reports whether the box covers no cells
func (s Size) IsEmpty() bool {
	return s.Rows == 0 || s.Cols == 0
}
