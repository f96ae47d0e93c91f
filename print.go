package cellsheet

import (
	"bufio"
	"io"
)

// PrintValues writes the printable area row by row: tab-separated
// fields, one line per row, empty fields for unoccupied positions.
// an empty sheet writes nothing.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printCells(w, func(cell *Cell) string {
		return cell.Value().String()
	})
}

// PrintTexts is PrintValues for the stored text of each cell
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printCells(w, func(cell *Cell) string {
		return cell.Text()
	})
}

// Rows renders the printable area as a grid of strings, one slice per
// row, using render for occupied positions
func (s *Sheet) Rows(render func(cell *Cell) string) [][]string {
	rows := make([][]string, s.size.Rows)
	for r := range rows {
		row := make([]string, s.size.Cols)
		for c := range row {
			if cell, ok := s.cells[Position{Row: r, Col: c}]; ok {
				row[c] = render(cell)
			}
		}
		rows[r] = row
	}
	return rows
}

func (s *Sheet) printCells(w io.Writer, render func(cell *Cell) string) error {
	out := bufio.NewWriter(w)
	for r := 0; r < s.size.Rows; r++ {
		for c := 0; c < s.size.Cols; c++ {
			if c > 0 {
				out.WriteByte('\t')
			}
			if cell, ok := s.cells[Position{Row: r, Col: c}]; ok {
				out.WriteString(render(cell))
			}
		}
		out.WriteByte('\n')
	}
	return out.Flush()
}
