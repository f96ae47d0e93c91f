package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ugorji/go/codec"

	"github.com/vogtb/go-cellsheet"
)

type printer interface {
	printGrid(sheet *cellsheet.Sheet, show string) error
	printSize(size cellsheet.Size) error
	printCell(pos cellsheet.Position, cell *cellsheet.Cell) error
	printDependents(pos cellsheet.Position, dependents []cellsheet.Position) error
}

var (
	_ printer = tsvPrinter{}
	_ printer = tablePrinter{}
	_ printer = jsonPrinter{}
)

func setupPrinter(format string, stdout io.Writer) printer {
	switch format {
	case formatTSV:
		return tsvPrinter{stdout: stdout}
	case formatTable:
		return tablePrinter{stdout: stdout}
	case formatJSON:
		return jsonPrinter{stdout: stdout}
	default:
		panic("unreachable, config validation must reject unknown formats")
	}
}

func labels(positions []cellsheet.Position) []string {
	result := make([]string, len(positions))
	for i, pos := range positions {
		result[i] = pos.ToLabel()
	}
	return result
}

// cellFields is the text, value and kind of a cell; an unoccupied
// position reads as empty
func cellFields(cell *cellsheet.Cell) (text, value, kind string) {
	if cell == nil {
		return "", "", cellsheet.ContentEmpty.String()
	}
	return cell.Text(), cell.Value().String(), cell.Kind().String()
}

// tsv is exactly the sheet's own tab-separated print.
type tsvPrinter struct{ stdout io.Writer }

func (p tsvPrinter) printGrid(sheet *cellsheet.Sheet, show string) error {
	if show != showTexts {
		if err := sheet.PrintValues(p.stdout); err != nil {
			return ioError(err)
		}
	}
	if show != showValues {
		if err := sheet.PrintTexts(p.stdout); err != nil {
			return ioError(err)
		}
	}
	return nil
}

func (p tsvPrinter) printSize(size cellsheet.Size) error {
	_, err := fmt.Fprintf(p.stdout, "%d\t%d\n", size.Rows, size.Cols)
	return ioError(err)
}

func (p tsvPrinter) printCell(pos cellsheet.Position, cell *cellsheet.Cell) error {
	text, value, _ := cellFields(cell)
	_, err := fmt.Fprintf(p.stdout, "%s\t%s\t%s\n", pos.ToLabel(), text, value)
	return ioError(err)
}

func (p tsvPrinter) printDependents(pos cellsheet.Position, dependents []cellsheet.Position) error {
	_, err := fmt.Fprintf(p.stdout, "%s\t%s\n", pos.ToLabel(), strings.Join(labels(dependents), " "))
	return ioError(err)
}

// table draws bordered grids with column letters and row numbers.
type tablePrinter struct{ stdout io.Writer }

func (p tablePrinter) newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.stdout)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func (p tablePrinter) printGrid(sheet *cellsheet.Sheet, show string) error {
	size := sheet.GetPrintableSize()
	header := make([]string, size.Cols+1)
	for col := 0; col < size.Cols; col++ {
		// the column letters of row 0's label
		header[col+1] = strings.TrimSuffix(cellsheet.Position{Row: 0, Col: col}.ToLabel(), "1")
	}

	renders := []func(*cellsheet.Cell) string{}
	if show != showTexts {
		renders = append(renders, func(cell *cellsheet.Cell) string { return cell.Value().String() })
	}
	if show != showValues {
		renders = append(renders, (*cellsheet.Cell).Text)
	}
	for _, render := range renders {
		table := p.newTable(header)
		for r, row := range sheet.Rows(render) {
			table.Append(append([]string{strconv.Itoa(r + 1)}, row...))
		}
		table.Render()
	}
	return nil
}

func (p tablePrinter) printSize(size cellsheet.Size) error {
	table := p.newTable([]string{"rows", "cols"})
	table.Append([]string{strconv.Itoa(size.Rows), strconv.Itoa(size.Cols)})
	table.Render()
	return nil
}

func (p tablePrinter) printCell(pos cellsheet.Position, cell *cellsheet.Cell) error {
	text, value, kind := cellFields(cell)
	table := p.newTable([]string{"cell", "kind", "text", "value"})
	table.Append([]string{pos.ToLabel(), kind, text, value})
	table.Render()
	return nil
}

func (p tablePrinter) printDependents(pos cellsheet.Position, dependents []cellsheet.Position) error {
	table := p.newTable([]string{pos.ToLabel() + " dependents"})
	for _, label := range labels(dependents) {
		table.Append([]string{label})
	}
	table.Render()
	return nil
}

// json emits one document per command, one per line.
type jsonPrinter struct{ stdout io.Writer }

type jsonSize struct {
	Rows int `codec:"rows"`
	Cols int `codec:"cols"`
}

type jsonCell struct {
	Label string `codec:"label"`
	Kind  string `codec:"kind"`
	Text  string `codec:"text"`
	Value string `codec:"value"`
}

type jsonSnapshot struct {
	Size  jsonSize   `codec:"size"`
	Cells []jsonCell `codec:"cells"`
}

type jsonDependents struct {
	Label      string   `codec:"label"`
	Dependents []string `codec:"dependents"`
}

func (p jsonPrinter) emit(doc interface{}) error {
	if err := codec.NewEncoder(p.stdout, &codec.JsonHandle{}).Encode(doc); err != nil {
		return ioError(err)
	}
	_, err := p.stdout.Write([]byte{'\n'})
	return ioError(err)
}

func (p jsonPrinter) jsonCell(pos cellsheet.Position, cell *cellsheet.Cell) jsonCell {
	text, value, kind := cellFields(cell)
	return jsonCell{Label: pos.ToLabel(), Kind: kind, Text: text, Value: value}
}

// printGrid writes a snapshot of every occupied cell; show does not
// apply since each entry carries both text and value
func (p jsonPrinter) printGrid(sheet *cellsheet.Sheet, show string) error {
	size := sheet.GetPrintableSize()
	snapshot := jsonSnapshot{
		Size:  jsonSize{Rows: size.Rows, Cols: size.Cols},
		Cells: []jsonCell{},
	}
	for _, pos := range sheet.Positions() {
		cell, _ := sheet.GetCell(pos)
		snapshot.Cells = append(snapshot.Cells, p.jsonCell(pos, cell))
	}
	return p.emit(snapshot)
}

func (p jsonPrinter) printSize(size cellsheet.Size) error {
	return p.emit(jsonSize{Rows: size.Rows, Cols: size.Cols})
}

func (p jsonPrinter) printCell(pos cellsheet.Position, cell *cellsheet.Cell) error {
	return p.emit(p.jsonCell(pos, cell))
}

func (p jsonPrinter) printDependents(pos cellsheet.Position, dependents []cellsheet.Position) error {
	return p.emit(jsonDependents{Label: pos.ToLabel(), Dependents: labels(dependents)})
}
