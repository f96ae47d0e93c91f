package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/inconshreveable/log15"
	"github.com/polydawn/go-errcat"

	"github.com/vogtb/go-cellsheet"
)

// scriptRunner executes sheet commands, one per line:
//
//	set LABEL [text...]
//	clear LABEL
//	get LABEL
//	deps LABEL
//	print [values|texts|both]
//	size
//
// blank lines and lines starting with '#' are skipped.
type scriptRunner struct {
	sheet   *cellsheet.Sheet
	printer printer
	show    string
	log     log15.Logger
}

func (r *scriptRunner) run(ctx context.Context, input io.Reader) error {
	scanner := bufio.NewScanner(input)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			return errcat.Errorf(ErrIO, "script interrupted at line %d: %s", lineNum, err)
		}
		// trailing space belongs to the text of a set
		line := strings.TrimLeftFunc(scanner.Text(), unicode.IsSpace)
		if line == "" || line[0] == '#' {
			continue
		}
		if err := r.exec(line); err != nil {
			return errcat.Errorf(errcat.Category(err), "line %d: %s", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errcat.Errorf(ErrIO, "reading script: %s", err)
	}
	return nil
}

func (r *scriptRunner) exec(line string) error {
	verb, rest := cutWord(line)
	if verb != "set" {
		rest = strings.TrimRightFunc(rest, unicode.IsSpace)
	}
	switch verb {
	case "set":
		label, text := cutWord(rest)
		if label == "" {
			return errcat.Errorf(ErrUsage, "set needs a label")
		}
		return r.sheet.Set(label, text)
	case "clear":
		pos, err := r.singleLabel(verb, rest)
		if err != nil {
			return err
		}
		return r.sheet.ClearCell(pos)
	case "get":
		pos, err := r.singleLabel(verb, rest)
		if err != nil {
			return err
		}
		cell, _ := r.sheet.GetCell(pos)
		return r.printer.printCell(pos, cell)
	case "deps":
		pos, err := r.singleLabel(verb, rest)
		if err != nil {
			return err
		}
		return r.printer.printDependents(pos, r.sheet.AllDependents(pos))
	case "print":
		show := r.show
		if rest != "" {
			show = rest
		}
		switch show {
		case showValues, showTexts, showBoth:
			return r.printer.printGrid(r.sheet, show)
		default:
			return errcat.Errorf(ErrUsage, "print takes values, texts or both, not %q", show)
		}
	case "size":
		if rest != "" {
			return errcat.Errorf(ErrUsage, "size takes no arguments")
		}
		return r.printer.printSize(r.sheet.GetPrintableSize())
	default:
		return errcat.Errorf(ErrUsage, "unknown command %q", verb)
	}
}

func (r *scriptRunner) singleLabel(verb, args string) (cellsheet.Position, error) {
	label, extra := cutWord(args)
	if label == "" || extra != "" {
		return cellsheet.PositionNone, errcat.Errorf(ErrUsage, "%s takes exactly one label", verb)
	}
	pos := cellsheet.PositionFromLabel(label)
	if !pos.IsValid() {
		return cellsheet.PositionNone, errcat.Errorf(cellsheet.ErrInvalidPosition, "invalid cell label %q", label)
	}
	return pos, nil
}

// cutWord splits off the first whitespace-delimited word. the remainder
// keeps its inner spacing but loses the separating run.
func cutWord(s string) (word, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}
