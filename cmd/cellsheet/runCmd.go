package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/polydawn/go-errcat"
	"golang.org/x/text/transform"

	"github.com/vogtb/go-cellsheet"
)

func RunCmd(
	ctx context.Context,
	cfg Config,
	scriptPath string,
	stdin io.Reader,
	stdout, stderr io.Writer,
) (err error) {
	defer errcat.RequireErrorHasCategory(&err, cellsheet.ErrorCategory(""))

	lvl, err := cfg.logLevel()
	if err != nil {
		return err
	}
	log := cellsheet.NewTerminalLogger(stderr, lvl, "session", uuid.New().String())

	var input io.Reader = stdin
	if scriptPath != "-" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return errcat.Errorf(ErrIO, "cannot open script: %s", err)
		}
		defer f.Close()
		input = f
	}
	input, err = decodeInput(input, cfg.Encoding)
	if err != nil {
		return err
	}

	sheet := cellsheet.NewSheet(
		cellsheet.WithLogger(log),
		cellsheet.WithTokenizer(cfg.tokenizer()),
	)
	log.Info("running script", "script", scriptPath, "tokenizer", cfg.Tokenizer, "format", cfg.Format)
	runner := &scriptRunner{
		sheet:   sheet,
		printer: setupPrinter(cfg.Format, stdout),
		show:    cfg.Show,
		log:     log,
	}
	if err := runner.run(ctx, input); err != nil {
		log.Error("script failed", "err", err)
		return err
	}
	log.Info("script done", "cells", sheet.Len(), "size", fmt.Sprintf("%dx%d", sheet.GetPrintableSize().Rows, sheet.GetPrintableSize().Cols))
	return nil
}

func EvalCmd(cfg Config, expression string, stdout io.Writer) error {
	expression = strings.TrimPrefix(expression, string(cellsheet.FormulaSign))
	formula, err := cellsheet.ParseFormulaWith(cfg.tokenizer(), expression)
	if err != nil {
		return err
	}
	value := formula.Evaluate(cellsheet.NewSheet())
	_, err = fmt.Fprintf(stdout, "=%s\n%s\n", formula.Expression(), value)
	return ioError(err)
}

// decodeInput converts input in the named IANA charset to UTF-8. an
// empty name means the input is already UTF-8.
func decodeInput(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		return r, nil
	}
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
