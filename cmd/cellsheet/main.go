package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/polydawn/go-errcat"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/vogtb/go-cellsheet"
)

// CLI error categories, alongside the sheet's own
const (
	ErrUsage  = cellsheet.ErrorCategory("cellsheet-usage")
	ErrIO     = cellsheet.ErrorCategory("cellsheet-io")
	ErrConfig = cellsheet.ErrorCategory("cellsheet-config")
)

func main() {
	ctx := context.Background()
	bhv := Main(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	err := bhv.action()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}
	os.Exit(ExitCodeForError(err))
}

// ExitCodeForError maps an error category to the process exit code
func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	switch errcat.Category(err) {
	case ErrUsage:
		return 2
	case cellsheet.ErrInvalidPosition, cellsheet.ErrFormulaConstruction, cellsheet.ErrCircularDependency:
		return 3
	case ErrIO, ErrConfig:
		return 4
	default:
		return 1
	}
}

// Holder type which makes it easier for us to inspect
// the args parser result in test code before running logic.
type behavior struct {
	parsedArgs interface{}
	action     func() error
}

func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) behavior {
	app := kingpin.New("cellsheet", "Evaluate spreadsheet scripts.")
	app.HelpFlag.Short('h')
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	// flags left empty fall through to the environment, then the config file
	baseArgs := struct {
		ConfigPath string
		Overrides  Config
	}{}
	app.Flag("config", "Path to a YAML config file.").
		StringVar(&baseArgs.ConfigPath)
	app.Flag("tokenizer", "Formula tokenizer.").
		EnumVar(&baseArgs.Overrides.Tokenizer, tokenizerNative, tokenizerExcel)
	app.Flag("format", "Output format.").
		EnumVar(&baseArgs.Overrides.Format, formatTSV, formatTable, formatJSON)
	app.Flag("show", "What a bare print shows.").
		EnumVar(&baseArgs.Overrides.Show, showValues, showTexts, showBoth)
	app.Flag("log-level", "Log level written to stderr.").
		StringVar(&baseArgs.Overrides.LogLevel)
	app.Flag("encoding", "Character set of the script input.").
		StringVar(&baseArgs.Overrides.Encoding)

	loadConfig := func() (Config, error) {
		return LoadConfig(baseArgs.ConfigPath, os.Getenv, baseArgs.Overrides)
	}

	bhvs := map[string]behavior{}
	{
		cmdRun := app.Command("run", "Execute a script of sheet commands.")
		argsRun := struct {
			ScriptPath string
		}{}
		cmdRun.Arg("script", "Path to the script; stdin when omitted or -.").
			Default("-").
			StringVar(&argsRun.ScriptPath)
		bhvs[cmdRun.FullCommand()] = behavior{&argsRun, func() error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return RunCmd(ctx, cfg, argsRun.ScriptPath, stdin, stdout, stderr)
		}}
	}
	{
		cmdEval := app.Command("eval", "Parse, render and evaluate one formula against an empty sheet.")
		argsEval := struct {
			Formula string
		}{}
		cmdEval.Arg("formula", "Formula text, with or without the leading '='.").
			Required().
			StringVar(&argsEval.Formula)
		bhvs[cmdEval.FullCommand()] = behavior{&argsEval, func() error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return EvalCmd(cfg, argsEval.Formula, stdout)
		}}
	}
	{
		cmdLabel := app.Command("label", "Print the label of a zero-based row and column.")
		argsLabel := struct {
			Row int
			Col int
		}{}
		cmdLabel.Arg("row", "Zero-based row.").Required().IntVar(&argsLabel.Row)
		cmdLabel.Arg("col", "Zero-based column.").Required().IntVar(&argsLabel.Col)
		bhvs[cmdLabel.FullCommand()] = behavior{&argsLabel, func() error {
			pos := cellsheet.Position{Row: argsLabel.Row, Col: argsLabel.Col}
			if !pos.IsValid() {
				return errcat.Errorf(cellsheet.ErrInvalidPosition, "no label for row %d, col %d", pos.Row, pos.Col)
			}
			_, err := fmt.Fprintln(stdout, pos.ToLabel())
			return ioError(err)
		}}
	}
	{
		cmdPosition := app.Command("position", "Print the zero-based row and column of a label.")
		argsPosition := struct {
			Label string
		}{}
		cmdPosition.Arg("label", "Cell label, e.g. B12.").Required().StringVar(&argsPosition.Label)
		bhvs[cmdPosition.FullCommand()] = behavior{&argsPosition, func() error {
			pos := cellsheet.PositionFromLabel(strings.TrimSpace(argsPosition.Label))
			if !pos.IsValid() {
				return errcat.Errorf(cellsheet.ErrInvalidPosition, "invalid cell label %q", argsPosition.Label)
			}
			_, err := fmt.Fprintf(stdout, "%d\t%d\n", pos.Row, pos.Col)
			return ioError(err)
		}}
	}

	parsedCmdStr, err := app.Parse(args[1:])
	if err != nil {
		return behavior{
			parsedArgs: err,
			action: func() error {
				return errcat.Errorf(ErrUsage, "error parsing args: %s", err)
			},
		}
	}
	if bhv, ok := bhvs[parsedCmdStr]; ok {
		return bhv
	}
	panic("unreachable, cli parser must error on unknown commands")
}

func ioError(err error) error {
	if err == nil {
		return nil
	}
	return errcat.Errorf(ErrIO, "%s", err)
}
