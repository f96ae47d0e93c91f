package cellsheet

import (
	"io"

	"github.com/inconshreveable/log15"
)

// discardLogger is the default: sheets are silent unless given a logger
func discardLogger() log15.Logger {
	log := log15.New()
	log.SetHandler(log15.DiscardHandler())
	return log
}

// NewTerminalLogger writes human-readable log lines at or above lvl to w
func NewTerminalLogger(w io.Writer, lvl log15.Lvl, ctx ...interface{}) log15.Logger {
	log := log15.New(ctx...)
	log.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, log15.TerminalFormat())))
	return log
}
