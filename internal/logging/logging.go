// Package logging builds the structured logger handed to every component.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

const Prefix = "blinkdo"

// New logs to w at level; an unknown level means info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          Prefix,
	})
}
