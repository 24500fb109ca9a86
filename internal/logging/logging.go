// Package logging builds the leveled logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "itemdesk",
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// Verbose lowers l to debug when on.
func Verbose(l *log.Logger, on bool) {
	if on {
		l.SetLevel(log.DebugLevel)
	}
}

// Discard is a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ToFile opens path for appending and returns a logfmt logger on it. The TUI
// owns the terminal, so its diagnostics go here.
func ToFile(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	l := New(f, level)
	l.SetFormatter(log.LogfmtFormatter)
	return l, f, nil
}
