package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{in: "debug", want: log.DebugLevel},
		{in: " WARN ", want: log.WarnLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "chatty", want: log.InfoLevel},
		{in: "", want: log.InfoLevel},
	}
	for _, tt := range tests {
		if got := New(&bytes.Buffer{}, tt.in).GetLevel(); got != tt.want {
			t.Errorf("New(%q) level = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")
	l.Debug("hidden")
	Verbose(l, true)
	l.Debug("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "itemdesk.log")
	l, c, err := ToFile(path, "info")
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	l.Error("fetch items failed", "err", "boom")
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "fetch items failed") || !strings.Contains(string(b), "err=boom") {
		t.Errorf("log file content = %q", b)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
