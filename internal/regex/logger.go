package regex

import (
	"fmt"
	"io"
	"os"
)

// Logger prints compilation stages when verbose mode is on. A nil *Logger is
// silent.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger creates a logger writing to out, or to stderr when out is nil.
func NewLogger(enabled bool, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{enabled: enabled, out: out}
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...any) {
	if l.Enabled() {
		fmt.Fprintf(l.out, "[regexdfa] "+format+"\n", args...)
	}
}

func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}
