// FILE: console.go
package rtlog

import (
	"io"
	"os"
)

// ConsoleAppender writes preformatted lines to stdout or stderr. Debug/Info,
// Warn, and Error/Fatal share the same writer; the severity band is carried
// by the level token in the line itself. Stack traces are always included
// when present.
type ConsoleAppender struct {
	w   io.Writer
	buf []byte // reusable, guarded by the dispatcher's appender lock
}

// NewConsoleAppender creates a console sink for the given target
// ("stderr" selects stderr, anything else stdout).
func NewConsoleAppender(target string) *ConsoleAppender {
	var w io.Writer
	if target == "stderr" {
		w = os.Stderr
	} else {
		w = os.Stdout
	}
	return &ConsoleAppender{
		w:   w,
		buf: make([]byte, 0, 256),
	}
}

// Append writes one formatted line
func (a *ConsoleAppender) Append(e Entry) error {
	a.buf = appendLine(a.buf[:0], e, true)
	_, err := a.w.Write(a.buf)
	return err
}

// Flush is a no-op; console writes are unbuffered
func (a *ConsoleAppender) Flush() error {
	return nil
}

// Close redirects further writes to io.Discard so a disposed sink can never
// interleave with a successor writing to the same stream.
func (a *ConsoleAppender) Close() error {
	a.w = io.Discard
	return nil
}
