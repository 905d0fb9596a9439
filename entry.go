// FILE: entry.go
package rtlog

import (
	"time"
)

// Entry is a single immutable log record. It is built by the dispatcher
// after level filtering and redaction, copied into the async queue, and
// owned by the writer goroutine while it is formatted and written.
type Entry struct {
	Level    int64
	Time     time.Time
	Message  string
	Category string
	Stack    string // captured only for Warn and above when enabled
	GID      int64  // goroutine id of the caller
}

// UnixMilli returns the entry timestamp as milliseconds since the Unix epoch
func (e Entry) UnixMilli() int64 {
	return e.Time.UnixMilli()
}
