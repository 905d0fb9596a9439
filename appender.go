// FILE: appender.go
package rtlog

// Appender is a sink that receives log entries. Implementations own their
// internal buffers; the dispatcher serializes all calls into the appender
// list under a single lock, so Append/Flush/Close are never invoked
// concurrently for appenders registered with a logger.
type Appender interface {
	Append(e Entry) error
	Flush() error
	Close() error
}

// lineTimeLayout renders millisecond wall-clock time for the line prefix
const lineTimeLayout = "15:04:05.000"

// appendLine renders one entry into the shared line grammar:
// [HH:mm:ss.fff] [LEVEL] [category] message
// with the stack trace appended as extra lines when requested.
func appendLine(buf []byte, e Entry, includeStack bool) []byte {
	buf = append(buf, '[')
	buf = e.Time.AppendFormat(buf, lineTimeLayout)
	buf = append(buf, "] ["...)
	buf = append(buf, LevelToString(e.Level)...)
	buf = append(buf, "] ["...)
	buf = append(buf, e.Category...)
	buf = append(buf, "] "...)
	buf = append(buf, e.Message...)
	buf = append(buf, '\n')

	if includeStack && e.Stack != "" {
		buf = append(buf, e.Stack...)
		if e.Stack[len(e.Stack)-1] != '\n' {
			buf = append(buf, '\n')
		}
	}
	return buf
}
