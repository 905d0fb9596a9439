// FILE: emergency.go
package rtlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// emergencyPath is a fixed relative path, deliberately independent of the
// configured log directory so it stays reachable when the main pipeline is
// misconfigured or failing.
const emergencyPath = "rtlog_emergency.log"

// emergencyMu is process-wide: the emergency file is shared by every logger
// instance in the process.
var emergencyMu sync.Mutex

// emergencyWrite appends one line to the emergency file. Best effort only:
// every failure, including panics, is swallowed so the emergency channel can
// never escalate a fault it was invoked to report.
func emergencyWrite(format string, args ...any) {
	defer func() {
		_ = recover()
	}()

	emergencyMu.Lock()
	defer emergencyMu.Unlock()

	f, err := os.OpenFile(emergencyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = fmt.Fprintf(f, "%s rtlog: %s\n",
		time.Now().Format(time.RFC3339Nano), fmt.Sprintf(format, args...))
}

// emergencyEntry writes a severe entry that arrived while the main pipeline
// was unavailable (uninitialized config or post-shutdown).
func emergencyEntry(level int64, message, category string) {
	emergencyWrite("[%s] [%s] %s", LevelToString(level), category, message)
}

// internalLog reports an internal fault to the emergency file and, when
// configured, mirrors it to stderr for environments where the emergency
// file is inconvenient to collect.
func internalLog(toStderr bool, format string, args ...any) {
	if toStderr {
		_, _ = fmt.Fprintf(os.Stderr, "rtlog: "+format+"\n", args...)
	}
	emergencyWrite(format, args...)
}
