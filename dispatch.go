// FILE: dispatch.go
package rtlog

import (
	"strings"
	"time"

	"github.com/halcyondev/rtlog/format"
)

// Debug logs a debug message. An optional category overrides General.
func (l *Logger) Debug(message string, category ...string) {
	l.log(LevelDebug, message, pickCategory(category))
}

// Info logs an informational message
func (l *Logger) Info(message string, category ...string) {
	l.log(LevelInfo, message, pickCategory(category))
}

// Warn logs a warning message
func (l *Logger) Warn(message string, category ...string) {
	l.log(LevelWarn, message, pickCategory(category))
}

// Error logs an error message
func (l *Logger) Error(message string, category ...string) {
	l.log(LevelError, message, pickCategory(category))
}

// Fatal logs a fatal message. The logger does not exit the process; that
// decision belongs to the caller.
func (l *Logger) Fatal(message string, category ...string) {
	l.log(LevelFatal, message, pickCategory(category))
}

// Critical logs a message in the Critical category, which bypasses the
// severity threshold entirely.
func (l *Logger) Critical(message string) {
	l.log(LevelInfo, message, CategoryCritical)
}

// Log logs a message at an arbitrary severity
func (l *Logger) Log(level int64, message string, category ...string) {
	l.log(level, message, pickCategory(category))
}

// LogLazy defers message construction until after filtering: produce is not
// invoked when the entry would be discarded by the severity threshold.
func (l *Logger) LogLazy(level int64, produce func() string, category ...string) {
	if produce == nil {
		return
	}
	cat := pickCategory(category)
	cfg, decision := l.decide(level, cat)
	switch decision {
	case dispatchDrop:
		return
	case dispatchEmergency:
		emergencyEntry(level, produce(), cat)
		return
	}
	l.emit(cfg, level, produce(), cat)
}

// Logf logs a message built from a positional template ("{0}", "{1}", ...),
// formatting only after the entry passes filtering.
func (l *Logger) Logf(level int64, template string, args ...any) {
	cfg, decision := l.decide(level, CategoryGeneral)
	switch decision {
	case dispatchDrop:
		return
	case dispatchEmergency:
		emergencyEntry(level, format.Format(template, args...), CategoryGeneral)
		return
	}
	l.emit(cfg, level, format.Format(template, args...), CategoryGeneral)
}

type dispatchDecision int

const (
	dispatchDrop dispatchDecision = iota
	dispatchEmit
	dispatchEmergency
)

// pickCategory normalizes the optional trailing category argument
func pickCategory(category []string) string {
	if len(category) > 0 && strings.TrimSpace(category[0]) != "" {
		return category[0]
	}
	return CategoryGeneral
}

// log is the common entry point behind every public logging method
func (l *Logger) log(level int64, message, category string) {
	cfg, decision := l.decide(level, category)
	switch decision {
	case dispatchDrop:
		return
	case dispatchEmergency:
		emergencyEntry(level, message, category)
		return
	}
	l.emit(cfg, level, message, category)
}

// decide applies lifecycle gating and severity filtering. Error-and-above
// calls arriving before initialization or after shutdown are redirected to
// the emergency channel instead of being lost.
func (l *Logger) decide(level int64, category string) (*Config, dispatchDecision) {
	if l.state.ShutdownCalled.Load() || l.state.LoggerDisabled.Load() || !l.state.IsInitialized.Load() {
		if level >= LevelError {
			return nil, dispatchEmergency
		}
		return nil, dispatchDrop
	}

	cfg := l.getConfig()
	if level < l.threshold.Load() && !cfg.IsCritical(category) {
		return nil, dispatchDrop
	}
	return cfg, dispatchEmit
}

// emit builds the entry (redaction, timestamp, goroutine id, optional stack)
// and hands it to the async queue, falling back to the synchronous path when
// the pipeline runs without one.
func (l *Logger) emit(cfg *Config, level int64, message, category string) {
	if cfg.EnableRedaction {
		message = cfg.Redactor().Redact(message)
	}

	e := Entry{
		Level:    level,
		Time:     time.Now(),
		Message:  message,
		Category: category,
		GID:      goroutineID(),
	}
	if cfg.CaptureStack && level >= LevelWarn {
		e.Stack = captureStack(4)
	}

	q := l.queue.Load()
	if q == nil {
		l.writeSync(e)
		return
	}

	if q.enqueue(e) {
		l.noteDrops(q)
	}
}

// noteDrops converts accumulated queue evictions into a single warning entry
// so data loss is visible in the log stream itself. Runs only after a
// successful enqueue, so a healthy queue reports promptly and a saturated one
// cannot amplify its own overflow.
func (l *Logger) noteDrops(q *asyncQueue) {
	dropped := q.dropped.Swap(0)
	if dropped == 0 {
		return
	}
	l.state.TotalDropped.Add(dropped)

	report := Entry{
		Level:    LevelWarn,
		Time:     time.Now(),
		Message:  format.Format("queue overflow: {0} oldest entries dropped", dropped),
		Category: CategoryGeneral,
		GID:      goroutineID(),
	}
	q.enqueue(report)
}

// writeSync delivers one entry to every appender under the appender lock,
// isolating sink faults: a panicking or failing appender is reported through
// the emergency channel and never disturbs its siblings or the caller.
func (l *Logger) writeSync(e Entry) {
	l.appenderMu.Lock()
	defer l.appenderMu.Unlock()

	for _, a := range l.appenders {
		if err := safeAppend(a, e); err != nil {
			l.internal("appender write failed: %v", err)
		}
	}
}

// flushAppenders flushes every appender, isolating per-sink faults
func (l *Logger) flushAppenders() {
	l.appenderMu.Lock()
	defer l.appenderMu.Unlock()

	for _, a := range l.appenders {
		if err := safeFlush(a); err != nil {
			l.internal("appender flush failed: %v", err)
		}
	}
}

func safeAppend(a Appender, e Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmtErrorf("appender panic during append: %v", r)
		}
	}()
	return a.Append(e)
}

func safeFlush(a Appender) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmtErrorf("appender panic during flush: %v", r)
		}
	}()
	return a.Flush()
}

func safeClose(a Appender) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmtErrorf("appender panic during close: %v", r)
		}
	}()
	return a.Close()
}
