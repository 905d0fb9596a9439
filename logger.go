// FILE: logger.go
package rtlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Logger is an explicit handle encapsulating one independent logging
// pipeline: configuration, appender list, and the async queue. Multiple
// instances can coexist in a process; there is no package-wide singleton.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	// threshold is the effective minimum severity, read atomically on every
	// call and mutable at runtime via SetLevel
	threshold atomic.Int64

	// appenderMu serializes all physical I/O through the appender list,
	// whether it originates from the async writer or a synchronous caller
	appenderMu sync.Mutex
	appenders  []Appender

	queue atomic.Pointer[asyncQueue]
}

// New creates a Logger with default settings. It stays inert until a
// configuration is applied.
func New() *Logger {
	l := &Logger{}
	l.currentConfig.Store(DefaultConfig())
	l.threshold.Store(defaultConfig.EffectiveLevel())
	l.state.StartTime.Store(time.Now())
	return l
}

// ApplyConfig applies a validated configuration to the logger. This is the
// primary way applications configure the logger; it can be called again on
// a live instance to reconfigure it.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		emergencyWrite("configuration cannot be nil, logger left uninitialized")
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	// Store a private deep copy: the caller keeps ownership of their struct,
	// and the copy's derived caches are always initialized, so hot-path reads
	// never touch a nil caches pointer on a hand-built Config literal.
	return l.applyConfig(cfg.Clone())
}

// GetConfig returns a copy of the current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// SetLevel changes the effective severity threshold at runtime without a
// full reconfigure. Callers read it with an atomic load per log call;
// staleness for an in-flight call is tolerated.
func (l *Logger) SetLevel(level int64) {
	l.threshold.Store(level)
}

// GetLevel returns the effective severity threshold
func (l *Logger) GetLevel() int64 {
	return l.threshold.Load()
}

// AddAppender registers an additional sink on a configured logger. The
// dispatcher takes ownership: the appender is flushed and closed at
// shutdown alongside the built-in sinks.
func (l *Logger) AddAppender(a Appender) {
	if a == nil {
		return
	}
	l.appenderMu.Lock()
	defer l.appenderMu.Unlock()
	l.appenders = append(l.appenders, a)
}

// Flush forces pending entries to their sinks: the async writer drains its
// backlog and every appender flushes its buffer, within the timeout.
func (l *Logger) Flush(timeout time.Duration) error {
	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}

	if q := l.queue.Load(); q != nil {
		return q.requestFlush(timeout)
	}
	l.flushAppenders()
	return nil
}

// Shutdown gracefully closes the logger: the queue is stopped and drained,
// every appender is flushed and disposed with per-appender fault isolation,
// and the appender list is cleared. Subsequent Error/Fatal calls are only
// accepted by the emergency path. If no timeout is provided the configured
// shutdown timeout is used.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.state.LoggerDisabled.Store(true)

	if !l.state.IsInitialized.Load() {
		l.state.ShutdownCalled.Store(false)
		l.state.LoggerDisabled.Store(false)
		return nil
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	cfg := l.getConfig()
	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = time.Duration(cfg.ShutdownTimeoutMs) * time.Millisecond
	}

	var finalErr error
	if q := l.queue.Load(); q != nil {
		finalErr = combineErrors(finalErr, q.shutdown(effectiveTimeout))
		l.absorbQueueCounters(q)
		l.queue.Store(nil)
	}

	l.appenderMu.Lock()
	appenders := l.appenders
	l.appenders = nil
	l.appenderMu.Unlock()
	l.absorbAppenderCounters(appenders)

	for _, a := range appenders {
		if err := safeFlush(a); err != nil {
			l.internal("appender flush during shutdown failed: %v", err)
			finalErr = combineErrors(finalErr, err)
		}
		if err := safeClose(a); err != nil {
			l.internal("appender close during shutdown failed: %v", err)
			finalErr = combineErrors(finalErr, err)
		}
	}

	l.state.IsInitialized.Store(false)
	return finalErr
}

// Stats reports pipeline counters for the current configuration epoch
type Stats struct {
	Processed uint64 // entries written through the async writer
	Dropped   uint64 // entries evicted by the bounded queue, lifetime total
	Rotations uint64 // completed file rotations
	Deletions uint64 // files removed by retention pruning
}

// Stats returns a snapshot of the pipeline counters. Counters from disposed
// pipelines (after reconfiguration or shutdown) are included.
func (l *Logger) Stats() Stats {
	s := Stats{
		Processed: l.state.ProcessedEntries.Load(),
		Dropped:   l.state.TotalDropped.Load(),
		Rotations: l.state.RotationCount.Load(),
		Deletions: l.state.DeletionCount.Load(),
	}
	if q := l.queue.Load(); q != nil {
		s.Processed += q.processed.Load()
		s.Dropped += q.dropped.Load()
	}

	l.appenderMu.Lock()
	for _, a := range l.appenders {
		if fa, ok := a.(*FileAppender); ok {
			s.Rotations += fa.Rotations()
			s.Deletions += fa.Deletions()
		}
	}
	l.appenderMu.Unlock()
	return s
}

// absorbQueueCounters folds a disposed queue's counters into lifetime totals
func (l *Logger) absorbQueueCounters(q *asyncQueue) {
	l.state.ProcessedEntries.Add(q.processed.Swap(0))
	l.state.TotalDropped.Add(q.dropped.Swap(0))
}

// absorbAppenderCounters folds disposed appenders' counters into lifetime totals
func (l *Logger) absorbAppenderCounters(appenders []Appender) {
	for _, a := range appenders {
		if fa, ok := a.(*FileAppender); ok {
			l.state.RotationCount.Add(fa.Rotations())
			l.state.DeletionCount.Add(fa.Deletions())
		}
	}
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// internal reports a fault in the logger itself through the emergency
// channel, mirrored to stderr when the configuration asks for it.
func (l *Logger) internal(format string, args ...any) {
	internalLog(l.getConfig().InternalErrorsToStderr, format, args...)
}

// applyConfig is the internal implementation for applying configuration,
// assuming initMu is held.
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()

	// Build the new sink set first so a failure leaves the old pipeline intact
	var newAppenders []Appender
	if cfg.EnableFile {
		fa, err := NewFileAppender(cfg)
		if err != nil {
			return err
		}
		newAppenders = append(newAppenders, fa)
	}
	if cfg.EnableConsole {
		newAppenders = append(newAppenders, NewConsoleAppender(cfg.ConsoleTarget))
	}

	// Stop the old queue so pending entries drain through the old sinks
	if oldQ := l.queue.Load(); oldQ != nil {
		oldTimeout := time.Duration(oldCfg.ShutdownTimeoutMs) * time.Millisecond
		if err := oldQ.shutdown(oldTimeout); err != nil {
			l.internal("queue stop during reconfigure: %v", err)
		}
		l.absorbQueueCounters(oldQ)
		l.queue.Store(nil)
	}

	// Swap sink sets, disposing the old one with per-appender isolation
	l.appenderMu.Lock()
	oldAppenders := l.appenders
	l.appenders = newAppenders
	l.appenderMu.Unlock()
	l.absorbAppenderCounters(oldAppenders)

	for _, a := range oldAppenders {
		if err := safeClose(a); err != nil {
			l.internal("appender close during reconfigure failed: %v", err)
		}
	}

	l.currentConfig.Store(cfg)
	l.threshold.Store(cfg.EffectiveLevel())

	if cfg.EnableAsync {
		q := newAsyncQueue(
			int(cfg.BufferSize),
			time.Duration(cfg.FlushIntervalMs)*time.Millisecond,
			l.writeSync,
			l.flushAppenders,
		)
		q.start()
		l.queue.Store(q)
	}

	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)
	l.state.LoggerDisabled.Store(false)

	return nil
}
