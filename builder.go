// FILE: builder.go
package rtlog

import (
	"time"
)

// ConfigBuilder provides a fluent interface for building logger
// configuration. Errors accumulate; Build reports the first one.
type ConfigBuilder struct {
	cfg  *Config
	errs []error
}

// NewConfigBuilder creates a builder seeded with default values
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: DefaultConfig()}
}

// Level sets the severity threshold
func (b *ConfigBuilder) Level(level int64) *ConfigBuilder {
	b.cfg.Level = level
	return b
}

// LevelString sets the severity threshold from a name ("debug", "info", ...)
func (b *ConfigBuilder) LevelString(level string) *ConfigBuilder {
	parsed, err := ParseLevel(level)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.cfg.Level = parsed
	return b
}

// ReleaseMode switches the effective threshold to the release level
func (b *ConfigBuilder) ReleaseMode(on bool) *ConfigBuilder {
	b.cfg.ReleaseMode = on
	return b
}

// ReleaseLevel sets the threshold used while in release mode
func (b *ConfigBuilder) ReleaseLevel(level int64) *ConfigBuilder {
	b.cfg.ReleaseLevel = level
	return b
}

// File enables the file sink and sets its directory and base name
func (b *ConfigBuilder) File(directory, name string) *ConfigBuilder {
	b.cfg.EnableFile = true
	b.cfg.Directory = directory
	b.cfg.Name = name
	return b
}

// NoFile disables the file sink
func (b *ConfigBuilder) NoFile() *ConfigBuilder {
	b.cfg.EnableFile = false
	return b
}

// Console enables the console sink on the given target ("stdout" or "stderr")
func (b *ConfigBuilder) Console(target string) *ConfigBuilder {
	b.cfg.EnableConsole = true
	b.cfg.ConsoleTarget = target
	return b
}

// Extension sets the log file extension, without the leading dot
func (b *ConfigBuilder) Extension(ext string) *ConfigBuilder {
	b.cfg.Extension = ext
	return b
}

// Rotation sets the per-file size limit and retention count
func (b *ConfigBuilder) Rotation(maxSizeMB, maxFiles int64) *ConfigBuilder {
	b.cfg.MaxFileSizeMB = maxSizeMB
	b.cfg.MaxFiles = maxFiles
	return b
}

// Compress controls background archival of rotated files
func (b *ConfigBuilder) Compress(on bool) *ConfigBuilder {
	b.cfg.CompressRotated = on
	return b
}

// Async enables the background writer with the given queue capacity
func (b *ConfigBuilder) Async(bufferSize int64) *ConfigBuilder {
	b.cfg.EnableAsync = true
	b.cfg.BufferSize = bufferSize
	return b
}

// Sync disables the background writer; every call writes in the caller's
// goroutine.
func (b *ConfigBuilder) Sync() *ConfigBuilder {
	b.cfg.EnableAsync = false
	return b
}

// FlushEvery sets the file flush cadence in entries
func (b *ConfigBuilder) FlushEvery(n int64) *ConfigBuilder {
	b.cfg.FlushEveryN = n
	return b
}

// FlushInterval sets the writer's idle drain period
func (b *ConfigBuilder) FlushInterval(d time.Duration) *ConfigBuilder {
	b.cfg.FlushIntervalMs = d.Milliseconds()
	return b
}

// ShutdownTimeout bounds the wait for the writer during shutdown
func (b *ConfigBuilder) ShutdownTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.ShutdownTimeoutMs = d.Milliseconds()
	return b
}

// Redaction controls sensitive-value masking and replaces the keyword list
// when keywords are given.
func (b *ConfigBuilder) Redaction(on bool, keywords ...string) *ConfigBuilder {
	b.cfg.EnableRedaction = on
	if len(keywords) > 0 {
		b.cfg.SensitiveKeywords = append([]string(nil), keywords...)
		b.cfg.InvalidateCaches()
	}
	return b
}

// CriticalCategories replaces the set of categories that bypass the
// severity threshold.
func (b *ConfigBuilder) CriticalCategories(categories ...string) *ConfigBuilder {
	b.cfg.CriticalCategories = append([]string(nil), categories...)
	b.cfg.InvalidateCaches()
	return b
}

// CaptureStack controls stack capture for Warn and above
func (b *ConfigBuilder) CaptureStack(on bool) *ConfigBuilder {
	b.cfg.CaptureStack = on
	return b
}

// Build validates and returns the configuration
func (b *ConfigBuilder) Build() (*Config, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}
