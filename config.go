// FILE: config.go
package rtlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/lixenwraith/config"

	"github.com/halcyondev/rtlog/redact"
)

// Config holds all logger configuration values. It is treated as immutable
// after being applied to a logger; runtime changes go through Clone +
// ApplyConfig (or SetLevel for the severity threshold).
type Config struct {
	// Severity
	Level        int64 `toml:"level"`
	ReleaseMode  bool  `toml:"release_mode"`  // Use ReleaseLevel as the effective threshold
	ReleaseLevel int64 `toml:"release_level"` // Threshold override for release builds

	// Sinks
	EnableFile    bool   `toml:"enable_file"`
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// File layout
	Name      string `toml:"name"` // Base name for log files
	Directory string `toml:"directory"`
	Extension string `toml:"extension"`

	// Rotation and retention
	MaxFileSizeMB   int64 `toml:"max_file_size_mb"` // Max size per log file
	MaxFiles        int64 `toml:"max_files"`        // Retained logs + archives combined
	CompressRotated bool  `toml:"compress_rotated"` // Zip rotated files in the background

	// Async pipeline
	EnableAsync       bool  `toml:"enable_async"`
	BufferSize        int64 `toml:"buffer_size"`         // Queue capacity, drop-oldest on overflow
	FlushEveryN       int64 `toml:"flush_every_n"`       // File flush cadence in entries
	FlushIntervalMs   int64 `toml:"flush_interval_ms"`   // Writer idle drain period
	ShutdownTimeoutMs int64 `toml:"shutdown_timeout_ms"` // Bounded wait for writer exit

	// Redaction
	EnableRedaction   bool     `toml:"enable_redaction"`
	SensitiveKeywords []string `toml:"sensitive_keywords"`

	// Categories exempt from the severity threshold
	CriticalCategories []string `toml:"critical_categories"`

	// Stack traces
	CaptureStack bool `toml:"capture_stack"` // Capture for Warn and above

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`

	// Derived caches, rebuilt lazily after InvalidateCaches. Kept behind a
	// pointer so value copies of Config never copy atomics.
	caches *configCaches
}

// configCaches holds the two lazily derived structures. Contents are always
// derivable purely from the current keyword/category lists; a concurrent
// first-access race may build a cache twice, which is benign and idempotent.
type configCaches struct {
	redactor atomic.Pointer[redact.Redactor]
	critical atomic.Pointer[map[string]struct{}]
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:        LevelInfo,
	ReleaseMode:  false,
	ReleaseLevel: LevelWarn,

	EnableFile:    true,
	EnableConsole: false,
	ConsoleTarget: "stdout",

	Name:      "app",
	Directory: "./logs",
	Extension: "log",

	MaxFileSizeMB:   10,
	MaxFiles:        5,
	CompressRotated: true,

	EnableAsync:       true,
	BufferSize:        1024,
	FlushEveryN:       32,
	FlushIntervalMs:   100,
	ShutdownTimeoutMs: 1000,

	EnableRedaction:   true,
	SensitiveKeywords: []string{"password", "token", "secret", "apikey"},

	CriticalCategories: []string{CategoryCritical},

	CaptureStack: true,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	copiedConfig.SensitiveKeywords = append([]string(nil), defaultConfig.SensitiveKeywords...)
	copiedConfig.CriticalCategories = append([]string(nil), defaultConfig.CriticalCategories...)
	copiedConfig.caches = &configCaches{}
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("rtlog.", *cfg); err != nil {
		return nil, fmt.Errorf("rtlog: failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("rtlog: failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "rtlog.", cfg); err != nil {
		return nil, fmt.Errorf("rtlog: failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("rtlog: failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EffectiveLevel returns the severity threshold in force: the release-mode
// override when release mode is set, the configured level otherwise.
func (c *Config) EffectiveLevel() int64 {
	if c.ReleaseMode {
		return c.ReleaseLevel
	}
	return c.Level
}

// ensureCaches guards zero-value Config instances
func (c *Config) ensureCaches() *configCaches {
	if c.caches == nil {
		c.caches = &configCaches{}
	}
	return c.caches
}

// Redactor returns the compiled redaction patterns, building them on first
// access after construction or invalidation.
func (c *Config) Redactor() *redact.Redactor {
	caches := c.ensureCaches()
	if r := caches.redactor.Load(); r != nil {
		return r
	}
	r := redact.New(c.SensitiveKeywords...)
	caches.redactor.Store(r)
	return r
}

// IsCritical reports whether the category bypasses the severity threshold.
// The membership set is built on first access and cached.
func (c *Config) IsCritical(category string) bool {
	if category == "" {
		return false
	}
	caches := c.ensureCaches()
	set := caches.critical.Load()
	if set == nil {
		built := make(map[string]struct{}, len(c.CriticalCategories))
		for _, cat := range c.CriticalCategories {
			cat = strings.TrimSpace(cat)
			if cat != "" {
				built[cat] = struct{}{}
			}
		}
		caches.critical.Store(&built)
		set = &built
	}
	_, ok := (*set)[category]
	return ok
}

// InvalidateCaches clears both derived caches; they are rebuilt from the
// current keyword/category lists on next access.
func (c *Config) InvalidateCaches() {
	caches := c.ensureCaches()
	caches.redactor.Store(nil)
	caches.critical.Store(nil)
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.MaxFileSizeMB <= 0 {
		return fmtErrorf("max_file_size_mb must be positive: %d", c.MaxFileSizeMB)
	}

	if c.MaxFiles < 1 {
		return fmtErrorf("max_files must be at least 1: %d", c.MaxFiles)
	}

	if c.FlushEveryN <= 0 {
		return fmtErrorf("flush_every_n must be positive: %d", c.FlushEveryN)
	}

	if c.FlushIntervalMs <= 0 || c.ShutdownTimeoutMs <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	return nil
}

// Clone creates a deep copy of the configuration with fresh caches, so a
// clone whose keyword or category lists are edited never sees stale derived
// state from its source.
func (c *Config) Clone() *Config {
	copiedConfig := *c
	copiedConfig.SensitiveKeywords = append([]string(nil), c.SensitiveKeywords...)
	copiedConfig.CriticalCategories = append([]string(nil), c.CriticalCategories...)
	copiedConfig.caches = &configCaches{}
	return &copiedConfig
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %v", field.Type().Elem().Kind())
		}
		switch v := value.(type) {
		case []string:
			field.Set(reflect.ValueOf(append([]string(nil), v...)))
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("expected string list element, got %T", item)
				}
				out = append(out, s)
			}
			field.Set(reflect.ValueOf(out))
		default:
			return fmt.Errorf("expected string list, got %T", value)
		}

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}
