// FILE: override.go
package rtlog

import (
	"strconv"
	"strings"
)

// ApplyOverride reconfigures a live logger from "key=value" strings, where
// keys are the TOML names ("level=debug", "buffer_size=4096"). The current
// configuration is cloned, every override applied, and the result validated
// before it replaces the active one; a bad override leaves the logger
// untouched.
func (l *Logger) ApplyOverride(overrides ...string) error {
	if len(overrides) == 0 {
		return nil
	}

	cfg := l.GetConfig()

	var finalErr error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			finalErr = combineErrors(finalErr, err)
			continue
		}
		if err := applyConfigField(cfg, key, value); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	if finalErr != nil {
		return finalErr
	}

	cfg.InvalidateCaches()
	return l.ApplyConfig(cfg)
}

// applyConfigField sets one configuration field from its string form. Level
// fields accept both names and numeric values; list fields accept
// comma-separated items.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "level":
		lvl, err := parseLevelValue(value)
		if err != nil {
			return err
		}
		cfg.Level = lvl
	case "release_mode":
		return setBoolField(&cfg.ReleaseMode, key, value)
	case "release_level":
		lvl, err := parseLevelValue(value)
		if err != nil {
			return err
		}
		cfg.ReleaseLevel = lvl
	case "enable_file":
		return setBoolField(&cfg.EnableFile, key, value)
	case "enable_console":
		return setBoolField(&cfg.EnableConsole, key, value)
	case "console_target":
		cfg.ConsoleTarget = value
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "extension":
		cfg.Extension = value
	case "max_file_size_mb":
		return setIntField(&cfg.MaxFileSizeMB, key, value)
	case "max_files":
		return setIntField(&cfg.MaxFiles, key, value)
	case "compress_rotated":
		return setBoolField(&cfg.CompressRotated, key, value)
	case "enable_async":
		return setBoolField(&cfg.EnableAsync, key, value)
	case "buffer_size":
		return setIntField(&cfg.BufferSize, key, value)
	case "flush_every_n":
		return setIntField(&cfg.FlushEveryN, key, value)
	case "flush_interval_ms":
		return setIntField(&cfg.FlushIntervalMs, key, value)
	case "shutdown_timeout_ms":
		return setIntField(&cfg.ShutdownTimeoutMs, key, value)
	case "enable_redaction":
		return setBoolField(&cfg.EnableRedaction, key, value)
	case "sensitive_keywords":
		cfg.SensitiveKeywords = splitList(value)
	case "critical_categories":
		cfg.CriticalCategories = splitList(value)
	case "capture_stack":
		return setBoolField(&cfg.CaptureStack, key, value)
	case "internal_errors_to_stderr":
		return setBoolField(&cfg.InternalErrorsToStderr, key, value)
	default:
		return fmtErrorf("unknown config key: %s", key)
	}
	return nil
}

// parseLevelValue accepts a level name or a raw numeric severity
func parseLevelValue(value string) (int64, error) {
	if lvl, err := ParseLevel(value); err == nil {
		return lvl, nil
	}
	lvl, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmtErrorf("invalid level value: '%s'", value)
	}
	return lvl, nil
}

func setBoolField(dst *bool, key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean for %s: '%s'", key, value)
	}
	*dst = v
	return nil
}

func setIntField(dst *int64, key, value string) error {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer for %s: '%s'", key, value)
	}
	*dst = v
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
