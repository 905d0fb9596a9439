package main

import (
	"fmt"
	"os"
	"time"

	"github.com/halcyondev/rtlog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[rtlog]
  level = -4 # Debug
  directory = "./simple_logs"
  name = "simple"
  extension = "log"
  enable_console = true
  console_target = "stdout"
  buffer_size = 1024
  flush_interval_ms = 100
  sensitive_keywords = ["password", "token", "secret", "apikey"]
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	// Create dummy config file
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults potentially
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
		// defer os.Remove(configFile) // Remove to keep the saved config file
	}

	// --- Initialize Logger ---
	cfg, err := rtlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = rtlog.DefaultConfig()
	}

	logger := rtlog.New()
	if err := logger.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// --- Logging ---
	logger.Debug("Debug message, visible because the threshold is Debug")
	logger.Info("Application started")
	logger.Info("Player connected", "Network")
	logger.Warn("Frame time above budget")
	logger.Error("Asset load failed")

	// Redaction: the token value is masked before the entry is stored
	logger.Info("Authenticating with token=abc123secret")

	// Critical category bypasses the severity threshold
	logger.Critical("Save file checksum mismatch")

	// Lazy construction: the closure runs only if the entry survives filtering
	logger.LogLazy(rtlog.LevelDebug, func() string {
		return fmt.Sprintf("expensive diagnostics at %v", time.Now())
	})

	// Positional templates
	logger.Logf(rtlog.LevelInfo, "Loaded {0} assets in {1} ms", 214, 38)

	// Runtime level change
	logger.SetLevel(rtlog.LevelWarn)
	logger.Info("This entry is filtered out")
	logger.Warn("This one is kept")

	// --- Shutdown ---
	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}

	stats := logger.Stats()
	fmt.Printf("Done. dropped=%d rotations=%d\n", stats.Dropped, stats.Rotations)
}
