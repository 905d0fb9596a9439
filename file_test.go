// FILE: file_test.go
package rtlog

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineGrammar matches the sink line format:
// [HH:mm:ss.fff] [LEVEL] [category] message
var lineGrammar = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\.\d{3}\] \[(DEBUG|INFO|WARN|ERROR|FATAL)\] \[[^\]]+\] .*$`)

func newTestFileAppender(t *testing.T, mutate func(*Config)) (*FileAppender, string) {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.Name = "test"
	cfg.FlushEveryN = 1
	if mutate != nil {
		mutate(cfg)
	}

	f, err := NewFileAppender(cfg)
	require.NoError(t, err)
	return f, tmpDir
}

func listLogFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestFileAppenderWritesLineGrammar(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, nil)

	e := Entry{Level: LevelInfo, Time: time.Now(), Message: "hello world", Category: CategoryGeneral}
	require.NoError(t, f.Append(e))
	require.NoError(t, f.Close())

	files := listLogFiles(t, tmpDir)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0], "test_"))
	assert.True(t, strings.HasSuffix(files[0], ".log"))

	data, err := os.ReadFile(filepath.Join(tmpDir, files[0]))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Regexp(t, lineGrammar, lines[0])
	assert.Contains(t, lines[0], "[INFO] [General] hello world")
}

func TestFileAppenderStackLinesForErrors(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, nil)

	e := Entry{
		Level:    LevelError,
		Time:     time.Now(),
		Message:  "asset load failed",
		Category: CategoryGeneral,
		Stack:    "loadAsset (assets.go:42)\nmain (main.go:10)",
	}
	require.NoError(t, f.Append(e))

	// Warn-level stacks are kept out of the file sink
	w := Entry{Level: LevelWarn, Time: time.Now(), Message: "slow frame", Category: CategoryGeneral, Stack: "frameTick (loop.go:7)"}
	require.NoError(t, f.Append(w))
	require.NoError(t, f.Close())

	files := listLogFiles(t, tmpDir)
	require.Len(t, files, 1)
	data, err := os.ReadFile(filepath.Join(tmpDir, files[0]))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "asset load failed")
	assert.Contains(t, content, "loadAsset (assets.go:42)")
	assert.Contains(t, content, "main (main.go:10)")
	assert.NotContains(t, content, "frameTick")
}

func TestFileAppenderFlushCadence(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, func(c *Config) {
		c.FlushEveryN = 100 // effectively never during this test
	})
	defer f.Close()

	require.NoError(t, f.Append(Entry{Level: LevelInfo, Time: time.Now(), Message: "buffered", Category: CategoryGeneral}))

	files := listLogFiles(t, tmpDir)
	require.Len(t, files, 1)
	path := filepath.Join(tmpDir, files[0])

	// Still sitting in the bufio layer
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, f.Flush())
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "buffered")
}

func TestFileAppenderRotation(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, func(c *Config) {
		c.CompressRotated = false
	})
	f.maxBytes = 256 // force rotation quickly

	msg := strings.Repeat("x", 100)
	for i := 0; i < 10; i++ {
		require.NoError(t, f.Append(Entry{Level: LevelInfo, Time: time.Now(), Message: msg, Category: CategoryGeneral}))
	}
	require.NoError(t, f.Close())

	assert.GreaterOrEqual(t, f.Rotations(), uint64(1))

	files := listLogFiles(t, tmpDir)
	assert.GreaterOrEqual(t, len(files), 2, "rotation should have produced multiple files")
	for _, name := range files {
		assert.True(t, strings.HasPrefix(name, "test_"))
		assert.True(t, strings.HasSuffix(name, ".log"))
	}
}

func TestFileAppenderCompressesRotated(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, func(c *Config) {
		c.CompressRotated = true
	})
	f.maxBytes = 256

	msg := strings.Repeat("y", 100)
	for i := 0; i < 10; i++ {
		require.NoError(t, f.Append(Entry{Level: LevelInfo, Time: time.Now(), Message: msg, Category: CategoryGeneral}))
	}
	// Close waits for in-flight compression tasks
	require.NoError(t, f.Close())

	var zips, logs []string
	for _, name := range listLogFiles(t, tmpDir) {
		switch filepath.Ext(name) {
		case ".zip":
			zips = append(zips, name)
		case ".log":
			logs = append(logs, name)
		}
	}

	require.NotEmpty(t, zips, "rotated files should be archived")
	// Only the active file remains uncompressed
	assert.Len(t, logs, 1)

	// Archive contents round-trip
	zr, err := zip.OpenReader(filepath.Join(tmpDir, zips[0]))
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), msg)
}

func TestFileAppenderRetention(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, func(c *Config) {
		c.CompressRotated = false
		c.MaxFiles = 2
	})
	f.maxBytes = 200

	msg := strings.Repeat("z", 150)
	for i := 0; i < 12; i++ {
		require.NoError(t, f.Append(Entry{Level: LevelInfo, Time: time.Now(), Message: msg, Category: CategoryGeneral}))
		time.Sleep(2 * time.Millisecond) // distinct mod times for pruning order
	}
	require.NoError(t, f.Close())

	assert.Greater(t, f.Rotations(), uint64(2))
	assert.Greater(t, f.Deletions(), uint64(0))

	files := listLogFiles(t, tmpDir)
	assert.LessOrEqual(t, len(files), 2)
}

func TestFileAppenderIgnoresForeignFiles(t *testing.T) {
	f, tmpDir := newTestFileAppender(t, func(c *Config) {
		c.CompressRotated = false
		c.MaxFiles = 1
	})
	f.maxBytes = 200

	// A foreign file in the log directory must survive pruning
	foreign := filepath.Join(tmpDir, "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0644))

	msg := strings.Repeat("w", 150)
	for i := 0; i < 8; i++ {
		require.NoError(t, f.Append(Entry{Level: LevelInfo, Time: time.Now(), Message: msg, Category: CategoryGeneral}))
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	_, err := os.Stat(foreign)
	assert.NoError(t, err)
}

func TestConsoleAppender(t *testing.T) {
	var buf bytes.Buffer
	a := &ConsoleAppender{w: &buf, buf: make([]byte, 0, 256)}

	e := Entry{Level: LevelWarn, Time: time.Now(), Message: "frame over budget", Category: "Render", Stack: "tick (loop.go:3)"}
	require.NoError(t, a.Append(e))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, lineGrammar, lines[0])
	assert.Contains(t, lines[0], "[WARN] [Render] frame over budget")
	assert.Equal(t, "tick (loop.go:3)", lines[1])

	// Closed sink swallows further writes
	require.NoError(t, a.Close())
	buf.Reset()
	require.NoError(t, a.Append(e))
	assert.Empty(t, buf.String())
}
