package compat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyondev/rtlog"
)

// recordingAppender captures dispatched entries for assertions
type recordingAppender struct {
	mu      sync.Mutex
	entries []rtlog.Entry
}

func (r *recordingAppender) Append(e rtlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingAppender) Flush() error { return nil }
func (r *recordingAppender) Close() error { return nil }

func (r *recordingAppender) snapshot() []rtlog.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]rtlog.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func newTestLogger(t *testing.T) (*rtlog.Logger, *recordingAppender) {
	t.Helper()

	cfg := rtlog.DefaultConfig()
	cfg.Level = rtlog.LevelDebug
	cfg.EnableFile = false
	cfg.EnableConsole = false
	cfg.EnableAsync = false
	cfg.CaptureStack = false

	logger := rtlog.New()
	require.NoError(t, logger.ApplyConfig(cfg))

	rec := &recordingAppender{}
	logger.AddAppender(rec)
	return logger, rec
}

func TestGnetAdapterLevels(t *testing.T) {
	logger, rec := newTestLogger(t)
	defer logger.Shutdown()

	adapter := NewGnetAdapter(logger)

	adapter.Debugf("connections: %d", 3)
	adapter.Infof("listener on %s", ":9000")
	adapter.Warnf("slow event loop")
	adapter.Errorf("accept failed: %v", "EMFILE")

	entries := rec.snapshot()
	require.Len(t, entries, 4)

	assert.Equal(t, rtlog.LevelDebug, entries[0].Level)
	assert.Equal(t, "connections: 3", entries[0].Message)
	assert.Equal(t, rtlog.LevelInfo, entries[1].Level)
	assert.Equal(t, "listener on :9000", entries[1].Message)
	assert.Equal(t, rtlog.LevelWarn, entries[2].Level)
	assert.Equal(t, rtlog.LevelError, entries[3].Level)

	for _, e := range entries {
		assert.Equal(t, "gnet", e.Category)
	}
}

func TestGnetAdapterFatalHandler(t *testing.T) {
	logger, rec := newTestLogger(t)
	defer logger.Shutdown()

	var fatalMsg string
	adapter := NewGnetAdapter(logger, WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))

	adapter.Fatalf("event loop died: %s", "poller closed")

	assert.Equal(t, "event loop died: poller closed", fatalMsg)

	entries := rec.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, rtlog.LevelFatal, entries[0].Level)
}

func TestFastHTTPAdapterLevelDetection(t *testing.T) {
	logger, rec := newTestLogger(t)
	defer logger.Shutdown()

	adapter := NewFastHTTPAdapter(logger)

	adapter.Printf("serving on %s", ":8080")
	adapter.Printf("error when serving connection: %v", "timeout")
	adapter.Printf("warning: deprecated option used")
	adapter.Printf("debug dump of request state")

	entries := rec.snapshot()
	require.Len(t, entries, 4)

	assert.Equal(t, rtlog.LevelInfo, entries[0].Level)
	assert.Equal(t, rtlog.LevelError, entries[1].Level)
	assert.Equal(t, rtlog.LevelWarn, entries[2].Level)
	assert.Equal(t, rtlog.LevelDebug, entries[3].Level)

	for _, e := range entries {
		assert.Equal(t, "fasthttp", e.Category)
	}
}

func TestFastHTTPAdapterCustomDetector(t *testing.T) {
	logger, rec := newTestLogger(t)
	defer logger.Shutdown()

	adapter := NewFastHTTPAdapter(logger,
		WithDefaultLevel(rtlog.LevelWarn),
		WithLevelDetector(func(string) int64 { return rtlog.LevelWarn }),
	)

	adapter.Printf("anything at all")

	entries := rec.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, rtlog.LevelWarn, entries[0].Level)
}

func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, rtlog.LevelError, DetectLogLevel("connection failed"))
	assert.Equal(t, rtlog.LevelError, DetectLogLevel("PANIC in handler"))
	assert.Equal(t, rtlog.LevelWarn, DetectLogLevel("Warning: slow response"))
	assert.Equal(t, rtlog.LevelDebug, DetectLogLevel("trace: headers parsed"))
	assert.Equal(t, rtlog.LevelInfo, DetectLogLevel("listening on :8080"))
}
