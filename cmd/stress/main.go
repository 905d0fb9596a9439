package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/halcyondev/rtlog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 2000
	numWorkers     = 50
)

var levels = []int64{
	rtlog.LevelDebug,
	rtlog.LevelInfo,
	rtlog.LevelWarn,
	rtlog.LevelError,
}

var logger *rtlog.Logger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msgSize := rand.Intn(maxMessageSize) + 10
		logger.Logf(level, "wkr={0} seq={1} {2}", burstID%numWorkers, i, generateRandomMessage(msgSize))
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")

	logsDir := "./stress_logs"
	_ = os.RemoveAll(logsDir) // Clean previous run's logs before starting

	cfg, err := rtlog.NewConfigBuilder().
		Level(rtlog.LevelDebug).
		File(logsDir, "stress").
		Rotation(1, 10). // 1MB files to force frequent rotation
		Async(500).      // Small queue to force drop-oldest under load
		FlushInterval(50 * time.Millisecond).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build config: %v\n", err)
		os.Exit(1)
	}

	logger = rtlog.New()
	if err := logger.ApplyConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	burstChan := make(chan int, totalBursts)
	var wg sync.WaitGroup
	var completedBursts atomic.Int64

	start := time.Now()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}
	for b := 0; b < totalBursts; b++ {
		burstChan <- b
	}
	close(burstChan)
	wg.Wait()
	elapsed := time.Since(start)

	if err := logger.Shutdown(5 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "\nShutdown error: %v\n", err)
	}

	stats := logger.Stats()
	total := int64(totalBursts * logsPerBurst)
	fmt.Printf("\nLogged %d entries in %v (%.0f/s)\n", total, elapsed, float64(total)/elapsed.Seconds())
	fmt.Printf("processed=%d dropped=%d rotations=%d deletions=%d\n",
		stats.Processed, stats.Dropped, stats.Rotations, stats.Deletions)
}
