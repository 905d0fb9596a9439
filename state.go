// FILE: state.go
package rtlog

import (
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized  atomic.Bool
	LoggerDisabled atomic.Bool
	ShutdownCalled atomic.Bool

	// TotalDropped counts every eviction over the logger's lifetime
	TotalDropped atomic.Uint64

	// Counters absorbed from disposed queues and appenders, so statistics
	// survive reconfiguration and shutdown
	ProcessedEntries atomic.Uint64
	RotationCount    atomic.Uint64
	DeletionCount    atomic.Uint64

	StartTime atomic.Value // stores time.Time
}
