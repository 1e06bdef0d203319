package irclib

import (
	"fmt"
	"sync"
)

var timerPool = &TimerPool{sp: sync.Pool{}, m: newPoolMetrics()}
var pendingWritePool = &PendingWritePool{sp: sync.Pool{}, m: newPoolMetrics()}

// StartPoolMetrics folds the pool counters into running totals once per
// DefaultTickerDuration until ReleasePoolMetrics is called. Not safe to call
// concurrently with ReleasePoolMetrics.
func StartPoolMetrics() {
	timerPool.m.start()
	pendingWritePool.m.start()
}

func ReleasePoolMetrics() {
	timerPool.m.release()
	pendingWritePool.m.release()
}

func JsonStringPoolMetrics() string {
	return fmt.Sprintf("{\"timerPool\" = %s, \"pendingWritePool\" = %s}",
		timerPool.m.metricsString(),
		pendingWritePool.m.metricsString(),
	)
}
