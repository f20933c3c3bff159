// Package monitoring holds the process-wide diagnostic logger. The detection
// core logs through Logf so library consumers and tests can redirect or mute
// output without threading a logger through every call.
package monitoring

import (
	"log"
	"sync"
)

var (
	mu      sync.RWMutex
	logf    = log.Printf
	verbose bool
)

// Logf writes one diagnostic line through the configured logger.
func Logf(format string, v ...any) {
	mu.RLock()
	f := logf
	mu.RUnlock()
	f(format, v...)
}

// Debugf writes only when verbose logging is enabled.
func Debugf(format string, v ...any) {
	mu.RLock()
	f, on := logf, verbose
	mu.RUnlock()
	if on {
		f(format, v...)
	}
}

// SetLogger replaces the logger. Passing nil mutes all output.
func SetLogger(f func(format string, v ...any)) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		logf = func(string, ...any) {}
		return
	}
	logf = f
}

// SetVerbose toggles Debugf output.
func SetVerbose(on bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = on
}
