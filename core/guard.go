package core

import (
	"log"
	"runtime/debug"
)

// Guard runs fn and recovers any panic, logging it under label
// Returns the recovered value, nil when fn completed normally
func Guard(logger *log.Logger, label string, fn func()) (recovered any) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			if logger == nil {
				logger = log.Default()
			}
			logger.Printf("%s: panic: %v\n%s", label, r, debug.Stack())
		}
	}()
	fn()
	return nil
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for background workers (telemetry, audio)
func Go(logger *log.Logger, label string, fn func()) {
	go Guard(logger, label, fn)
}
