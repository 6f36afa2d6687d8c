package parameter

import "time"

// Frame Loop & Scheduler Timing
const (
	// TickRate is the fixed logical simulation rate in ticks per second
	TickRate = 60

	// TickInterval is the fixed simulation step derived from TickRate
	TickInterval = time.Second / TickRate

	// MaxUpdatesPerFrame caps fixed updates run in one frame (spiral-of-death guard)
	MaxUpdatesPerFrame = 5

	// FrameInterval is the host frame presentation interval used by the headless runner
	FrameInterval = 16 * time.Millisecond

	// FPSSampleWindow is the wall-clock window over which frames are counted for the FPS meter
	FPSSampleWindow = 100 * time.Millisecond

	// FPSHistorySize is the ring buffer length for rolling min/avg/max FPS
	FPSHistorySize = 50
)

// Monitoring
const (
	// MonitoringInterval is the default wall-clock period of the memory monitor
	MonitoringInterval = 2 * time.Second

	// MinMonitoringInterval floors configured intervals to keep the monitor off the hot path
	MinMonitoringInterval = 100 * time.Millisecond
)
