package parameter

import "time"

// Telemetry Stream
const (
	// TelemetryQueueSize is the number of pending reports buffered before drops
	TelemetryQueueSize = 32

	// TelemetryWriteTimeout bounds a single websocket write
	TelemetryWriteTimeout = 2 * time.Second

	// TelemetryDefaultAddr is the listen address when telemetry is enabled without one
	TelemetryDefaultAddr = "127.0.0.1:7071"
)
