package parameter

import "time"

// Audio Cues
const (
	// AudioSampleRate is the speaker sample rate
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// CueMinInterval is the minimum gap between two cues of the same kind
	CueMinInterval = 40 * time.Millisecond

	// CueDefaultVolume is the default gain exponent offset (0 = unity)
	CueDefaultVolume = -1.0
)

// Cue Envelopes
const (
	PopCueDuration     = 120 * time.Millisecond
	ClickCueDuration   = 30 * time.Millisecond
	SweepCueDuration   = 250 * time.Millisecond
	ChimeCueDuration   = 300 * time.Millisecond
	ThudCueDuration    = 90 * time.Millisecond
	ChimeCueFrequency  = 1320.0
	SweepBaseFrequency = 220.0
	ThudFrequency      = 70.0
)
