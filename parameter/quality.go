package parameter

// Adaptive Quality
const (
	// TargetFPS is the frame rate the quality controller aims to sustain
	TargetFPS = 60.0

	// WarningFPS is the rolling FPS below which quality decays gradually
	WarningFPS = 45.0

	// CriticalFPS is the rolling FPS below which quality snaps to the floor
	CriticalFPS = 25.0

	// NearTargetRatio of TargetFPS at or above which quality recovers
	NearTargetRatio = 0.9

	// QualityFloor is the minimum quality level
	QualityFloor = 0.25

	// QualityCeiling is the maximum quality level
	QualityCeiling = 1.0

	// QualityWarningFloor is the level gradual decay stops at
	QualityWarningFloor = 0.5

	// QualityDecayStep is the per-tick decrease while in the warning zone
	QualityDecayStep = 0.1

	// QualityRecoverStep is the per-tick increase while near target, smaller than decay
	QualityRecoverStep = 0.02

	// FPSWindow is the number of consecutive frame deltas averaged for the rolling FPS
	FPSWindow = 10
)

// Spawning
const (
	// ComboScaleCap caps the combo multiplier applied to count and speed
	ComboScaleCap = 5

	// ComboSpeedStep is the speed gain per combo level
	ComboSpeedStep = 0.15

	// PressureSignalRatio of MaxParticles above which the system emits a memory warning
	PressureSignalRatio = 0.9
)
