package input

// Intent is a host-independent action triggered by a key
type Intent uint8

const (
	IntentNone Intent = iota

	// System
	IntentQuit
	IntentPause
	IntentToggleMute
	IntentVolumeUp
	IntentVolumeDown

	// Gameplay events at the pointer
	IntentDestroy
	IntentHit
	IntentCombo
	IntentCollect
	IntentCollision
	IntentStorm // Burst of destroy events across the viewport

	// Engine controls
	IntentCycleTheme
	IntentEmergency
	IntentForceOptimize
	IntentToggleLOD

	intentCount
)

var intentNames = [intentCount]string{
	IntentNone:          "none",
	IntentQuit:          "quit",
	IntentPause:         "pause",
	IntentToggleMute:    "toggle_mute",
	IntentVolumeUp:      "volume_up",
	IntentVolumeDown:    "volume_down",
	IntentDestroy:       "destroy",
	IntentHit:           "hit",
	IntentCombo:         "combo",
	IntentCollect:       "collect",
	IntentCollision:     "collision",
	IntentStorm:         "storm",
	IntentCycleTheme:    "cycle_theme",
	IntentEmergency:     "emergency",
	IntentForceOptimize: "force_optimize",
	IntentToggleLOD:     "toggle_lod",
}

func (i Intent) String() string {
	if i < intentCount {
		return intentNames[i]
	}
	return "unknown"
}

// ParseIntent resolves a canonical action name
func ParseIntent(name string) (Intent, bool) {
	for i, n := range intentNames {
		if n == name {
			return Intent(i), true
		}
	}
	return IntentNone, false
}
