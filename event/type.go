package event

// Kind identifies an event and its payload type
type Kind int

const (
	// === Domain Events (consumed) ===

	// KindObjectDestroyed signals an object was destroyed
	// Trigger: host game logic | Consumer: ParticleSystem, CuePlayer | Payload: ObjectDestroyed
	KindObjectDestroyed Kind = iota

	// KindObjectHit signals a non-fatal hit
	// Trigger: host game logic | Consumer: ParticleSystem, CuePlayer | Payload: ObjectHit
	KindObjectHit

	// KindComboActivated signals a combo chain reaching Count
	// Trigger: host game logic | Consumer: ParticleSystem, CuePlayer | Payload: ComboActivated
	KindComboActivated

	// KindItemCollected signals an item pickup
	// Trigger: host game logic | Consumer: ParticleSystem, CuePlayer | Payload: ItemCollected
	KindItemCollected

	// KindCollision signals a physical collision
	// Trigger: host game logic | Consumer: ParticleSystem, CuePlayer | Payload: Collision
	KindCollision

	// KindEmergencyCleanup requests all pools be cleared outright
	// Trigger: host or operator | Consumer: MemoryManager | Payload: EmergencyCleanup
	KindEmergencyCleanup

	// === Engine Events (emitted) ===

	// KindQualityChanged reports an adaptive quality level change
	// Trigger: QualityController | Consumer: host HUD, telemetry | Payload: QualityChanged
	KindQualityChanged

	// KindPerformanceWarning reports entry into the warning FPS zone
	// Trigger: QualityController | Consumer: host | Payload: PerformanceWarning
	KindPerformanceWarning

	// KindPerformanceCritical reports critical FPS or memory pressure
	// Trigger: QualityController, MemoryManager | Consumer: ParticleSystem | Payload: PerformanceCritical
	KindPerformanceCritical

	// KindMemoryWarning reports memory pressure above the warning threshold
	// Trigger: MemoryManager, ParticleSystem | Consumer: host | Payload: MemoryWarning
	KindMemoryWarning

	// KindThemeChanged reports a completed theme switch
	// Trigger: ParticleSystem.SetTheme | Consumer: host renderer background | Payload: ThemeChanged
	KindThemeChanged

	kindCount
)

var kindNames = [kindCount]string{
	KindObjectDestroyed:     "object-destroyed",
	KindObjectHit:           "object-hit",
	KindComboActivated:      "combo-activated",
	KindItemCollected:       "item-collected",
	KindCollision:           "collision",
	KindEmergencyCleanup:    "emergency-cleanup",
	KindQualityChanged:      "quality-changed",
	KindPerformanceWarning:  "performance-warning",
	KindPerformanceCritical: "performance-critical",
	KindMemoryWarning:       "memory-warning",
	KindThemeChanged:        "theme-changed",
}

// String returns the topic name
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a topic name back to its Kind
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every defined kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
