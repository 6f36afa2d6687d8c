package event

import "github.com/go-gl/mathgl/mgl64"

// Payload is the closed set of event payloads
// Only types in this package implement it
type Payload interface {
	Kind() Kind
	sealed()
}

// ObjectDestroyed carries the destroyed object's type and position
type ObjectDestroyed struct {
	Type     string
	Position mgl64.Vec2
}

// ObjectHit carries the hit object's type and impact position
type ObjectHit struct {
	Type     string
	Position mgl64.Vec2
}

// ComboActivated carries the combo length and anchor position
type ComboActivated struct {
	Count    int
	Position mgl64.Vec2
}

// ItemCollected carries the collected item type and position
type ItemCollected struct {
	Type     string
	Position mgl64.Vec2
}

// Collision carries the contact point
type Collision struct {
	Position mgl64.Vec2
}

// EmergencyCleanup carries a free-form reason for logs
type EmergencyCleanup struct {
	Reason string
}

// QualityChanged reports old and new quality levels
type QualityChanged struct {
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	FPS      float64 `json:"fps"`
}

// PerformanceWarning reports the warning zone entry
type PerformanceWarning struct {
	FPS     float64 `json:"fps"`
	Count   int     `json:"count"`
	Quality float64 `json:"quality"`
}

// PerformanceCritical sources
const (
	SourceFPS      = "fps"      // Quality controller entered the critical zone
	SourceMemory   = "memory"   // Memory manager crossed the alert threshold
	SourceExplicit = "explicit" // Host or operator request, clears every pool
)

// PerformanceCritical reports a critical condition
// FPS and memory sources force-optimize; SourceExplicit takes the emergency path
type PerformanceCritical struct {
	FPS      float64 `json:"fps"`
	Count    int     `json:"count"`
	Quality  float64 `json:"quality"`
	Pressure float64 `json:"pressure"`
	Source   string  `json:"source"`
}

// MemoryWarning reports estimated memory against budget
type MemoryWarning struct {
	Pressure    float64 `json:"pressure"`
	UsedBytes   int64   `json:"used_bytes"`
	BudgetBytes int64   `json:"budget_bytes"`
	Pools       int     `json:"pools"`
}

// ThemeChanged reports the active theme
type ThemeChanged struct {
	Theme    string `json:"theme"`
	Previous string `json:"previous"`
}

func (ObjectDestroyed) Kind() Kind     { return KindObjectDestroyed }
func (ObjectHit) Kind() Kind           { return KindObjectHit }
func (ComboActivated) Kind() Kind      { return KindComboActivated }
func (ItemCollected) Kind() Kind       { return KindItemCollected }
func (Collision) Kind() Kind           { return KindCollision }
func (EmergencyCleanup) Kind() Kind    { return KindEmergencyCleanup }
func (QualityChanged) Kind() Kind      { return KindQualityChanged }
func (PerformanceWarning) Kind() Kind  { return KindPerformanceWarning }
func (PerformanceCritical) Kind() Kind { return KindPerformanceCritical }
func (MemoryWarning) Kind() Kind       { return KindMemoryWarning }
func (ThemeChanged) Kind() Kind        { return KindThemeChanged }

func (ObjectDestroyed) sealed()     {}
func (ObjectHit) sealed()           {}
func (ComboActivated) sealed()      {}
func (ItemCollected) sealed()       {}
func (Collision) sealed()           {}
func (EmergencyCleanup) sealed()    {}
func (QualityChanged) sealed()      {}
func (PerformanceWarning) sealed()  {}
func (PerformanceCritical) sealed() {}
func (MemoryWarning) sealed()       {}
func (ThemeChanged) sealed()        {}
