package host

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/input"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/system"
)

const (
	stormBursts = 12
	volumeStep  = 0.5
)

var objectTypes = []string{"asteroid", "enemy", "player", "crystal"}

// Apply performs intent at pointer position at
// Returns false when the host should quit
func (h *Host) Apply(intent input.Intent, at mgl64.Vec2) bool {
	bus := h.Ctx.Bus
	switch intent {
	case input.IntentQuit:
		return false

	case input.IntentPause:
		if h.Scheduler.Paused() {
			h.Scheduler.Resume()
		} else {
			h.Scheduler.Pause()
		}

	case input.IntentToggleMute:
		h.Audio.SetMuted(!h.Audio.Muted())
	case input.IntentVolumeUp:
		h.Audio.SetVolume(h.Audio.Volume() + volumeStep)
	case input.IntentVolumeDown:
		h.Audio.SetVolume(h.Audio.Volume() - volumeStep)

	case input.IntentDestroy:
		bus.Publish(event.ObjectDestroyed{Type: h.nextType(), Position: at})
	case input.IntentHit:
		bus.Publish(event.ObjectHit{Type: h.nextType(), Position: at})
	case input.IntentCombo:
		h.combo = h.combo%parameter.ComboScaleCap + 1
		bus.Publish(event.ComboActivated{Count: h.combo, Position: at})
	case input.IntentCollect:
		bus.Publish(event.ItemCollected{Type: "crystal", Position: at})
	case input.IntentCollision:
		bus.Publish(event.Collision{Position: at})
	case input.IntentStorm:
		h.Storm(stormBursts)

	case input.IntentCycleTheme:
		h.CycleTheme()
	case input.IntentEmergency:
		bus.Publish(event.PerformanceCritical{Source: event.SourceExplicit})
	case input.IntentForceOptimize:
		h.Particles.ForceOptimize()
	case input.IntentToggleLOD:
		h.lod = !h.lod
		h.setCamera()
	}
	return true
}

// Storm publishes n destroy events at random viewport positions
func (h *Host) Storm(n int) {
	w, ht := h.bounds.Width(), h.bounds.Height()
	for i := 0; i < n; i++ {
		pos := mgl64.Vec2{h.rng.Range(0, w), h.rng.Range(0, ht)}
		h.Ctx.Bus.Publish(event.ObjectDestroyed{Type: h.nextType(), Position: pos})
	}
}

// CycleTheme switches to the next built-in theme alphabetically
func (h *Host) CycleTheme() string {
	names := system.ThemeNames()
	current := h.Particles.Theme().Name
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := h.Particles.SetTheme(next); err != nil {
		h.Ctx.Logger.Printf("host: %v", err)
		return current
	}
	return next
}

// LOD reports whether distance-based update throttling is on
func (h *Host) LOD() bool { return h.lod }

func (h *Host) nextType() string {
	t := objectTypes[h.typeIdx%len(objectTypes)]
	h.typeIdx++
	return t
}
