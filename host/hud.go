package host

import (
	"fmt"

	"github.com/lixenwraith/vfx/render"
)

// StatusLine formats the HUD line shown by interactive hosts
func (h *Host) StatusLine(c render.Counters) string {
	st := h.Particles.Stats()
	pressure := h.Ctx.Status.Floats.Get("memory.pressure").Load()

	flags := ""
	if h.Scheduler.Paused() {
		flags += " PAUSED"
	}
	if h.lod {
		flags += " LOD"
	}
	if h.Audio.Muted() {
		flags += " MUTE"
	}

	return fmt.Sprintf("fps %3.0f  q %.2f (%s)  %d/%d  draws %d  states %d  mem %3.0f%%  %s%s",
		st.FPS, st.Quality, st.Zone, st.Active, st.Budget,
		c.DrawCalls, c.StateChanges, pressure*100, st.Theme, flags)
}
