package render

import (
	"image/color"
	"log"
	"math"
	"slices"
	"sync/atomic"

	"github.com/lixenwraith/vfx/engine"
	"github.com/lixenwraith/vfx/particle"
)

// Counters are profiling totals since the last reset
type Counters struct {
	DrawCalls    int64 `json:"draw_calls"`
	StateChanges int64 `json:"state_changes"`
	Batches      int64 `json:"batches"`
	Particles    int64 `json:"particles"`
	Frames       int64 `json:"frames"`
}

// BatchRenderer draws appearances with one fill per batch
//
// When the target implements Layered, a detached layer is allocated at construction
// and the particle pass is composited with a single blit. The layer is reallocated when
// the target's size changes. A failed allocation falls back to direct rendering for the
// lifetime of the renderer.
type BatchRenderer struct {
	batcher *Batcher
	logger  *log.Logger

	layered Layered
	layer   Surface
	layerW  int
	layerH  int
	direct  bool

	counters Counters

	statDrawCalls    *atomic.Int64
	statStateChanges *atomic.Int64
	statBatches      *atomic.Int64
	statLayered      *atomic.Bool
}

// NewBatchRenderer probes target for layer support and builds a renderer
func NewBatchRenderer(ctx *engine.Context, target Surface) *BatchRenderer {
	r := &BatchRenderer{
		batcher: NewBatcher(ctx.Config.MaxBatchSize),
		logger:  ctx.Logger,

		statDrawCalls:    ctx.Status.Ints.Get("render.draw_calls"),
		statStateChanges: ctx.Status.Ints.Get("render.state_changes"),
		statBatches:      ctx.Status.Ints.Get("render.batches"),
		statLayered:      ctx.Status.Bools.Get("render.layered"),
	}
	r.probe(target)
	return r
}

func (r *BatchRenderer) probe(target Surface) {
	r.direct = true
	layered, ok := target.(Layered)
	if !ok {
		return
	}
	r.layered = layered
	w, h := target.Size()
	if r.allocLayer(w, h) {
		r.statLayered.Store(true)
	}
}

// allocLayer replaces the layer with one of w×h, switching to direct rendering on failure
func (r *BatchRenderer) allocLayer(w, h int) bool {
	layer, err := r.layered.NewLayer(w, h)
	if err != nil {
		r.logger.Printf("render: layer unavailable, drawing direct: %v", err)
		r.layer = nil
		r.direct = true
		r.statLayered.Store(false)
		return false
	}
	r.layer = layer
	r.layerW, r.layerH = w, h
	r.direct = false
	return true
}

// Layered reports whether the particle pass goes through a detached layer
func (r *BatchRenderer) Layered() bool { return !r.direct }

// Batcher exposes the grouping stage
func (r *BatchRenderer) Batcher() *Batcher { return r.batcher }

// Render batches items and draws them onto target
func (r *BatchRenderer) Render(target Surface, items []particle.Appearance) {
	batches := r.batcher.BatchParticles(items)
	r.counters.Frames++
	r.counters.Particles += int64(len(items))

	if r.direct {
		r.RenderBatches(target, batches)
		return
	}

	if w, h := target.Size(); w != r.layerW || h != r.layerH {
		if !r.allocLayer(w, h) {
			r.RenderBatches(target, batches)
			return
		}
	}

	r.layer.Clear()
	r.RenderBatches(r.layer, batches)

	target.Save()
	target.SetBlendMode(BlendNormal)
	target.DrawSurface(r.layer, 0, 0)
	target.Restore()
}

// RenderBatches sorts batches by blend mode then key and draws each with one fill
// Fill color and blend mode are only set when they differ from the previous batch
func (r *BatchRenderer) RenderBatches(s Surface, batches []*Batch) {
	if len(batches) == 0 {
		return
	}
	slices.SortStableFunc(batches, func(a, b *Batch) int {
		return compareKeys(a.Key, b.Key)
	})

	s.Save()
	defer s.Restore()

	var (
		first     = true
		lastFill  color.NRGBA
		lastBlend BlendMode
		draws     int64
		changes   int64
	)

	for _, b := range batches {
		if len(b.Items) == 0 {
			continue
		}
		blend := b.Blend()
		if first || blend != lastBlend {
			s.SetBlendMode(blend)
			lastBlend = blend
			changes++
		}
		if first || b.Key.Color != lastFill {
			s.SetFillColor(b.Key.Color)
			lastFill = b.Key.Color
			changes++
		}
		first = false

		s.BeginPath()
		for _, it := range b.Items {
			s.Arc(it.X, it.Y, it.Radius, 0, 2*math.Pi)
			s.ClosePath()
		}
		s.Fill()
		draws++
	}

	r.counters.DrawCalls += draws
	r.counters.StateChanges += changes
	r.counters.Batches += int64(len(batches))
	r.statDrawCalls.Add(draws)
	r.statStateChanges.Add(changes)
	r.statBatches.Add(int64(len(batches)))
}

// Counters returns totals since construction or the last reset
func (r *BatchRenderer) Counters() Counters { return r.counters }

// ResetCounters zeroes the profiling counters
func (r *BatchRenderer) ResetCounters() {
	r.counters = Counters{}
	r.statDrawCalls.Store(0)
	r.statStateChanges.Store(0)
	r.statBatches.Store(0)
}
