package render

import (
	"cmp"
	"fmt"
	"image/color"
	"math"

	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/pool"
)

// BatchKey is the visual signature shared by every circle of a batch
// Overflow is 0 for the first batch of a signature and counts up as batches fill
type BatchKey struct {
	Color      color.NRGBA
	SizeBucket int
	State      particle.State
	Glow       bool
	Overflow   int
}

// Base returns the key without its overflow index
func (k BatchKey) Base() BatchKey {
	k.Overflow = 0
	return k
}

// Blend applies the blend policy: glowing or spawning particles draw additively
func (k BatchKey) Blend() BlendMode {
	if k.Glow || k.State == particle.StateSpawn {
		return BlendAdditive
	}
	return BlendNormal
}

// String renders the key as base#overflow
func (k BatchKey) String() string {
	glow := 0
	if k.Glow {
		glow = 1
	}
	return fmt.Sprintf("%02x%02x%02x%02x/s%d/%s/g%d#%d",
		k.Color.R, k.Color.G, k.Color.B, k.Color.A, k.SizeBucket, k.State, glow, k.Overflow)
}

func compareKeys(a, b BatchKey) int {
	if c := cmp.Compare(a.Blend(), b.Blend()); c != 0 {
		return c
	}
	if c := cmp.Compare(packColor(a.Color), packColor(b.Color)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SizeBucket, b.SizeBucket); c != 0 {
		return c
	}
	if c := cmp.Compare(a.State, b.State); c != 0 {
		return c
	}
	if a.Glow != b.Glow {
		if a.Glow {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Overflow, b.Overflow)
}

func packColor(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// KeyFor computes the base batch key of one appearance
func KeyFor(a particle.Appearance) BatchKey {
	return BatchKey{
		Color:      Quantize(a.Color),
		SizeBucket: int(math.Floor(a.Radius / parameter.SizeBucketWidth)),
		State:      a.State,
		Glow:       a.Glow,
	}
}

// Batch is a group of circles drawn with one fill
type Batch struct {
	Key   BatchKey
	Items []particle.Appearance
}

// Blend returns the batch's blend mode
func (b *Batch) Blend() BlendMode { return b.Key.Blend() }

func resetBatch(b *Batch) {
	clear(b.Items)
	b.Items = b.Items[:0]
	b.Key = BatchKey{}
}

// Batcher groups appearances by visual signature
// Batches are recycled: the slice returned by BatchParticles is valid until the next call
type Batcher struct {
	maxSize int
	batches *pool.Pool[*Batch]
	open    map[BatchKey]*Batch // base key to the batch currently filling
	out     []*Batch
}

// NewBatcher creates a batcher spilling batches beyond maxSize into overflow batches
func NewBatcher(maxSize int) *Batcher {
	if maxSize <= 0 {
		maxSize = parameter.MaxBatchSize
	}
	return &Batcher{
		maxSize: maxSize,
		batches: pool.New(func() *Batch {
			return &Batch{Items: make([]particle.Appearance, 0, maxSize)}
		}, resetBatch, 64),
		open: make(map[BatchKey]*Batch),
	}
}

// MaxSize returns the per-batch particle limit
func (b *Batcher) MaxSize() int { return b.maxSize }

// BatchParticles groups items in first-seen key order
// A full batch is followed by an overflow batch with the next index, so output is reproducible
func (b *Batcher) BatchParticles(items []particle.Appearance) []*Batch {
	b.recycle()

	for _, it := range items {
		key := KeyFor(it)
		cur, ok := b.open[key]
		if !ok || len(cur.Items) >= b.maxSize {
			next := b.batches.Acquire()
			next.Key = key
			if ok {
				next.Key.Overflow = cur.Key.Overflow + 1
			}
			b.open[key] = next
			b.out = append(b.out, next)
			cur = next
		}
		cur.Items = append(cur.Items, it)
	}
	return b.out
}

func (b *Batcher) recycle() {
	for i, bt := range b.out {
		b.batches.Release(bt)
		b.out[i] = nil
	}
	b.out = b.out[:0]
	clear(b.open)
}
