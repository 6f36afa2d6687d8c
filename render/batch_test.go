package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/lixenwraith/vfx/particle"
)

var red = color.NRGBA{R: 240, G: 40, B: 40, A: 255}

func uniform(n int, c color.NRGBA) []particle.Appearance {
	items := make([]particle.Appearance, n)
	for i := range items {
		items[i] = particle.Appearance{X: float64(i), Y: 1, Radius: 3, Color: c, State: particle.StateActive}
	}
	return items
}

func TestBatcher_OverflowIsDeterministic(t *testing.T) {
	b := NewBatcher(500)
	batches := b.BatchParticles(uniform(1100, red))

	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	wantLens := []int{500, 500, 100}
	for i, bt := range batches {
		if len(bt.Items) != wantLens[i] {
			t.Errorf("Batch %d: expected %d items, got %d", i, wantLens[i], len(bt.Items))
		}
		if bt.Key.Overflow != i {
			t.Errorf("Batch %d: expected overflow %d, got %d", i, i, bt.Key.Overflow)
		}
		if bt.Key.Base() != batches[0].Key {
			t.Errorf("Batch %d should share the base key", i)
		}
	}
	if !strings.HasSuffix(batches[2].Key.String(), "#2") {
		t.Errorf("Expected key suffix #2, got %s", batches[2].Key)
	}

	again := b.BatchParticles(uniform(1100, red))
	for i := range again {
		if again[i].Key != batches[i].Key {
			t.Errorf("Batch %d key changed between identical passes", i)
		}
	}
}

func TestBatcher_GroupsFirstSeen(t *testing.T) {
	blue := color.NRGBA{R: 30, G: 60, B: 230, A: 255}
	var items []particle.Appearance
	for i := 0; i < 10; i++ {
		c := red
		if i%2 == 1 {
			c = blue
		}
		items = append(items, particle.Appearance{Radius: 2, Color: c, State: particle.StateActive})
	}

	batches := NewBatcher(100).BatchParticles(items)
	if len(batches) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(batches))
	}
	if batches[0].Key.Color != Quantize(red) || batches[1].Key.Color != Quantize(blue) {
		t.Error("Batches should follow first-seen order")
	}
	if len(batches[0].Items) != 5 || len(batches[1].Items) != 5 {
		t.Errorf("Expected 5/5 split, got %d/%d", len(batches[0].Items), len(batches[1].Items))
	}
}

func TestBatcher_RecyclesBatches(t *testing.T) {
	b := NewBatcher(10)
	first := b.BatchParticles(uniform(25, red))
	if len(first) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(first))
	}
	second := b.BatchParticles(uniform(5, red))
	if len(second) != 1 || len(second[0].Items) != 5 {
		t.Errorf("Expected one batch of 5 after recycling, got %d", len(second))
	}
	if second[0].Key.Overflow != 0 {
		t.Errorf("Recycled batch kept overflow %d", second[0].Key.Overflow)
	}
}

func TestBatchKey_BlendPolicy(t *testing.T) {
	tests := []struct {
		name  string
		state particle.State
		glow  bool
		want  BlendMode
	}{
		{"active plain", particle.StateActive, false, BlendNormal},
		{"active glow", particle.StateActive, true, BlendAdditive},
		{"spawning", particle.StateSpawn, false, BlendAdditive},
		{"spawning glow", particle.StateSpawn, true, BlendAdditive},
	}

	for _, tt := range tests {
		k := KeyFor(particle.Appearance{Radius: 1, Color: red, State: tt.state, Glow: tt.glow})
		if got := k.Blend(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestQuantize(t *testing.T) {
	a := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	b := color.NRGBA{R: 203, G: 98, B: 52, A: 250}
	if Quantize(a) != Quantize(b) {
		t.Errorf("Near colors should share a bucket: %v vs %v", Quantize(a), Quantize(b))
	}

	faint := color.NRGBA{R: 200, G: 100, B: 50, A: 40}
	if Quantize(a) == Quantize(faint) {
		t.Error("Distinct alpha levels should not share a bucket")
	}
	if Quantize(color.NRGBA{R: 10}).A != 0 {
		t.Error("Transparent stays transparent")
	}
}

func TestBlendAndAdd(t *testing.T) {
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	if got := Blend(black, white, 0.5); got.R != 127 {
		t.Errorf("Expected half blend 127, got %d", got.R)
	}
	if got := Add(color.NRGBA{R: 200, A: 255}, color.NRGBA{R: 100, A: 255}, 1); got.R != 255 {
		t.Errorf("Expected clamped add 255, got %d", got.R)
	}
	if got := Add(black, white, 0); got != black {
		t.Errorf("Zero alpha add should be a no-op, got %v", got)
	}
}
