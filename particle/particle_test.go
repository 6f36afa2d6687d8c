package particle

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/parameter"
)

func TestParticle_UpdatePhysics(t *testing.T) {
	p := &Particle{}
	p.apply(Options{
		Position: mgl64.Vec2{0, 0},
		Velocity: mgl64.Vec2{60, 0},
		Gravity:  100,
		Damping:  1,
		Life:     1,
		FadeOut:  true,
	})

	if !p.Update(0.5) {
		t.Fatal("Particle should survive half its life")
	}
	if p.Velocity[1] != 50 {
		t.Errorf("Expected vy 50 after gravity, got %v", p.Velocity[1])
	}
	if p.Position[0] != 30 || p.Position[1] != 25 {
		t.Errorf("Unexpected position %v", p.Position)
	}
	if math.Abs(p.Alpha-0.5) > 1e-9 {
		t.Errorf("Expected alpha 0.5, got %v", p.Alpha)
	}
	if p.State != StateActive {
		t.Errorf("Expected Active after spawn phase, got %v", p.State)
	}

	if p.Update(0.5) {
		t.Error("Particle should die at zero life")
	}
	if p.State != StateDead {
		t.Errorf("Expected Dead, got %v", p.State)
	}
	if p.Update(0.1) {
		t.Error("Dead particle must stay dead")
	}
}

func TestParticle_Damping(t *testing.T) {
	p := &Particle{}
	p.apply(Options{Velocity: mgl64.Vec2{100, 0}, Damping: 0.5, Life: 10})

	p.Update(1.0 / parameter.DampingReferenceRate)
	if math.Abs(p.Velocity[0]-50) > 1e-9 {
		t.Errorf("Expected one reference frame to halve velocity, got %v", p.Velocity[0])
	}
}

func TestParticle_SpawnPhase(t *testing.T) {
	p := &Particle{}
	p.apply(Options{Life: 1})

	p.Update(parameter.SpawnPhase / 2)
	if p.State != StateSpawn {
		t.Errorf("Expected Spawn before phase elapses, got %v", p.State)
	}
	p.Update(parameter.SpawnPhase)
	if p.State != StateActive {
		t.Errorf("Expected Active after phase, got %v", p.State)
	}
}

func TestParticle_Defaults(t *testing.T) {
	p := &Particle{ID: 7}
	p.apply(Options{})

	if p.Size != parameter.DefaultParticleSize || p.Life != parameter.DefaultParticleLife {
		t.Errorf("Defaults not applied: size %v life %v", p.Size, p.Life)
	}
	if p.Damping != parameter.DefaultDamping {
		t.Errorf("Expected default damping, got %v", p.Damping)
	}
	if p.Color.A != 255 {
		t.Error("Zero color should default to opaque white")
	}

	p.Life = 0.1
	p.reset()
	if p.ID != 7 || p.Life != 0 {
		t.Errorf("Reset must keep ID and clear fields, got %+v", p)
	}
}

func TestParticle_AppearanceInterpolates(t *testing.T) {
	p := &Particle{}
	p.apply(Options{
		Position: mgl64.Vec2{0, 0},
		Velocity: mgl64.Vec2{10, 0},
		Damping:  1,
		Color:    color.NRGBA{R: 200, A: 200},
		Life:     2,
		FadeOut:  true,
	})
	p.Update(1)

	a := p.Appearance(0.5)
	if a.X != 5 {
		t.Errorf("Expected interpolated X 5, got %v", a.X)
	}
	if a.Color.A != 100 {
		t.Errorf("Expected faded alpha 100, got %d", a.Color.A)
	}
}

func TestParticle_Decorations(t *testing.T) {
	p := &Particle{}
	p.apply(Options{Velocity: mgl64.Vec2{10, 0}, Damping: 1, Life: 5, Trail: true, Chromatic: true})

	for i := 0; i < parameter.TrailLength+3; i++ {
		p.Update(0.1)
	}
	if p.Trail.Len() != parameter.TrailLength {
		t.Fatalf("Trail should be bounded at %d, got %d", parameter.TrailLength, p.Trail.Len())
	}
	if p.Trail.At(0)[0] >= p.Trail.At(p.Trail.Len() - 1)[0] {
		t.Error("Trail should be ordered oldest first")
	}

	out := p.AppendAppearances(nil, 1)
	want := parameter.TrailLength + 2 + 1
	if len(out) != want {
		t.Errorf("Expected %d appearances, got %d", want, len(out))
	}
	if body := out[len(out)-1]; body.Radius != p.Size {
		t.Error("Body should be drawn last")
	}
}
