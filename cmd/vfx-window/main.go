// Command vfx-window runs the particle engine in a desktop window
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/vfx/host"
	"github.com/lixenwraith/vfx/input"
	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/render"
	"github.com/lixenwraith/vfx/render/ebitenfx"
)

const (
	screenWidth  = 960
	screenHeight = 540
)

type game struct {
	h        *host.Host
	surface  *ebitenfx.Surface
	renderer *render.BatchRenderer

	items    []particle.Appearance
	alpha    float64
	chars    []rune
	counters render.Counters
	help     bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.help = !g.help
	}

	x, y := ebiten.CursorPosition()
	at := mgl64.Vec2{float64(x), float64(y)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.h.Apply(input.IntentDestroy, at)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.h.Apply(input.IntentCombo, at)
	}

	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if !g.h.Apply(g.h.Keys.Lookup(r), at) {
			return ebiten.Termination
		}
	}

	st := g.h.Runner.Step(g.h.Ctx.Clock.Now())
	g.alpha = st.Alpha
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.h.Particles.Theme().Background)

	g.items = g.h.Particles.Renderables(g.items[:0], g.alpha)
	g.surface.SetTarget(screen)
	g.renderer.Render(g.surface, g.items)
	g.counters = g.renderer.Counters()
	g.renderer.ResetCounters()

	ebitenutil.DebugPrint(screen, g.h.StatusLine(g.counters))
	if g.help {
		ebitenutil.DebugPrintAt(screen, g.h.Keys.Help(), 0, 16)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	opts := host.RegisterFlags(flag.CommandLine)
	flag.Parse()

	h, err := host.New(context.Background(), *opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfx-window: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()
	h.SetBounds(screenWidth, screenHeight)

	// The offscreen canvas only sizes the renderer's layer; frames draw to the screen image
	canvas := ebiten.NewImage(screenWidth, screenHeight)
	surface := ebitenfx.New(canvas)
	g := &game{
		h:        h,
		surface:  surface,
		renderer: render.NewBatchRenderer(h.Ctx, surface),
	}

	ebiten.SetWindowTitle("vfx")
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(time.Second / h.Scheduler.Tick()))

	h.Start()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		h.Ctx.Logger.Printf("vfx-window: %v", err)
		h.Close()
		fmt.Fprintf(os.Stderr, "vfx-window: %v\n", err)
		os.Exit(1)
	}
}
