// Command vfx-term runs the particle engine in a terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/core"
	"github.com/lixenwraith/vfx/host"
	"github.com/lixenwraith/vfx/input"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/render"
	"github.com/lixenwraith/vfx/render/tcellfx"
)

// Cells are roughly twice as tall as wide
const (
	cellWidth  = 8
	cellHeight = 16
)

type app struct {
	h        *host.Host
	screen   tcell.Screen
	surface  *tcellfx.Surface
	renderer *render.BatchRenderer

	items    []particle.Appearance
	alpha    float64
	col, row int
	help     bool
}

func (a *app) pointer() mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(a.col) + 0.5) * cellWidth,
		(float64(a.row) + 0.5) * cellHeight,
	}
}

func (a *app) resize() {
	a.surface.Sync()
	w, ht := a.surface.Size()
	a.h.SetBounds(float64(w), float64(ht))
	cols, rows := a.screen.Size()
	a.col = min(a.col, max(cols-1, 0))
	a.row = min(a.row, max(rows-1, 0))
}

// handle returns false to quit
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyF1:
			a.help = !a.help
		case tcell.KeyLeft:
			a.col = max(a.col-1, 0)
		case tcell.KeyRight:
			a.col++
		case tcell.KeyUp:
			a.row = max(a.row-1, 0)
		case tcell.KeyDown:
			a.row++
		case tcell.KeyEnter:
			a.h.Apply(input.IntentDestroy, a.pointer())
		case tcell.KeyRune:
			return a.h.Apply(a.h.Keys.Lookup(ev.Rune()), a.pointer())
		}
		cols, rows := a.screen.Size()
		a.col = min(a.col, max(cols-1, 0))
		a.row = min(a.row, max(rows-1, 0))

	case *tcell.EventMouse:
		a.col, a.row = ev.Position()
		switch {
		case ev.Buttons()&tcell.Button1 != 0:
			a.h.Apply(input.IntentDestroy, a.pointer())
		case ev.Buttons()&tcell.Button2 != 0:
			a.h.Apply(input.IntentCombo, a.pointer())
		}

	case *tcell.EventResize:
		a.resize()
	}
	return true
}

func (a *app) draw() {
	a.surface.SetBackground(a.h.Particles.Theme().Background)
	a.surface.Clear()
	a.items = a.h.Particles.Renderables(a.items[:0], a.alpha)
	a.renderer.Render(a.surface, a.items)
	counters := a.renderer.Counters()
	a.renderer.ResetCounters()

	a.surface.Flush()
	a.text(0, a.h.StatusLine(counters))
	if a.help {
		a.text(1, a.h.Keys.Help())
	}
	a.screen.ShowCursor(a.col, a.row)
	a.screen.Show()
}

func (a *app) text(row int, s string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	col := 0
	for _, r := range s {
		a.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func (a *app) run(ctx context.Context) {
	ticker := time.NewTicker(parameter.FrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !a.handle(ev) {
				return
			}
		case <-ticker.C:
			st := a.h.Runner.Step(a.h.Ctx.Clock.Now())
			a.alpha = st.Alpha
			a.draw()
		}
	}
}

func main() {
	opts := host.RegisterFlags(flag.CommandLine)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h, err := host.New(ctx, *opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfx-term: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfx-term: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "vfx-term: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	// Restore the terminal before printing a crash
	core.OnCrash(screen.Fini)
	defer func() {
		core.HandleCrash(recover())
	}()
	defer screen.Fini()

	surface := tcellfx.New(screen, cellWidth, cellHeight)
	a := &app{
		h:        h,
		screen:   screen,
		surface:  surface,
		renderer: render.NewBatchRenderer(h.Ctx, surface),
	}
	cols, rows := screen.Size()
	a.col, a.row = cols/2, rows/2
	a.resize()

	h.Start()
	a.run(ctx)
}
