// Command vfx-bench drives the engine headless under spawn storms and prints quality and batching figures
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vfx/engine"
	"github.com/lixenwraith/vfx/host"
	"github.com/lixenwraith/vfx/input"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/particle"
	"github.com/lixenwraith/vfx/render"
	"github.com/lixenwraith/vfx/system"
)

const (
	viewWidth  = 1280
	viewHeight = 720
)

type benchConfig struct {
	Duration   time.Duration // Simulated time
	Storm      int           // Destroy events per frame
	ComboEvery int           // Frames between combos, 0 disables
	Load       time.Duration // Artificial work added to every frame
}

type summary struct {
	Frames       int
	Wall         time.Duration
	PeakActive   int
	MinQuality   float64
	DrawCalls    int64
	StateChanges int64
	Particles    int64
	Reports      int
	Critical     int
}

// reportPrinter prints monitoring reports as they arrive
type reportPrinter struct {
	out     io.Writer
	reports int
	crit    int
}

func (p *reportPrinter) Report(r system.Report) error {
	p.reports++
	if r.Level == system.LevelCritical {
		p.crit++
	}
	_, err := fmt.Fprintf(p.out, "memory  %-8s pressure %5.1f%%  used %7d B  compacted %d\n",
		r.Level, r.Pressure*100, r.UsedBytes, r.Compacted)
	return err
}

// run steps the engine on a simulated clock
// Each frame advances the clock by the larger of the frame interval and the frame's real cost,
// so a slow frame lowers the measured FPS and drives quality down
func run(ctx context.Context, h *host.Host, clock *engine.MockTimeProvider, bc benchConfig, out io.Writer) summary {
	rec := render.NewRecorder(viewWidth, viewHeight)
	renderer := render.NewBatchRenderer(h.Ctx, rec)
	printer := &reportPrinter{out: out}
	h.Memory.AddSink(printer)
	h.SetBounds(viewWidth, viewHeight)
	h.Start()

	sum := summary{MinQuality: 1}
	var items []particle.Appearance
	start := time.Now()
	end := clock.Now().Add(bc.Duration)
	nextLine := clock.Now().Add(time.Second)
	center := mgl64.Vec2{viewWidth / 2, viewHeight / 2}

	for clock.Now().Before(end) {
		if ctx.Err() != nil {
			break
		}
		frameStart := time.Now()

		h.Storm(bc.Storm)
		if bc.ComboEvery > 0 && sum.Frames%bc.ComboEvery == 0 {
			h.Apply(input.IntentCombo, center)
		}

		st := h.Runner.Step(clock.Now())
		items = h.Particles.Renderables(items[:0], st.Alpha)
		renderer.Render(rec, items)
		rec.Reset()
		if bc.Load > 0 {
			time.Sleep(bc.Load)
		}
		sum.Frames++

		ps := h.Particles.Stats()
		sum.PeakActive = max(sum.PeakActive, ps.Active)
		sum.MinQuality = min(sum.MinQuality, ps.Quality)

		if !clock.Now().Before(nextLine) {
			c := renderer.Counters()
			fmt.Fprintf(out, "frame   %6d  active %6d/%-6d  q %.2f %-8s fps %5.1f  draws/f %5.1f  states/f %5.1f\n",
				sum.Frames, ps.Active, ps.Budget, ps.Quality, ps.Zone, ps.FPS,
				perFrame(c.DrawCalls, c.Frames), perFrame(c.StateChanges, c.Frames))
			nextLine = nextLine.Add(time.Second)
		}

		clock.Advance(max(parameter.FrameInterval, time.Since(frameStart)))
	}

	c := renderer.Counters()
	sum.Wall = time.Since(start)
	sum.DrawCalls = c.DrawCalls
	sum.StateChanges = c.StateChanges
	sum.Particles = c.Particles
	sum.Reports = printer.reports
	sum.Critical = printer.crit
	return sum
}

func perFrame(total, frames int64) float64 {
	if frames == 0 {
		return 0
	}
	return float64(total) / float64(frames)
}

func main() {
	opts := host.RegisterFlags(flag.CommandLine)
	var bc benchConfig
	flag.DurationVar(&bc.Duration, "duration", 10*time.Second, "simulated run time")
	flag.IntVar(&bc.Storm, "storm", 4, "destroy events per frame")
	flag.IntVar(&bc.ComboEvery, "combo", 30, "frames between combos, 0 disables")
	flag.DurationVar(&bc.Load, "load", 0, "artificial work per frame")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := engine.NewMockTimeProvider(time.Now())
	opts.Clock = clock
	h, err := host.New(ctx, *opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vfx-bench: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	sum := run(ctx, h, clock, bc, os.Stdout)

	fmt.Printf("\n--- %d frames in %v wall ---\n", sum.Frames, sum.Wall.Round(time.Millisecond))
	fmt.Printf("peak active     %d (max %d)\n", sum.PeakActive, h.Config.MaxParticles)
	fmt.Printf("min quality     %.2f\n", sum.MinQuality)
	fmt.Printf("draw calls      %d (%.1f per frame)\n", sum.DrawCalls, perFrame(sum.DrawCalls, int64(sum.Frames)))
	fmt.Printf("state changes   %d (%.1f per frame)\n", sum.StateChanges, perFrame(sum.StateChanges, int64(sum.Frames)))
	if sum.DrawCalls > 0 {
		fmt.Printf("particles/draw  %.1f\n", float64(sum.Particles)/float64(sum.DrawCalls))
	}
	fmt.Printf("memory reports  %d (%d critical)\n", sum.Reports, sum.Critical)

	sched := h.Ctx.Status.Scope("scheduler.")
	for _, k := range slices.Sorted(maps.Keys(sched.Ints)) {
		fmt.Printf("%-15s %d\n", strings.TrimPrefix(k, "scheduler."), sched.Ints[k])
	}
}
