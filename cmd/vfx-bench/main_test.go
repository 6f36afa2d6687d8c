package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/vfx/config"
	"github.com/lixenwraith/vfx/engine"
	"github.com/lixenwraith/vfx/host"
)

func newBenchHost(t *testing.T) (*host.Host, *engine.MockTimeProvider) {
	t.Helper()
	clock := engine.NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	h, err := host.New(context.Background(), host.Options{
		Getenv: func(string) string { return "" },
		Clock:  clock,
		Logger: log.New(io.Discard, "", 0),
		Audio:  &config.AudioConfig{},
	})
	if err != nil {
		t.Fatalf("host.New: %v", err)
	}
	t.Cleanup(h.Close)
	return h, clock
}

func TestRun_StormStaysWithinCapacity(t *testing.T) {
	h, clock := newBenchHost(t)
	var out bytes.Buffer

	sum := run(context.Background(), h, clock, benchConfig{
		Duration:   3 * time.Second,
		Storm:      20,
		ComboEvery: 10,
	}, &out)

	if sum.Frames < 20 {
		t.Errorf("Expected at least 20 simulated frames, got %d", sum.Frames)
	}
	if sum.PeakActive > h.Config.MaxParticles {
		t.Errorf("Expected active <= %d, got %d", h.Config.MaxParticles, sum.PeakActive)
	}
	if sum.DrawCalls == 0 || sum.Particles == 0 {
		t.Errorf("Expected drawing, got %+v", sum)
	}
	if sum.Reports == 0 {
		t.Error("Expected memory reports on the monitoring interval")
	}
	if !strings.Contains(out.String(), "frame ") || !strings.Contains(out.String(), "memory ") {
		t.Errorf("Expected progress and memory lines, got %q", out.String())
	}
}

func TestRun_Cancelled(t *testing.T) {
	h, clock := newBenchHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum := run(ctx, h, clock, benchConfig{Duration: time.Minute}, io.Discard)
	if sum.Frames != 0 {
		t.Errorf("Expected no frames after cancel, got %d", sum.Frames)
	}
}

func TestPerFrame(t *testing.T) {
	if perFrame(10, 0) != 0 || perFrame(10, 4) != 2.5 {
		t.Error("Unexpected per-frame averages")
	}
}
