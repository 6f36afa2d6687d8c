package engine

import (
	"testing"
	"time"
)

func TestFPSMeter_Windows(t *testing.T) {
	m := NewFPSMeter(100*time.Millisecond, 4, nil)
	var changes []float64
	m.OnChange(func(fps float64) { changes = append(changes, fps) })

	now := epoch
	m.Frame(now)
	// 5 more frames over 100ms closes the first window
	for i := 0; i < 5; i++ {
		now = now.Add(20 * time.Millisecond)
		m.Frame(now)
	}

	if m.Samples() != 1 {
		t.Fatalf("Expected 1 closed window, got %d", m.Samples())
	}
	if c := m.Current(); c < 59 || c > 61 {
		t.Errorf("Expected ~60 fps (6 frames / 100ms), got %v", c)
	}
	if len(changes) != 1 {
		t.Errorf("Expected one change notification, got %d", len(changes))
	}
}

func TestFPSMeter_RingBounded(t *testing.T) {
	m := NewFPSMeter(100*time.Millisecond, 3, nil)
	now := epoch
	rates := []int{10, 20, 25, 40, 50}

	m.Frame(now)
	for _, per := range rates {
		step := 100 * time.Millisecond / time.Duration(per)
		for i := 0; i < per; i++ {
			now = now.Add(step)
			m.Frame(now)
		}
	}

	if m.Samples() != 3 {
		t.Fatalf("Expected ring bounded at 3, got %d", m.Samples())
	}
	if m.Min() <= 0 || m.Max() < m.Avg() || m.Avg() < m.Min() {
		t.Errorf("Inconsistent min/avg/max %v/%v/%v", m.Min(), m.Avg(), m.Max())
	}
	// Oldest windows evicted, min comes from the 25/window rate
	if m.Min() < 240 {
		t.Errorf("Expected evicted low samples, min %v", m.Min())
	}
}

func TestFPSMeter_NoChangeNoCallback(t *testing.T) {
	m := NewFPSMeter(100*time.Millisecond, 10, nil)
	calls := 0
	m.OnChange(func(float64) { calls++ })

	now := epoch
	m.Frame(now)
	for w := 0; w < 3; w++ {
		for i := 0; i < 10; i++ {
			now = now.Add(10 * time.Millisecond)
			m.Frame(now)
		}
	}
	// First window includes the opening frame, the rest are identical
	if calls != 2 {
		t.Errorf("Steady rate should notify only on change, got %d", calls)
	}
}
