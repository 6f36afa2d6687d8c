package system

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/vfx/config"
	"github.com/lixenwraith/vfx/event"
	"github.com/lixenwraith/vfx/parameter"
	"github.com/lixenwraith/vfx/status"
)

// Zone is the FPS band the controller last observed
type Zone uint8

const (
	ZoneNormal Zone = iota
	ZoneWarning
	ZoneCritical
)

func (z Zone) String() string {
	switch z {
	case ZoneWarning:
		return "warning"
	case ZoneCritical:
		return "critical"
	default:
		return "normal"
	}
}

const qualityEpsilon = 1e-9

// QualityController adapts a quality level in [floor, 1] to measured FPS
// Drops fast and recovers slowly so the level does not oscillate around a threshold
type QualityController struct {
	bus *event.Bus

	warningFPS  float64
	criticalFPS float64
	nearTarget  float64

	level float64
	zone  Zone

	statLevel    *status.AtomicFloat
	statChanges  *atomic.Int64
	statWarnings *atomic.Int64
	statCritical *atomic.Int64
}

// NewQualityController starts at full quality
func NewQualityController(bus *event.Bus, q config.QualityThresholds, reg *status.Registry) *QualityController {
	c := &QualityController{
		bus:         bus,
		warningFPS:  q.WarningFPS,
		criticalFPS: q.CriticalFPS,
		nearTarget:  q.TargetFPS * parameter.NearTargetRatio,
		level:       parameter.QualityCeiling,

		statLevel:    reg.Floats.Get("quality.level"),
		statChanges:  reg.Ints.Get("quality.changes"),
		statWarnings: reg.Ints.Get("quality.warnings"),
		statCritical: reg.Ints.Get("quality.critical"),
	}
	c.statLevel.Store(c.level)
	return c
}

// Level returns the current quality
func (c *QualityController) Level() float64 { return c.level }

// Zone returns the last observed FPS zone
func (c *QualityController) Zone() Zone { return c.zone }

// Evaluate applies one step for the rolling fps; count is reported in signals
func (c *QualityController) Evaluate(fps float64, count int) float64 {
	prev := c.level
	var zone Zone

	switch {
	case fps < c.criticalFPS:
		zone = ZoneCritical
		c.level = parameter.QualityFloor
	case fps < c.warningFPS:
		zone = ZoneWarning
		if c.level > parameter.QualityWarningFloor {
			c.level = math.Max(parameter.QualityWarningFloor, c.level-parameter.QualityDecayStep)
		}
	case fps >= c.nearTarget:
		zone = ZoneNormal
		c.level = math.Min(parameter.QualityCeiling, c.level+parameter.QualityRecoverStep)
		if parameter.QualityCeiling-c.level < qualityEpsilon {
			c.level = parameter.QualityCeiling
		}
	default:
		zone = ZoneNormal
	}

	entered := zone != c.zone
	c.zone = zone

	c.publishChange(prev, fps)

	if entered {
		switch zone {
		case ZoneWarning:
			c.statWarnings.Add(1)
			c.bus.Publish(event.PerformanceWarning{FPS: fps, Count: count, Quality: c.level})
		case ZoneCritical:
			c.statCritical.Add(1)
			c.bus.Publish(event.PerformanceCritical{FPS: fps, Count: count, Quality: c.level, Source: event.SourceFPS})
		}
	}
	return c.level
}

// Pin forces the level, clamped to [floor, ceiling]
func (c *QualityController) Pin(level float64, fps float64) {
	prev := c.level
	c.level = math.Max(parameter.QualityFloor, math.Min(parameter.QualityCeiling, level))
	c.publishChange(prev, fps)
}

func (c *QualityController) publishChange(prev, fps float64) {
	if math.Abs(c.level-prev) < qualityEpsilon {
		return
	}
	c.statLevel.Store(c.level)
	c.statChanges.Add(1)
	c.bus.Publish(event.QualityChanged{Previous: prev, Current: c.level, FPS: fps})
}
