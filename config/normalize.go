package config

import (
	"time"

	"github.com/lixenwraith/vfx/parameter"
)

// Normalize resets every out-of-range field to its default
// Returns the keys that were corrected, in field order
func (c *Config) Normalize() []string {
	d := Default()
	var fixed []string

	fix := func(key string, bad bool, apply func()) {
		if bad {
			apply()
			fixed = append(fixed, key)
		}
	}

	fix("max_particles", c.MaxParticles <= 0, func() { c.MaxParticles = d.MaxParticles })
	fix("pre_fill_count", c.PreFillCount < 0, func() { c.PreFillCount = d.PreFillCount })
	if c.PreFillCount > c.MaxParticles {
		c.PreFillCount = c.MaxParticles
		fixed = append(fixed, "pre_fill_count")
	}
	fix("max_batch_size", c.MaxBatchSize <= 0, func() { c.MaxBatchSize = d.MaxBatchSize })
	fix("spatial_grid_cell_size", c.SpatialGridCellSize <= 0, func() { c.SpatialGridCellSize = d.SpatialGridCellSize })
	fix("lod_distance_threshold", c.LODDistanceThreshold <= 0, func() { c.LODDistanceThreshold = d.LODDistanceThreshold })
	fix("lod_mode", c.LODMode != LODStochastic && c.LODMode != LODStride, func() { c.LODMode = d.LODMode })
	fix("lod_update_chance", c.LODUpdateChance <= 0 || c.LODUpdateChance > 1, func() { c.LODUpdateChance = d.LODUpdateChance })
	fix("lod_stride", c.LODStride < 1, func() { c.LODStride = d.LODStride })

	q := &c.QualityThresholds
	fix("quality_thresholds.target_fps", q.TargetFPS <= 0, func() { q.TargetFPS = d.QualityThresholds.TargetFPS })
	fix("quality_thresholds.critical_fps", q.CriticalFPS <= 0 || q.CriticalFPS >= q.TargetFPS, func() {
		q.CriticalFPS = min(d.QualityThresholds.CriticalFPS, q.TargetFPS/2)
	})
	fix("quality_thresholds.warning_fps", q.WarningFPS <= q.CriticalFPS || q.WarningFPS >= q.TargetFPS, func() {
		q.WarningFPS = (q.CriticalFPS + q.TargetFPS) / 2
	})

	fix("memory_budget_mb", c.MemoryBudgetMB <= 0, func() { c.MemoryBudgetMB = d.MemoryBudgetMB })
	fix("memory_threshold_mb", c.MemoryThresholdMB <= 0, func() { c.MemoryThresholdMB = d.MemoryThresholdMB })
	fix("monitoring_interval_ms",
		time.Duration(c.MonitoringIntervalMs)*time.Millisecond < parameter.MinMonitoringInterval,
		func() { c.MonitoringIntervalMs = d.MonitoringIntervalMs })
	fix("tick_rate", c.TickRate <= 0 || c.TickRate > 1000, func() { c.TickRate = d.TickRate })
	fix("max_updates_per_frame", c.MaxUpdatesPerFrame < 1, func() { c.MaxUpdatesPerFrame = d.MaxUpdatesPerFrame })
	fix("theme", c.Theme == "", func() { c.Theme = d.Theme })
	fix("telemetry.addr", c.Telemetry.Addr == "", func() { c.Telemetry.Addr = d.Telemetry.Addr })
	fix("audio.volume", c.Audio.Volume > 0 || c.Audio.Volume < -10, func() { c.Audio.Volume = d.Audio.Volume })

	return fixed
}
