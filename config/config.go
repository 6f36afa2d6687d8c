package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/vfx/parameter"
)

// ErrUnknownKeys is returned by Parse when the document carries keys with no matching field
// The returned Config is still fully populated from the known keys
var ErrUnknownKeys = errors.New("unknown config keys")

// LOD update modes
const (
	LODStochastic = "stochastic"
	LODStride     = "stride"
)

// QualityThresholds holds the FPS zones driving adaptive quality
type QualityThresholds struct {
	WarningFPS  float64 `toml:"warning_fps"`
	CriticalFPS float64 `toml:"critical_fps"`
	TargetFPS   float64 `toml:"target_fps"`
}

// TelemetryConfig controls the websocket report stream
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// AudioConfig controls event sound cues
type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// Config is the complete engine configuration, every field optional
type Config struct {
	MaxParticles         int     `toml:"max_particles"`
	PreFillCount         int     `toml:"pre_fill_count"`
	MaxBatchSize         int     `toml:"max_batch_size"`
	SpatialGridCellSize  float64 `toml:"spatial_grid_cell_size"`
	LODDistanceThreshold float64 `toml:"lod_distance_threshold"`
	LODMode              string  `toml:"lod_mode"`
	LODUpdateChance      float64 `toml:"lod_update_chance"`
	LODStride            int     `toml:"lod_stride"`
	Seed                 uint64  `toml:"seed"`

	QualityThresholds QualityThresholds `toml:"quality_thresholds"`

	MemoryBudgetMB       float64 `toml:"memory_budget_mb"`
	MemoryThresholdMB    float64 `toml:"memory_threshold_mb"`
	MonitoringIntervalMs int     `toml:"monitoring_interval_ms"`

	TickRate           int `toml:"tick_rate"`
	MaxUpdatesPerFrame int `toml:"max_updates_per_frame"`

	Theme string `toml:"theme"`
	Debug bool   `toml:"debug"`

	Telemetry TelemetryConfig `toml:"telemetry"`
	Audio     AudioConfig     `toml:"audio"`
}

// Default returns the configuration built from parameter constants
func Default() Config {
	return Config{
		MaxParticles:         parameter.MaxParticles,
		PreFillCount:         parameter.PreFillCount,
		MaxBatchSize:         parameter.MaxBatchSize,
		SpatialGridCellSize:  parameter.SpatialGridCellSize,
		LODDistanceThreshold: parameter.LODDistanceThreshold,
		LODMode:              LODStochastic,
		LODUpdateChance:      parameter.LODUpdateChance,
		LODStride:            parameter.LODStride,
		Seed:                 1,
		QualityThresholds: QualityThresholds{
			WarningFPS:  parameter.WarningFPS,
			CriticalFPS: parameter.CriticalFPS,
			TargetFPS:   parameter.TargetFPS,
		},
		MemoryBudgetMB:       parameter.MemoryBudgetMB,
		MemoryThresholdMB:    parameter.MemoryThresholdMB,
		MonitoringIntervalMs: int(parameter.MonitoringInterval / time.Millisecond),
		TickRate:             parameter.TickRate,
		MaxUpdatesPerFrame:   parameter.MaxUpdatesPerFrame,
		Theme:                "default",
		Telemetry: TelemetryConfig{
			Addr: parameter.TelemetryDefaultAddr,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  parameter.CueDefaultVolume,
		},
	}
}

// Parse decodes a TOML document over the defaults
// Unknown keys yield ErrUnknownKeys alongside the decoded config
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Load reads and parses the file at path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// ApplyEnv overrides selected keys from VFX_* environment variables
// Malformed values are ignored
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("VFX_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := getenv("VFX_MAX_PARTICLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxParticles = n
		}
	}
	if v := getenv("VFX_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := getenv("VFX_AUDIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audio.Enabled = b
		}
	}
	if v := getenv("VFX_THEME"); v != "" {
		c.Theme = v
	}
}

// TickInterval returns the fixed simulation step
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return parameter.TickInterval
	}
	return time.Second / time.Duration(c.TickRate)
}

// MonitoringInterval returns the memory check period
func (c Config) MonitoringInterval() time.Duration {
	return time.Duration(c.MonitoringIntervalMs) * time.Millisecond
}

// MemoryBudgetBytes converts the budget to bytes
func (c Config) MemoryBudgetBytes() int64 {
	return int64(c.MemoryBudgetMB * 1024 * 1024)
}

// MemoryThresholdBytes converts the per-pool maintenance threshold to bytes
func (c Config) MemoryThresholdBytes() int64 {
	return int64(c.MemoryThresholdMB * 1024 * 1024)
}
