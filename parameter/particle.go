package parameter

// Particle Pool Sizing
const (
	// MaxParticles is the default hard cap on simultaneously active particles
	MaxParticles = 2000

	// PreFillCount is the default number of particles constructed up front
	PreFillCount = 200

	// MinPoolCapacity floors object pool capacity during shrink
	MinPoolCapacity = 64

	// UpdateBatchSize is the default sub-batch length of a pool update pass
	UpdateBatchSize = 256
)

// Spatial Index
const (
	// SpatialGridCellSize is the default edge length of a spatial grid cell in world units
	SpatialGridCellSize = 64.0

	// SpatialCompactThreshold is the number of cell deletions after which the cell map is rebuilt
	SpatialCompactThreshold = 4096
)

// Level of Detail
const (
	// LODDistanceThreshold is the camera distance beyond which particles update at reduced rate
	LODDistanceThreshold = 800.0

	// LODUpdateChance is the per-frame update probability of a distant particle in stochastic mode
	LODUpdateChance = 0.5

	// LODStride updates a distant particle every Nth frame in stride mode
	LODStride = 2
)

// Particle Physics Defaults
const (
	// DefaultParticleLife is the lifespan in seconds used when options leave it unset
	DefaultParticleLife = 1.0

	// DefaultParticleSize is the radius used when options leave it unset
	DefaultParticleSize = 3.0

	// DefaultDamping is the per-1/60s velocity retention factor
	DefaultDamping = 0.98

	// DampingReferenceRate converts per-frame damping into a per-second exponent
	DampingReferenceRate = 60.0

	// SpawnPhase is the time in seconds a particle stays in Spawn state before turning Active
	SpawnPhase = 0.08

	// TrailLength is the number of past positions retained by trail-decorated particles
	TrailLength = 8
)

// Memory Estimation
const (
	// ParticleBytes is the estimated footprint of one particle including trail storage
	ParticleBytes = 320

	// CellBytes is the estimated footprint of one spatial grid cell
	CellBytes = 96

	// MemoryThresholdMB is the default per-pool estimate above which maintenance shrinks capacity
	MemoryThresholdMB = 4.0
)
