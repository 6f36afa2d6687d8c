package parameter

// Batch Rendering
const (
	// MaxBatchSize is the default particle count per draw call before overflow
	MaxBatchSize = 500

	// ColorQuantizeShift drops low bits of each RGB channel when building batch keys
	ColorQuantizeShift = 3

	// AlphaQuantizeLevels is the number of alpha buckets in a batch key
	AlphaQuantizeLevels = 8

	// SizeBucketWidth is the radius span grouped into one size bucket
	SizeBucketWidth = 2.0
)
