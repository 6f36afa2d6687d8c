package parameter

// Memory Manager
const (
	// MemoryBudgetMB is the default total particle memory budget across all pools
	MemoryBudgetMB = 16.0

	// MemoryWarningPressure is the used/budget ratio above which a warning is emitted
	MemoryWarningPressure = 0.7

	// MemoryAlertPressure is the used/budget ratio above which a critical issue is emitted
	MemoryAlertPressure = 0.9

	// MemoryOptimizePressure is the ratio at which pools are asked to compact
	MemoryOptimizePressure = 0.7
)
