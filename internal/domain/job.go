package domain

// Stage indices for the three-stage line.
const (
	StageForming = 0 // extruder
	StageVacuum  = 1 // parallel vacuum-forming machines
	StageTrim    = 2 // trimming
)

// StageCount is the number of stages every job passes through, in order.
const StageCount = 3

// JobCode identifies a job type (stock code) in the catalog and setup matrix.
type JobCode string

// Job is a production job normalized for scheduling: per-stage processing
// durations in minutes, the vacuum machine group it is bound to, and the trim
// process type. Immutable once scheduling begins.
type Job struct {
	Code        JobCode
	Product     string
	Quantity    int
	Durations   [StageCount]float64 // minutes
	VacuumGroup string
	TrimProcess string
}

// NewJob derives a Job from catalog base rates (seconds per unit, per stage)
// and the requested quantity. Duration at each stage is
// baseSeconds * quantity / 60 minutes, matching the catalog convention.
func NewJob(code JobCode, product string, quantity int, baseSecondsPerUnit [StageCount]float64, vacuumGroup, trimProcess string) Job {
	var durations [StageCount]float64
	for s := 0; s < StageCount; s++ {
		durations[s] = baseSecondsPerUnit[s] * float64(quantity) / 60.0
	}
	return Job{
		Code:        code,
		Product:     product,
		Quantity:    quantity,
		Durations:   durations,
		VacuumGroup: vacuumGroup,
		TrimProcess: trimProcess,
	}
}
