package domain

// SetupKey identifies a (predecessor, successor) pair in the setup matrix.
type SetupKey struct {
	From JobCode
	To   JobCode
}

// SetupTable holds sequence-dependent setup durations in minutes between job
// codes at the forming stage. Read-only once built; shared by all runs.
type SetupTable map[SetupKey]float64

// Between returns the setup duration when switching from one job code to
// another. Missing pairs default to zero.
func (t SetupTable) Between(from, to JobCode) float64 {
	if t == nil {
		return 0
	}
	return t[SetupKey{From: from, To: to}]
}

// Set records a pairwise setup duration. Negative values are clamped to zero.
func (t SetupTable) Set(from, to JobCode, minutes float64) {
	if minutes < 0 {
		minutes = 0
	}
	t[SetupKey{From: from, To: to}] = minutes
}
