package domain

// Parameters holds the global line parameters, all in minutes.
type Parameters struct {
	ExtruderWarmup   float64
	VacuumWarmup     float64
	VacuumChangeover float64
}

// DefaultParameters returns the production line defaults: 180-minute extruder
// warm-up, 30-minute vacuum machine warm-up, 30-minute changeover between
// consecutive jobs on the same vacuum machine group.
func DefaultParameters() Parameters {
	return Parameters{
		ExtruderWarmup:   180,
		VacuumWarmup:     30,
		VacuumChangeover: 30,
	}
}

// ScheduleInstance bundles the jobs to schedule with the setup matrix and
// line parameters. Inputs are treated as immutable snapshots for the duration
// of a solve; the forming-stage order is a solver decision, not part of the
// instance.
type ScheduleInstance struct {
	Jobs   []Job
	Setups SetupTable
	Params Parameters
}

// NewScheduleInstance creates an instance with default line parameters.
func NewScheduleInstance(jobs []Job, setups SetupTable) ScheduleInstance {
	return ScheduleInstance{
		Jobs:   jobs,
		Setups: setups,
		Params: DefaultParameters(),
	}
}
