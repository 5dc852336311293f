package domain

import "fmt"

// Solve methods reported on a Solution.
const (
	MethodExact     = "exact"
	MethodHeuristic = "heuristic"
	MethodBaseline  = "baseline"
)

// StageInterval is a (start, end) pair in minutes from the schedule origin.
type StageInterval struct {
	Start float64 `json:"start" bson:"start"`
	End   float64 `json:"end" bson:"end"`
}

// Duration returns the interval length in minutes.
func (i StageInterval) Duration() float64 {
	return i.End - i.Start
}

// JobSchedule holds one job's three stage intervals.
type JobSchedule struct {
	Job    Job
	Stages [StageCount]StageInterval
}

// Solution is a complete schedule: per-job stage intervals in forming-stage
// processing order, the makespan, and how the result was obtained. All
// constraint checks in Validate hold for any Solution returned by the solver.
type Solution struct {
	Jobs     []JobSchedule
	Makespan float64
	Method   string
	Optimal  bool
	TimedOut bool
	// Nodes is the number of search nodes visited when exact search ran.
	Nodes int
}

// InfeasibilityError signals that a produced schedule violates the model. For
// this topology (nonnegative durations, sequential stages, independent machine
// groups) it should never occur; seeing one is a modeling defect.
type InfeasibilityError struct {
	Constraint string
	Detail     string
}

func (e *InfeasibilityError) Error() string {
	return fmt.Sprintf("infeasible schedule: %s constraint violated: %s", e.Constraint, e.Detail)
}

// timeEpsilon absorbs float rounding when comparing schedule times.
const timeEpsilon = 1e-6

// Validate re-checks a Solution against the full constraint set: extruder
// warm-up, forming-stage sequencing with setups, stage precedence, vacuum
// machine group exclusivity with warm-up and changeover, and the makespan
// bound. Returns an InfeasibilityError naming the violated constraint class.
func (s *Solution) Validate(inst ScheduleInstance) error {
	if len(s.Jobs) == 0 {
		return nil
	}
	p := inst.Params

	// Extruder warm-up applies to the first job in forming order.
	first := s.Jobs[0]
	if first.Stages[StageForming].Start < p.ExtruderWarmup-timeEpsilon {
		return &InfeasibilityError{
			Constraint: "extruder-warmup",
			Detail: fmt.Sprintf("job %s starts forming at %.2f before warm-up %.2f",
				first.Job.Code, first.Stages[StageForming].Start, p.ExtruderWarmup),
		}
	}

	for k, js := range s.Jobs {
		// Stage durations must match the job's processing times.
		for st := 0; st < StageCount; st++ {
			want := js.Job.Durations[st]
			if diff := js.Stages[st].Duration() - want; diff < -timeEpsilon || diff > timeEpsilon {
				return &InfeasibilityError{
					Constraint: "stage-duration",
					Detail: fmt.Sprintf("job %s stage %d has length %.2f, want %.2f",
						js.Job.Code, st, js.Stages[st].Duration(), want),
				}
			}
		}

		// Forming-stage sequencing with sequence-dependent setup.
		if k > 0 {
			prev := s.Jobs[k-1]
			setup := inst.Setups.Between(prev.Job.Code, js.Job.Code)
			earliest := prev.Stages[StageForming].End + setup
			if js.Stages[StageForming].Start < earliest-timeEpsilon {
				return &InfeasibilityError{
					Constraint: "forming-sequence",
					Detail: fmt.Sprintf("job %s starts forming at %.2f before %.2f (predecessor %s + setup %.2f)",
						js.Job.Code, js.Stages[StageForming].Start, earliest, prev.Job.Code, setup),
				}
			}
		}

		// Stage precedence.
		if js.Stages[StageVacuum].Start < js.Stages[StageForming].End-timeEpsilon {
			return &InfeasibilityError{
				Constraint: "forming-vacuum-precedence",
				Detail:     fmt.Sprintf("job %s enters vacuum before forming finishes", js.Job.Code),
			}
		}
		if js.Stages[StageTrim].Start < js.Stages[StageVacuum].End-timeEpsilon {
			return &InfeasibilityError{
				Constraint: "vacuum-trim-precedence",
				Detail:     fmt.Sprintf("job %s enters trim before vacuum finishes", js.Job.Code),
			}
		}

		// Vacuum machine group warm-up floor.
		if js.Stages[StageVacuum].Start < p.VacuumWarmup-timeEpsilon {
			return &InfeasibilityError{
				Constraint: "vacuum-warmup",
				Detail: fmt.Sprintf("job %s starts vacuum at %.2f before warm-up %.2f",
					js.Job.Code, js.Stages[StageVacuum].Start, p.VacuumWarmup),
			}
		}

		// Makespan bound.
		if js.Stages[StageTrim].End > s.Makespan+timeEpsilon {
			return &InfeasibilityError{
				Constraint: "makespan-bound",
				Detail: fmt.Sprintf("job %s finishes trim at %.2f past makespan %.2f",
					js.Job.Code, js.Stages[StageTrim].End, s.Makespan),
			}
		}
	}

	// Vacuum machine group exclusivity with changeover between consecutive
	// jobs on the same group.
	byGroup := make(map[string][]JobSchedule)
	for _, js := range s.Jobs {
		byGroup[js.Job.VacuumGroup] = append(byGroup[js.Job.VacuumGroup], js)
	}
	for group, list := range byGroup {
		for a := 0; a < len(list); a++ {
			for b := a + 1; b < len(list); b++ {
				ia, ib := list[a].Stages[StageVacuum], list[b].Stages[StageVacuum]
				lo, hi := ia, ib
				if ib.Start < ia.Start {
					lo, hi = ib, ia
				}
				if hi.Start < lo.End+inst.Params.VacuumChangeover-timeEpsilon {
					return &InfeasibilityError{
						Constraint: "vacuum-group-exclusive",
						Detail: fmt.Sprintf("jobs %s and %s overlap (or miss changeover) on group %s",
							list[a].Job.Code, list[b].Job.Code, group),
					}
				}
			}
		}
	}

	return nil
}
