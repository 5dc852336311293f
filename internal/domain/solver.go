package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInstance is returned when a solve is requested with no jobs.
var ErrEmptyInstance = errors.New("schedule instance has no jobs")

// Solver finds a forming-stage job order minimizing makespan. Small instances
// are solved exactly by branch-and-bound over forming-order permutations; the
// result carries an optimality certificate. Larger instances, or exact runs
// that exhaust the node budget, fall back to a setup-aware construction
// heuristic with pairwise improvement. Either way the reported makespan never
// exceeds the selection-order baseline, which is always computed and kept as
// the guaranteed-feasible floor.
type Solver struct {
	// MaxExactJobs bounds the instance size for exact search.
	MaxExactJobs int
	// NodeBudget caps branch-and-bound nodes before degrading to the
	// heuristic result.
	NodeBudget int
}

// NewSolver returns a solver with defaults sized for interactive planning.
func NewSolver() *Solver {
	return &Solver{
		MaxExactJobs: 9,
		NodeBudget:   2_000_000,
	}
}

// Schedule solves the instance and returns a Solution satisfying every model
// constraint, or an error. An InfeasibilityError from the post-solve
// revalidation indicates a defect in the model, not a caller mistake.
func (s *Solver) Schedule(inst ScheduleInstance) (*Solution, error) {
	n := len(inst.Jobs)
	if n == 0 {
		return nil, ErrEmptyInstance
	}

	baseline := scheduleSequence(inst, identityOrder(n))
	baseline.Method = MethodBaseline

	best := baseline
	timedOut := false

	visited := 0
	if n <= s.MaxExactJobs {
		exact, nodes, complete := s.branchAndBound(inst, baseline.Makespan)
		visited = nodes
		if complete {
			if exact != nil && exact.Makespan < best.Makespan-timeEpsilon {
				best = *exact
			}
			best.Method = MethodExact
			best.Optimal = true
		} else {
			timedOut = true
		}
	}

	if !best.Optimal {
		improved := s.improve(inst)
		if improved.Makespan < best.Makespan-timeEpsilon {
			best = improved
			best.Method = MethodHeuristic
		}
		best.TimedOut = timedOut
	}
	best.Nodes = visited

	if err := best.Validate(inst); err != nil {
		return nil, fmt.Errorf("solver produced invalid schedule: %w", err)
	}
	return &best, nil
}

// branchAndBound searches forming-order permutations depth-first, keeping the
// incumbent makespan from the baseline. Candidates are expanded in input order
// and only strict improvements are accepted, so ties resolve to the earliest
// input order and results are deterministic. Returns the best solution found
// (nil when the baseline was never beaten), the number of nodes visited, and
// whether the search ran to completion within the node budget.
func (s *Solver) branchAndBound(inst ScheduleInstance, incumbent float64) (*Solution, int, bool) {
	n := len(inst.Jobs)

	// Stage-independent remainder bounds: total forming work left plus the
	// cheapest vacuum+trim tail among unscheduled jobs.
	tail := make([]float64, n)
	for i, job := range inst.Jobs {
		tail[i] = job.Durations[StageVacuum] + job.Durations[StageTrim]
	}

	var (
		bestOrder []int
		bestSpan  = incumbent
		nodes     = 0
		exhausted = false
	)

	used := make([]bool, n)
	order := make([]int, 0, n)

	var walk func(formingEnd float64, groupFree map[string]float64, spanSoFar float64, prev JobCode)
	walk = func(formingEnd float64, groupFree map[string]float64, spanSoFar float64, prev JobCode) {
		if exhausted {
			return
		}
		nodes++
		if nodes > s.NodeBudget {
			exhausted = true
			return
		}

		if len(order) == n {
			if spanSoFar < bestSpan-timeEpsilon {
				bestSpan = spanSoFar
				bestOrder = append(bestOrder[:0], order...)
			}
			return
		}

		// Admissible remainder: remaining forming work must all pass through
		// the extruder, and at least one remaining job still needs its
		// vacuum+trim tail after that.
		remForming := 0.0
		minTail := -1.0
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			remForming += inst.Jobs[i].Durations[StageForming]
			if minTail < 0 || tail[i] < minTail {
				minTail = tail[i]
			}
		}
		bound := formingEnd + remForming + minTail
		if spanSoFar > bound {
			bound = spanSoFar
		}
		if bound >= bestSpan-timeEpsilon {
			return
		}

		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			job := inst.Jobs[i]

			start1 := formingEnd
			if len(order) == 0 {
				start1 = inst.Params.ExtruderWarmup
			} else {
				start1 += inst.Setups.Between(prev, job.Code)
			}
			end1 := start1 + job.Durations[StageForming]

			free, ok := groupFree[job.VacuumGroup]
			if !ok {
				free = inst.Params.VacuumWarmup
			}
			start2 := end1
			if free > start2 {
				start2 = free
			}
			end2 := start2 + job.Durations[StageVacuum]
			end3 := end2 + job.Durations[StageTrim]

			span := spanSoFar
			if end3 > span {
				span = end3
			}

			used[i] = true
			order = append(order, i)
			prevFree, hadFree := groupFree[job.VacuumGroup]
			groupFree[job.VacuumGroup] = end2 + inst.Params.VacuumChangeover

			walk(end1, groupFree, span, job.Code)

			if hadFree {
				groupFree[job.VacuumGroup] = prevFree
			} else {
				delete(groupFree, job.VacuumGroup)
			}
			order = order[:len(order)-1]
			used[i] = false

			if exhausted {
				return
			}
		}
	}

	walk(0, make(map[string]float64, n), 0, "")

	if exhausted {
		return nil, nodes, false
	}
	if bestOrder == nil {
		return nil, nodes, true
	}
	sol := scheduleSequence(inst, bestOrder)
	return &sol, nodes, true
}

// improve builds a forming order greedily by cheapest next setup (ties to
// input order), then applies pairwise swaps while the makespan strictly
// improves. Deterministic for identical inputs.
func (s *Solver) improve(inst ScheduleInstance) Solution {
	n := len(inst.Jobs)
	order := make([]int, 0, n)
	used := make([]bool, n)

	// Seed with the first input job, then chain by minimal setup cost.
	order = append(order, 0)
	used[0] = true
	for len(order) < n {
		prev := inst.Jobs[order[len(order)-1]].Code
		next := -1
		var nextCost float64
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			cost := inst.Setups.Between(prev, inst.Jobs[i].Code)
			if next == -1 || cost < nextCost {
				next = i
				nextCost = cost
			}
		}
		order = append(order, next)
		used[next] = true
	}

	best := scheduleSequence(inst, order)

	// Pairwise swap descent with strict improvement.
	improved := true
	for improved {
		improved = false
		for a := 0; a < n-1; a++ {
			for b := a + 1; b < n; b++ {
				order[a], order[b] = order[b], order[a]
				cand := scheduleSequence(inst, order)
				if cand.Makespan < best.Makespan-timeEpsilon {
					best = cand
					improved = true
				} else {
					order[a], order[b] = order[b], order[a]
				}
			}
		}
	}

	best.Method = MethodHeuristic
	return best
}
