package domain

// scheduleSequence computes tight start and finish times for a fixed
// forming-stage order. It is a pure fold: forming times accumulate along the
// sequence (warm-up, processing, setup), each job then claims its vacuum
// machine group at the later of its forming finish and the group's next free
// time (warm-up floor, changeover after each job), and trimming follows the
// vacuum finish immediately. Jobs sharing a group are serialized in sequence
// order, which equals forming-completion order.
func scheduleSequence(inst ScheduleInstance, order []int) Solution {
	p := inst.Params
	jobs := make([]JobSchedule, 0, len(order))
	groupFree := make(map[string]float64, len(order))

	formingCursor := 0.0
	makespan := 0.0
	var prevCode JobCode

	for k, idx := range order {
		job := inst.Jobs[idx]

		start1 := formingCursor
		if k == 0 {
			start1 = p.ExtruderWarmup
		} else {
			start1 += inst.Setups.Between(prevCode, job.Code)
		}
		end1 := start1 + job.Durations[StageForming]
		formingCursor = end1
		prevCode = job.Code

		free, ok := groupFree[job.VacuumGroup]
		if !ok {
			free = p.VacuumWarmup
		}
		start2 := end1
		if free > start2 {
			start2 = free
		}
		end2 := start2 + job.Durations[StageVacuum]
		groupFree[job.VacuumGroup] = end2 + p.VacuumChangeover

		start3 := end2
		end3 := start3 + job.Durations[StageTrim]
		if end3 > makespan {
			makespan = end3
		}

		jobs = append(jobs, JobSchedule{
			Job: job,
			Stages: [StageCount]StageInterval{
				{Start: start1, End: end1},
				{Start: start2, End: end2},
				{Start: start3, End: end3},
			},
		})
	}

	return Solution{Jobs: jobs, Makespan: makespan}
}

// identityOrder returns 0..n-1, the selection (input) order.
func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
