package domain

import (
	"fmt"
	"sort"
	"time"
)

// ExtruderMachine is the fixed machine identifier for the forming stage.
const ExtruderMachine = "extruder"

// TimelineEntry is one (job, stage) interval on the wall clock.
type TimelineEntry struct {
	Label   string    `json:"label" bson:"label"`
	Machine string    `json:"machine" bson:"machine"`
	Start   time.Time `json:"start" bson:"start"`
	End     time.Time `json:"end" bson:"end"`
}

// Timeline is the flat, start-ordered list of all stage intervals of a
// Solution projected onto the calendar. It is produced once per Solution and
// immutable thereafter.
type Timeline []TimelineEntry

// BuildTimeline projects every stage interval of the solution onto the wall
// clock from the origin, shifts intervals out of the weekend blackout
// independently of each other, and returns the entries sorted by start time
// (ties by label, for stable output).
func BuildTimeline(sol *Solution, origin time.Time, cal BusinessCalendar) Timeline {
	entries := make(Timeline, 0, len(sol.Jobs)*StageCount)

	for _, js := range sol.Jobs {
		labels := [StageCount]string{
			fmt.Sprintf("%s - forming", js.Job.Code),
			fmt.Sprintf("%s - vacuum (%s)", js.Job.Code, js.Job.VacuumGroup),
			fmt.Sprintf("%s - trim (%s)", js.Job.Code, js.Job.TrimProcess),
		}
		machines := [StageCount]string{
			ExtruderMachine,
			js.Job.VacuumGroup,
			js.Job.TrimProcess,
		}

		for st := 0; st < StageCount; st++ {
			start := origin.Add(minutes(js.Stages[st].Start))
			end := origin.Add(minutes(js.Stages[st].End))
			start, end = cal.Project(start, end)
			entries = append(entries, TimelineEntry{
				Label:   labels[st],
				Machine: machines[st],
				Start:   start,
				End:     end,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		return entries[i].Label < entries[j].Label
	})

	return entries
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
