package domain

import "time"

// BusinessCalendar defines the weekend blackout window and where shifted work
// resumes. No work may start on Saturday at or after BlackoutHour, or at any
// time on Sunday; shifted intervals resume the following Monday at ResumeHour.
type BusinessCalendar struct {
	BlackoutHour int // Saturday hour at which the blackout opens
	ResumeHour   int // Monday hour at which work resumes
}

// DefaultCalendar returns the plant calendar: blackout from Saturday 23:00
// through Sunday, work resuming Monday 07:00.
func DefaultCalendar() BusinessCalendar {
	return BusinessCalendar{BlackoutHour: 23, ResumeHour: 7}
}

// inBlackout reports whether a start timestamp falls inside the blackout.
func (c BusinessCalendar) inBlackout(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday:
		return t.Hour() >= c.BlackoutHour
	case time.Sunday:
		return true
	}
	return false
}

// nextResume returns the Monday ResumeHour following t.
func (c BusinessCalendar) nextResume(t time.Time) time.Time {
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	shifted := t.AddDate(0, 0, days)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), c.ResumeHour, 0, 0, 0, shifted.Location())
}

// Project maps an interval into business hours. An interval whose start is
// outside the blackout is returned unchanged. Otherwise the whole interval
// moves to the next Monday resume time with its duration preserved, and the
// check repeats until the start lands outside the blackout. Each pass advances
// at least one week, so the loop terminates.
func (c BusinessCalendar) Project(start, end time.Time) (time.Time, time.Time) {
	for c.inBlackout(start) {
		duration := end.Sub(start)
		start = c.nextResume(start)
		end = start.Add(duration)
	}
	return start, end
}
