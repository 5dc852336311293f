package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanLine records one scheduled job inside a persisted plan.
type PlanLine struct {
	JobCode     JobCode                   `json:"jobCode" bson:"jobCode"`
	Product     string                    `json:"product" bson:"product"`
	Quantity    int                       `json:"quantity" bson:"quantity"`
	VacuumGroup string                    `json:"vacuumGroup" bson:"vacuumGroup"`
	TrimProcess string                    `json:"trimProcess" bson:"trimProcess"`
	Stages      [StageCount]StageInterval `json:"stages" bson:"stages"`
}

// Plan is the persisted result of one scheduling run: the solved schedule,
// its calendar-projected timeline, and how the solution was obtained.
type Plan struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	PlanID          string     `json:"planId" bson:"planId"`
	Origin          time.Time  `json:"origin" bson:"origin"`
	Lines           []PlanLine `json:"lines" bson:"lines"`
	MakespanMinutes float64    `json:"makespanMinutes" bson:"makespanMinutes"`
	Method          string     `json:"method" bson:"method"`
	Optimal         bool       `json:"optimal" bson:"optimal"`
	TimedOut        bool       `json:"timedOut" bson:"timedOut"`
	Timeline        Timeline   `json:"timeline" bson:"timeline"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
}

// NewPlan assembles a Plan from a solved schedule and its projected timeline.
func NewPlan(sol *Solution, origin time.Time, timeline Timeline) *Plan {
	now := time.Now()
	lines := make([]PlanLine, 0, len(sol.Jobs))
	for _, js := range sol.Jobs {
		lines = append(lines, PlanLine{
			JobCode:     js.Job.Code,
			Product:     js.Job.Product,
			Quantity:    js.Job.Quantity,
			VacuumGroup: js.Job.VacuumGroup,
			TrimProcess: js.Job.TrimProcess,
			Stages:      js.Stages,
		})
	}
	return &Plan{
		PlanID:          generatePlanID(now),
		Origin:          origin,
		Lines:           lines,
		MakespanMinutes: sol.Makespan,
		Method:          sol.Method,
		Optimal:         sol.Optimal,
		TimedOut:        sol.TimedOut,
		Timeline:        timeline,
		CreatedAt:       now,
	}
}

func generatePlanID(now time.Time) string {
	return fmt.Sprintf("PLN-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
}

// PlanCreatedEvent is published after a plan is persisted.
type PlanCreatedEvent struct {
	PlanID          string    `json:"planId"`
	Jobs            int       `json:"jobs"`
	MakespanMinutes float64   `json:"makespanMinutes"`
	Method          string    `json:"method"`
	Optimal         bool      `json:"optimal"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EventType returns the event type identifier.
func (e *PlanCreatedEvent) EventType() string {
	return "mes.plan.created"
}
