package application

import (
	"time"

	"github.com/mes-platform/scheduling-service/internal/domain"
)

// TimelineEntryDTO is one (job, stage) interval for rendering or export.
type TimelineEntryDTO struct {
	Label   string    `json:"label"`
	Machine string    `json:"machine"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// PlanLineDTO is one scheduled job with raw minute offsets.
type PlanLineDTO struct {
	JobCode      string  `json:"jobCode"`
	Product      string  `json:"product"`
	Quantity     int     `json:"quantity"`
	VacuumGroup  string  `json:"vacuumGroup"`
	TrimProcess  string  `json:"trimProcess"`
	FormingStart float64 `json:"formingStart"`
	FormingEnd   float64 `json:"formingEnd"`
	VacuumStart  float64 `json:"vacuumStart"`
	VacuumEnd    float64 `json:"vacuumEnd"`
	TrimStart    float64 `json:"trimStart"`
	TrimEnd      float64 `json:"trimEnd"`
}

// PlanDTO is the API representation of a persisted plan.
type PlanDTO struct {
	PlanID          string             `json:"planId"`
	Origin          time.Time          `json:"origin"`
	MakespanMinutes float64            `json:"makespanMinutes"`
	Method          string             `json:"method"`
	Optimal         bool               `json:"optimal"`
	TimedOut        bool               `json:"timedOut"`
	Lines           []PlanLineDTO      `json:"lines"`
	Timeline        []TimelineEntryDTO `json:"timeline"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ProductDTO is a catalog row exposed for selection UIs.
type ProductDTO struct {
	ProductName string `json:"productName"`
	JobCode     string `json:"jobCode"`
	VacuumGroup string `json:"vacuumGroup"`
	TrimProcess string `json:"trimProcess"`
}

// ToPlanDTO maps a domain Plan to its API representation.
func ToPlanDTO(plan *domain.Plan) *PlanDTO {
	lines := make([]PlanLineDTO, 0, len(plan.Lines))
	for _, l := range plan.Lines {
		lines = append(lines, PlanLineDTO{
			JobCode:      string(l.JobCode),
			Product:      l.Product,
			Quantity:     l.Quantity,
			VacuumGroup:  l.VacuumGroup,
			TrimProcess:  l.TrimProcess,
			FormingStart: l.Stages[domain.StageForming].Start,
			FormingEnd:   l.Stages[domain.StageForming].End,
			VacuumStart:  l.Stages[domain.StageVacuum].Start,
			VacuumEnd:    l.Stages[domain.StageVacuum].End,
			TrimStart:    l.Stages[domain.StageTrim].Start,
			TrimEnd:      l.Stages[domain.StageTrim].End,
		})
	}

	timeline := make([]TimelineEntryDTO, 0, len(plan.Timeline))
	for _, e := range plan.Timeline {
		timeline = append(timeline, TimelineEntryDTO{
			Label:   e.Label,
			Machine: e.Machine,
			Start:   e.Start,
			End:     e.End,
		})
	}

	return &PlanDTO{
		PlanID:          plan.PlanID,
		Origin:          plan.Origin,
		MakespanMinutes: plan.MakespanMinutes,
		Method:          plan.Method,
		Optimal:         plan.Optimal,
		TimedOut:        plan.TimedOut,
		Lines:           lines,
		Timeline:        timeline,
		CreatedAt:       plan.CreatedAt,
	}
}

// ToProductDTO maps a catalog record to its API representation.
func ToProductDTO(rec domain.ProductRecord) ProductDTO {
	return ProductDTO{
		ProductName: rec.ProductName,
		JobCode:     string(rec.JobCode),
		VacuumGroup: rec.VacuumGroup,
		TrimProcess: rec.TrimProcess,
	}
}
