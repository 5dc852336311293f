package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/mes-platform/scheduling-service/internal/domain"
)

// ExportPlanCSV writes a plan's timeline as CSV: one row per (job, stage)
// interval, in timeline order, suitable for direct spreadsheet import.
func (s *PlanningService) ExportPlanCSV(ctx context.Context, planID string, w io.Writer) error {
	plan, err := s.plans.FindByPlanID(ctx, planID)
	if err != nil {
		return err
	}
	return writeTimelineCSV(w, plan)
}

func writeTimelineCSV(w io.Writer, plan *domain.Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"task", "machine", "start", "end"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range plan.Timeline {
		row := []string{
			e.Label,
			e.Machine,
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
