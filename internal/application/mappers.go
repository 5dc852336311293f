package application

import (
	"github.com/mes-platform/scheduling-service/internal/domain"
	"github.com/mes-platform/scheduling-service/pkg/errors"
)

// buildJobs normalizes catalog records and selected quantities into scheduling
// jobs, in selection order. Every selection must resolve to a complete catalog
// row; violations surface as input errors naming the offending field.
func buildJobs(selections []ProductSelection, records []domain.ProductRecord) ([]domain.Job, error) {
	if len(selections) == 0 {
		return nil, errors.ErrInput("selections", "at least one product must be selected")
	}

	byName := make(map[string]domain.ProductRecord, len(records))
	for _, rec := range records {
		byName[rec.ProductName] = rec
	}

	jobs := make([]domain.Job, 0, len(selections))
	seen := make(map[string]bool, len(selections))
	for _, sel := range selections {
		if sel.Quantity <= 0 {
			return nil, errors.ErrInput("quantity", "quantity must be positive").
				WithDetail("productName", sel.ProductName)
		}
		if seen[sel.ProductName] {
			return nil, errors.ErrInput("productName", "product selected more than once").
				WithDetail("productName", sel.ProductName)
		}
		seen[sel.ProductName] = true

		rec, ok := byName[sel.ProductName]
		if !ok {
			return nil, errors.ErrInput("productName", "unknown product").
				WithDetail("productName", sel.ProductName)
		}
		if rec.VacuumGroup == "" {
			return nil, errors.ErrInput("vacuumGroup", "product has no vacuum machine group").
				WithDetail("productName", sel.ProductName)
		}
		if rec.TrimProcess == "" {
			return nil, errors.ErrInput("trimProcess", "product has no trim process type").
				WithDetail("productName", sel.ProductName)
		}

		jobs = append(jobs, domain.NewJob(
			rec.JobCode,
			rec.ProductName,
			sel.Quantity,
			rec.StageSecondsPerUnit,
			rec.VacuumGroup,
			rec.TrimProcess,
		))
	}
	return jobs, nil
}
