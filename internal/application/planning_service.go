package application

import (
	"context"
	"fmt"
	"time"

	"github.com/mes-platform/scheduling-service/internal/domain"
	"github.com/mes-platform/scheduling-service/pkg/errors"
	"github.com/mes-platform/scheduling-service/pkg/logging"
	"github.com/mes-platform/scheduling-service/pkg/metrics"
)

// PlanningService runs scheduling end to end: catalog lookup, job
// normalization, solving, calendar projection, persistence, and event
// publication.
type PlanningService struct {
	products  domain.ProductRepository
	setups    domain.SetupRepository
	plans     domain.PlanRepository
	publisher domain.EventPublisher
	solver    *domain.Solver
	calendar  domain.BusinessCalendar
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewPlanningService creates a planning application service. The metrics
// handle may be nil (tests).
func NewPlanningService(
	products domain.ProductRepository,
	setups domain.SetupRepository,
	plans domain.PlanRepository,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *PlanningService {
	return &PlanningService{
		products:  products,
		setups:    setups,
		plans:     plans,
		publisher: publisher,
		solver:    domain.NewSolver(),
		calendar:  domain.DefaultCalendar(),
		logger:    logger.WithComponent("planning-service"),
		metrics:   m,
	}
}

// CreatePlan schedules the selected products and persists the result.
func (s *PlanningService) CreatePlan(ctx context.Context, cmd CreatePlanCommand) (*PlanDTO, error) {
	names := make([]string, 0, len(cmd.Selections))
	for _, sel := range cmd.Selections {
		names = append(names, sel.ProductName)
	}
	s.logger.Info("Creating plan", "products", len(names))

	records, err := s.products.FindByNames(ctx, names)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load catalog records")
		return nil, fmt.Errorf("failed to load catalog records: %w", err)
	}

	jobs, err := buildJobs(cmd.Selections, records)
	if err != nil {
		return nil, err
	}

	setups, err := s.setups.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load setup matrix")
		return nil, fmt.Errorf("failed to load setup matrix: %w", err)
	}

	inst := domain.NewScheduleInstance(jobs, setups)

	started := time.Now()
	sol, err := s.solver.Schedule(inst)
	elapsed := time.Since(started)
	if err != nil {
		s.logger.WithError(err).Error("Solver failed", "jobs", len(jobs))
		if s.metrics != nil {
			s.metrics.RecordSolverRun("unknown", "infeasible", elapsed)
		}
		return nil, errors.ErrInfeasible("schedule", "no feasible schedule produced").Wrap(err)
	}

	outcome := "optimal"
	if !sol.Optimal {
		outcome = "feasible"
	}
	if sol.TimedOut {
		outcome = "timeout-fallback"
		s.logger.Warn("Exact search exceeded budget, returning heuristic schedule",
			"jobs", len(jobs), "makespan", sol.Makespan)
	}
	if s.metrics != nil {
		s.metrics.RecordSolverRun(sol.Method, outcome, elapsed)
		if sol.Nodes > 0 {
			s.metrics.RecordSolverNodes(sol.Nodes)
		}
	}

	origin := defaultOrigin()
	if cmd.Origin != nil {
		origin = *cmd.Origin
	}

	timeline := domain.BuildTimeline(sol, origin, s.calendar)
	plan := domain.NewPlan(sol, origin, timeline)

	if err := s.plans.Save(ctx, plan); err != nil {
		s.logger.WithError(err).Error("Failed to save plan", "planId", plan.PlanID)
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPlanCreated(sol.Method, len(jobs), sol.Makespan)
	}

	if s.publisher != nil {
		event := &domain.PlanCreatedEvent{
			PlanID:          plan.PlanID,
			Jobs:            len(plan.Lines),
			MakespanMinutes: plan.MakespanMinutes,
			Method:          plan.Method,
			Optimal:         plan.Optimal,
			CreatedAt:       plan.CreatedAt,
		}
		if err := s.publisher.PublishPlanCreated(ctx, event); err != nil {
			// Event delivery is best effort; the plan is already persisted.
			s.logger.WithError(err).Warn("Failed to publish plan created event", "planId", plan.PlanID)
		}
	}

	s.logger.Info("Plan created",
		"planId", plan.PlanID,
		"jobs", len(plan.Lines),
		"makespanMinutes", plan.MakespanMinutes,
		"method", plan.Method,
		"optimal", plan.Optimal,
	)

	return ToPlanDTO(plan), nil
}

// GetPlan retrieves a persisted plan by its plan ID.
func (s *PlanningService) GetPlan(ctx context.Context, planID string) (*PlanDTO, error) {
	plan, err := s.plans.FindByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return ToPlanDTO(plan), nil
}

// ListPlans returns the most recent plans, newest first.
func (s *PlanningService) ListPlans(ctx context.Context, limit int) ([]*PlanDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	plans, err := s.plans.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]*PlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, ToPlanDTO(p))
	}
	return dtos, nil
}

// ListProducts returns the full catalog for selection UIs.
func (s *PlanningService) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	records, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	dtos := make([]ProductDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, ToProductDTO(rec))
	}
	return dtos, nil
}

// defaultOrigin is today at 07:00 local time, the line's daily start.
func defaultOrigin() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 7, 0, 0, 0, now.Location())
}
