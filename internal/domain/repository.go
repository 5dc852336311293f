package domain

import "context"

// ProductRecord is a raw catalog row: base processing rates per stage in
// seconds per unit, plus the fixed machine bindings.
type ProductRecord struct {
	ProductName         string              `json:"productName" bson:"productName"`
	JobCode             JobCode             `json:"jobCode" bson:"jobCode"`
	StageSecondsPerUnit [StageCount]float64 `json:"stageSecondsPerUnit" bson:"stageSecondsPerUnit"`
	VacuumGroup         string              `json:"vacuumGroup" bson:"vacuumGroup"`
	TrimProcess         string              `json:"trimProcess" bson:"trimProcess"`
}

// ProductRepository supplies catalog rows for job normalization.
type ProductRepository interface {
	FindByNames(ctx context.Context, names []string) ([]ProductRecord, error)
	FindAll(ctx context.Context) ([]ProductRecord, error)
}

// SetupRepository supplies the pairwise setup matrix for the forming stage.
type SetupRepository interface {
	Load(ctx context.Context) (SetupTable, error)
}

// PlanRepository persists scheduling results.
type PlanRepository interface {
	Save(ctx context.Context, plan *Plan) error
	FindByPlanID(ctx context.Context, planID string) (*Plan, error)
	FindRecent(ctx context.Context, limit int) ([]*Plan, error)
}

// EventPublisher publishes plan lifecycle events.
type EventPublisher interface {
	PublishPlanCreated(ctx context.Context, event *PlanCreatedEvent) error
}
