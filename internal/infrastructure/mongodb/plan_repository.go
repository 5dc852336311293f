package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mes-platform/scheduling-service/internal/domain"
	"github.com/mes-platform/scheduling-service/pkg/errors"
)

const plansCollection = "plans"

// PlanRepository implements domain.PlanRepository for MongoDB.
type PlanRepository struct {
	collection *mongo.Collection
}

// NewPlanRepository creates a plan repository and ensures indexes.
func NewPlanRepository(db *mongo.Database) *PlanRepository {
	collection := db.Collection(plansCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})

	return &PlanRepository{collection: collection}
}

// Save persists a plan.
func (r *PlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == "" {
		plan.ID = plan.PlanID
	}
	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// FindByPlanID retrieves a plan by its plan ID.
func (r *PlanRepository) FindByPlanID(ctx context.Context, planID string) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"planId": planID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrNotFoundWithID("plan", planID)
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return &plan, nil
}

// FindRecent returns up to limit plans, newest first.
func (r *PlanRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Plan, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []*domain.Plan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	return plans, nil
}
