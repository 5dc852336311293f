package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mes-platform/scheduling-service/internal/domain"
)

const (
	productsCollection = "products"
	setupsCollection   = "setup_matrix"
)

// CatalogRepository implements domain.ProductRepository and
// domain.SetupRepository over MongoDB.
type CatalogRepository struct {
	products *mongo.Collection
	setups   *mongo.Collection
}

// NewCatalogRepository creates a catalog repository and ensures indexes.
func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	products := db.Collection(productsCollection)
	setups := db.Collection(setupsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productName", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = setups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "fromCode", Value: 1}, {Key: "toCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &CatalogRepository{products: products, setups: setups}
}

// FindByNames returns the catalog rows for the given product names.
func (r *CatalogRepository) FindByNames(ctx context.Context, names []string) ([]domain.ProductRecord, error) {
	cursor, err := r.products.Find(ctx, bson.M{"productName": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.ProductRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return records, nil
}

// FindAll returns every catalog row, sorted by product name.
func (r *CatalogRepository) FindAll(ctx context.Context) ([]domain.ProductRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "productName", Value: 1}})
	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.ProductRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return records, nil
}

// setupDocument is the stored shape of one setup matrix cell.
type setupDocument struct {
	FromCode string  `bson:"fromCode"`
	ToCode   string  `bson:"toCode"`
	Minutes  float64 `bson:"minutes"`
}

// Load reads the full setup matrix into a SetupTable.
func (r *CatalogRepository) Load(ctx context.Context) (domain.SetupTable, error) {
	cursor, err := r.setups.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load setup matrix: %w", err)
	}
	defer cursor.Close(ctx)

	table := make(domain.SetupTable)
	for cursor.Next(ctx) {
		var doc setupDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode setup entry: %w", err)
		}
		table.Set(domain.JobCode(doc.FromCode), domain.JobCode(doc.ToCode), doc.Minutes)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate setup matrix: %w", err)
	}
	return table, nil
}

// SaveProduct upserts a catalog row, keyed by product name.
func (r *CatalogRepository) SaveProduct(ctx context.Context, rec domain.ProductRecord) error {
	filter := bson.M{"productName": rec.ProductName}
	update := bson.M{"$set": rec}
	_, err := r.products.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// SaveSetup upserts one setup matrix cell.
func (r *CatalogRepository) SaveSetup(ctx context.Context, from, to domain.JobCode, minutes float64) error {
	filter := bson.M{"fromCode": string(from), "toCode": string(to)}
	update := bson.M{"$set": setupDocument{FromCode: string(from), ToCode: string(to), Minutes: minutes}}
	_, err := r.setups.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save setup entry: %w", err)
	}
	return nil
}
