package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/basket-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository stores catalog products.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *MongoDB) *ProductRepository {
	return &ProductRepository{collection: db.Products}
}

// Create inserts p, assigning an ID when it has none.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return mapWriteError(err)
	}
	return nil
}

// GetByID returns ErrNotFound when the product does not exist.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns the products found, in the order of ids. Unknown and
// repeated ids are skipped.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var found []model.Product
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	byID := make(map[string]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]model.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// List returns products matching filter, cheapest first.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := bson.M{}
	if len(filter.Categories) > 0 {
		query["category"] = bson.M{"$in": filter.Categories}
	}
	if filter.Label != "" {
		query["labels"] = filter.Label
	}
	if filter.MaxPrice > 0 {
		query["price"] = bson.M{"$lte": filter.MaxPrice}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limitOrDefault(filter.Limit))
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

type categoryAverage struct {
	Category model.Category `bson:"_id"`
	Average  float64        `bson:"average"`
}

// CategoryAverages returns the mean price per category in minor units,
// rounded to the nearest unit.
func (r *ProductRepository) CategoryAverages(ctx context.Context) (map[model.Category]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"price": bson.M{"$gt": 0}}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "average": bson.M{"$avg": "$price"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate category averages: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []categoryAverage
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode category averages: %w", err)
	}

	averages := make(map[model.Category]int64, len(rows))
	for _, row := range rows {
		averages[row.Category] = int64(math.Round(row.Average))
	}
	return averages, nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func limitOrDefault(limit int64) int64 {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}
