package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/basket-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ShoppingListRepository stores shopping lists and their last optimization.
type ShoppingListRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewShoppingListRepository creates a new shopping list repository.
func NewShoppingListRepository(db *MongoDB) *ShoppingListRepository {
	return &ShoppingListRepository{collection: db.ShoppingLists, now: time.Now}
}

// Create inserts l, assigning an ID and timestamps.
func (r *ShoppingListRepository) Create(ctx context.Context, l *model.ShoppingList) error {
	if l.ID == "" {
		l.ID = newID()
	}
	now := r.now().UTC().Truncate(time.Millisecond)
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Items == nil {
		l.Items = []model.ShoppingListItem{}
	}
	if _, err := r.collection.InsertOne(ctx, l); err != nil {
		return mapWriteError(err)
	}
	return nil
}

// GetByID returns ErrNotFound when the list does not exist.
func (r *ShoppingListRepository) GetByID(ctx context.Context, id string) (*model.ShoppingList, error) {
	var l model.ShoppingList
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find shopping list %s: %w", id, err)
	}
	return &l, nil
}

// List returns the most recently updated lists first.
func (r *ShoppingListRepository) List(ctx context.Context, limit int64) ([]model.ShoppingList, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limitOrDefault(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	lists := []model.ShoppingList{}
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("decode shopping lists: %w", err)
	}
	return lists, nil
}

// SaveOptimization stores sel as the list's latest optimization and returns
// the updated list.
func (r *ShoppingListRepository) SaveOptimization(ctx context.Context, id string, sel model.Selection, at time.Time) (*model.ShoppingList, error) {
	at = at.UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"last_optimization": sel,
			"optimized_at":      at,
			"updated_at":        at,
		},
	}

	var l model.ShoppingList
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save optimization for %s: %w", id, err)
	}
	return &l, nil
}
