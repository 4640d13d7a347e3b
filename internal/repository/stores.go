package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/basket-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// geoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type geoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

func pointOf(l model.Location) geoPoint {
	return geoPoint{Type: "Point", Coordinates: [2]float64{l.Longitude, l.Latitude}}
}

// storeDocument adds the indexed GeoJSON field to a store.
type storeDocument struct {
	ID                   string         `bson:"_id"`
	Name                 string         `bson:"name"`
	Chain                string         `bson:"chain,omitempty"`
	Address              string         `bson:"address,omitempty"`
	Location             model.Location `bson:"location"`
	Geo                  geoPoint       `bson:"geo"`
	SustainabilityRating *float64       `bson:"sustainability_rating,omitempty"`
}

func toStoreDocument(s *model.Store) storeDocument {
	return storeDocument{
		ID:                   s.ID,
		Name:                 s.Name,
		Chain:                s.Chain,
		Address:              s.Address,
		Location:             s.Location,
		Geo:                  pointOf(s.Location),
		SustainabilityRating: s.SustainabilityRating,
	}
}

func (d storeDocument) toModel() model.Store {
	return model.Store{
		ID:                   d.ID,
		Name:                 d.Name,
		Chain:                d.Chain,
		Address:              d.Address,
		Location:             d.Location,
		SustainabilityRating: d.SustainabilityRating,
	}
}

// StoreRepository stores shop locations.
type StoreRepository struct {
	collection *mongo.Collection
}

// NewStoreRepository creates a new store repository.
func NewStoreRepository(db *MongoDB) *StoreRepository {
	return &StoreRepository{collection: db.Stores}
}

// Create inserts s, assigning an ID when it has none.
func (r *StoreRepository) Create(ctx context.Context, s *model.Store) error {
	if !s.Location.Valid() {
		return model.NewValidationError("location", "must be valid coordinates")
	}
	if s.ID == "" {
		s.ID = newID()
	}
	if _, err := r.collection.InsertOne(ctx, toStoreDocument(s)); err != nil {
		return mapWriteError(err)
	}
	return nil
}

// GetByID returns ErrNotFound when the store does not exist.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*model.Store, error) {
	var doc storeDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find store %s: %w", id, err)
	}
	s := doc.toModel()
	return &s, nil
}

// GetByIDs returns the stores found, in the order of ids.
func (r *StoreRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Store, error) {
	if len(ids) == 0 {
		return []model.Store{}, nil
	}
	stores, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Store, len(stores))
	for _, s := range stores {
		byID[s.ID] = s
	}
	ordered := make([]model.Store, 0, len(stores))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// List returns stores ordered by name.
func (r *StoreRepository) List(ctx context.Context, limit int64) ([]model.Store, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limitOrDefault(limit))
	return r.find(ctx, bson.M{}, opts)
}

// Nearby returns stores within radiusKm of at, nearest first, using the
// 2dsphere index.
func (r *StoreRepository) Nearby(ctx context.Context, at model.Location, radiusKm float64, limit int64) ([]model.Store, error) {
	if !at.Valid() {
		return nil, model.NewValidationError("location", "must be valid coordinates")
	}
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return nil, model.NewValidationError("radius_km", "must be a non-negative number")
	}

	query := bson.M{
		"geo": bson.M{
			"$nearSphere": bson.M{
				"$geometry":    pointOf(at),
				"$maxDistance": radiusKm * 1000,
			},
		},
	}
	return r.find(ctx, query, options.Find().SetLimit(limitOrDefault(limit)))
}

func (r *StoreRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]model.Store, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find stores: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []storeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode stores: %w", err)
	}
	stores := make([]model.Store, 0, len(docs))
	for _, d := range docs {
		stores = append(stores, d.toModel())
	}
	return stores, nil
}
