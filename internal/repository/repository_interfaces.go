package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/basket-service/internal/domain/model"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a document with the same ID already exists.
	ErrConflict = errors.New("already exists")
)

// DefaultListLimit caps list queries that do not ask for a limit.
const DefaultListLimit = 100

// ProductFilter narrows product listings. Zero values mean "any".
type ProductFilter struct {
	Categories []model.Category
	Label      string
	MaxPrice   int64
	Limit      int64
	Skip       int64
}

// ProductRepositoryInterface defines the product catalog operations.
type ProductRepositoryInterface interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	CategoryAverages(ctx context.Context) (map[model.Category]int64, error)
}

// StoreRepositoryInterface defines the store catalog operations.
type StoreRepositoryInterface interface {
	Create(ctx context.Context, s *model.Store) error
	GetByID(ctx context.Context, id string) (*model.Store, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Store, error)
	List(ctx context.Context, limit int64) ([]model.Store, error)
	Nearby(ctx context.Context, at model.Location, radiusKm float64, limit int64) ([]model.Store, error)
}

// ShoppingListRepositoryInterface defines the shopping list operations.
type ShoppingListRepositoryInterface interface {
	Create(ctx context.Context, l *model.ShoppingList) error
	GetByID(ctx context.Context, id string) (*model.ShoppingList, error)
	List(ctx context.Context, limit int64) ([]model.ShoppingList, error)
	SaveOptimization(ctx context.Context, id string, sel model.Selection, at time.Time) (*model.ShoppingList, error)
}
