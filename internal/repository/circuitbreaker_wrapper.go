package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/basket-service/internal/circuitbreaker"
	"github.com/guttosm/basket-service/internal/domain/model"
)

// guarded runs fn through cb. Outcomes caused by the request rather than the
// store (not found, conflicts, invalid input) are returned to the caller but
// do not count as breaker failures.
func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var (
		result    T
		clientErr error
	)
	err := cb.Execute(ctx, func() error {
		var err error
		result, err = fn()
		if isClientError(err) {
			clientErr = err
			return nil
		}
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, clientErr
}

func isClientError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, model.ErrInvalidInput)
}

// ProductRepositoryWithCircuitBreaker wraps a product repository with circuit breaker protection.
type ProductRepositoryWithCircuitBreaker struct {
	repo           ProductRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewProductRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewProductRepositoryWithCircuitBreaker(repo ProductRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ProductRepositoryWithCircuitBreaker {
	return &ProductRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Create inserts a product with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) Create(ctx context.Context, p *model.Product) error {
	_, err := guarded(ctx, r.circuitBreaker, func() (struct{}, error) {
		return struct{}{}, r.repo.Create(ctx, p)
	})
	return err
}

// GetByID returns a product with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.Product, error) {
		return r.repo.GetByID(ctx, id)
	})
}

// GetByIDs returns products with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.Product, error) {
		return r.repo.GetByIDs(ctx, ids)
	})
}

// List returns products with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.Product, error) {
		return r.repo.List(ctx, filter)
	})
}

// CategoryAverages returns category averages with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) CategoryAverages(ctx context.Context) (map[model.Category]int64, error) {
	return guarded(ctx, r.circuitBreaker, func() (map[model.Category]int64, error) {
		return r.repo.CategoryAverages(ctx)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ProductRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// StoreRepositoryWithCircuitBreaker wraps a store repository with circuit breaker protection.
type StoreRepositoryWithCircuitBreaker struct {
	repo           StoreRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewStoreRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewStoreRepositoryWithCircuitBreaker(repo StoreRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *StoreRepositoryWithCircuitBreaker {
	return &StoreRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Create inserts a store with circuit breaker protection.
func (r *StoreRepositoryWithCircuitBreaker) Create(ctx context.Context, s *model.Store) error {
	_, err := guarded(ctx, r.circuitBreaker, func() (struct{}, error) {
		return struct{}{}, r.repo.Create(ctx, s)
	})
	return err
}

// GetByID returns a store with circuit breaker protection.
func (r *StoreRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.Store, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.Store, error) {
		return r.repo.GetByID(ctx, id)
	})
}

// GetByIDs returns stores with circuit breaker protection.
func (r *StoreRepositoryWithCircuitBreaker) GetByIDs(ctx context.Context, ids []string) ([]model.Store, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.Store, error) {
		return r.repo.GetByIDs(ctx, ids)
	})
}

// List returns stores with circuit breaker protection.
func (r *StoreRepositoryWithCircuitBreaker) List(ctx context.Context, limit int64) ([]model.Store, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.Store, error) {
		return r.repo.List(ctx, limit)
	})
}

// Nearby runs the geo query with circuit breaker protection.
func (r *StoreRepositoryWithCircuitBreaker) Nearby(ctx context.Context, at model.Location, radiusKm float64, limit int64) ([]model.Store, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.Store, error) {
		return r.repo.Nearby(ctx, at, radiusKm, limit)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *StoreRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// ShoppingListRepositoryWithCircuitBreaker wraps a shopping list repository with circuit breaker protection.
type ShoppingListRepositoryWithCircuitBreaker struct {
	repo           ShoppingListRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewShoppingListRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewShoppingListRepositoryWithCircuitBreaker(repo ShoppingListRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ShoppingListRepositoryWithCircuitBreaker {
	return &ShoppingListRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Create inserts a list with circuit breaker protection.
func (r *ShoppingListRepositoryWithCircuitBreaker) Create(ctx context.Context, l *model.ShoppingList) error {
	_, err := guarded(ctx, r.circuitBreaker, func() (struct{}, error) {
		return struct{}{}, r.repo.Create(ctx, l)
	})
	return err
}

// GetByID returns a list with circuit breaker protection.
func (r *ShoppingListRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*model.ShoppingList, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.ShoppingList, error) {
		return r.repo.GetByID(ctx, id)
	})
}

// List returns lists with circuit breaker protection.
func (r *ShoppingListRepositoryWithCircuitBreaker) List(ctx context.Context, limit int64) ([]model.ShoppingList, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.ShoppingList, error) {
		return r.repo.List(ctx, limit)
	})
}

// SaveOptimization stores an optimization result with circuit breaker protection.
func (r *ShoppingListRepositoryWithCircuitBreaker) SaveOptimization(ctx context.Context, id string, sel model.Selection, at time.Time) (*model.ShoppingList, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.ShoppingList, error) {
		return r.repo.SaveOptimization(ctx, id, sel, at)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ShoppingListRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
