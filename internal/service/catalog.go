package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrRepositoryNotConfigured is returned when the catalog has no store behind it.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// DefaultAveragesTTL is how long category averages are reused before the
// catalog is aggregated again.
const DefaultAveragesTTL = 5 * time.Minute

// substitutePoolLimit caps how many catalog products are considered as substitutes.
const substitutePoolLimit = 100

// ShoppingListOptions selects how a stored list is optimized.
type ShoppingListOptions struct {
	Weights    model.OptimizationWeights
	Essentials bool
}

// CatalogService exposes the persisted catalog and the shopping-list workflow.
type CatalogService interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	CategoryAverages(ctx context.Context) (map[model.Category]int64, error)
	SubstitutePool(ctx context.Context, p model.Product) ([]model.Product, error)

	CreateStore(ctx context.Context, s *model.Store) error
	GetStores(ctx context.Context, ids []string) ([]model.Store, error)
	ListStores(ctx context.Context, limit int64) ([]model.Store, error)
	NearbyStores(ctx context.Context, at model.Location, radiusKm float64, limit int64) ([]model.Store, error)

	CreateShoppingList(ctx context.Context, l *model.ShoppingList) error
	GetShoppingList(ctx context.Context, id string) (*model.ShoppingList, error)
	ListShoppingLists(ctx context.Context, limit int64) ([]model.ShoppingList, error)
	OptimizeShoppingList(ctx context.Context, id string, opts ShoppingListOptions) (*model.ShoppingListOptimization, error)
}

// averagesCache holds the last category aggregation. Readers never block.
type averagesCache struct {
	averages  atomic.Value // map[model.Category]int64
	expiresAt atomic.Value // time.Time
	mu        sync.Mutex
	ttl       time.Duration
}

func newAveragesCache(ttl time.Duration) *averagesCache {
	c := &averagesCache{ttl: ttl}
	c.expiresAt.Store(time.Time{})
	return c
}

func (c *averagesCache) get(now time.Time) (map[model.Category]int64, bool) {
	exp, _ := c.expiresAt.Load().(time.Time)
	if !now.Before(exp) {
		return nil, false
	}
	avg, ok := c.averages.Load().(map[model.Category]int64)
	return avg, ok
}

func (c *averagesCache) set(avg map[model.Category]int64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.averages.Store(avg)
	c.expiresAt.Store(now.Add(c.ttl))
}

func (c *averagesCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt.Store(time.Time{})
}

// CatalogOption configures a CatalogServiceImpl.
type CatalogOption func(*CatalogServiceImpl)

// WithAveragesTTL sets how long category averages are cached. Zero disables caching.
func WithAveragesTTL(ttl time.Duration) CatalogOption {
	return func(s *CatalogServiceImpl) {
		s.averages = newAveragesCache(ttl)
	}
}

// WithClock overrides the time source used for cache expiry and optimization timestamps.
func WithClock(now func() time.Time) CatalogOption {
	return func(s *CatalogServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// CatalogServiceImpl implements CatalogService on top of the repositories and
// the scoring and knapsack engines.
type CatalogServiceImpl struct {
	products  repository.ProductRepositoryInterface
	stores    repository.StoreRepositoryInterface
	lists     repository.ShoppingListRepositoryInterface
	scorer    Scorer
	optimizer BasketOptimizer
	averages  *averagesCache
	now       func() time.Time
}

// NewCatalogService creates a catalog service. Nil repositories make the
// matching operations return ErrRepositoryNotConfigured.
func NewCatalogService(
	products repository.ProductRepositoryInterface,
	stores repository.StoreRepositoryInterface,
	lists repository.ShoppingListRepositoryInterface,
	scorer Scorer,
	optimizer BasketOptimizer,
	opts ...CatalogOption,
) *CatalogServiceImpl {
	s := &CatalogServiceImpl{
		products:  products,
		stores:    stores,
		lists:     lists,
		scorer:    scorer,
		optimizer: optimizer,
		averages:  newAveragesCache(DefaultAveragesTTL),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProduct validates and stores a product.
func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, p *model.Product) error {
	if s.products == nil {
		return ErrRepositoryNotConfigured
	}
	if err := validateProduct(*p); err != nil {
		return err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.averages.invalidate()
	return nil
}

func (s *CatalogServiceImpl) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.products.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.products.List(ctx, filter)
}

// CategoryAverages returns cached averages while they are fresh.
func (s *CatalogServiceImpl) CategoryAverages(ctx context.Context) (map[model.Category]int64, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	now := s.now()
	if avg, ok := s.averages.get(now); ok {
		return avg, nil
	}
	avg, err := s.products.CategoryAverages(ctx)
	if err != nil {
		return nil, err
	}
	s.averages.set(avg, now)
	return avg, nil
}

// SubstitutePool returns catalog products in p's category and its related
// categories, excluding p itself.
func (s *CatalogServiceImpl) SubstitutePool(ctx context.Context, p model.Product) ([]model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	categories := append([]model.Category{p.Category}, s.scorer.Tables().RelatedTo(p.Category)...)

	candidates, err := s.products.List(ctx, repository.ProductFilter{Categories: categories, Limit: substitutePoolLimit})
	if err != nil {
		return nil, err
	}
	pool := candidates[:0]
	for _, c := range candidates {
		if c.ID != p.ID {
			pool = append(pool, c)
		}
	}
	return pool, nil
}

func (s *CatalogServiceImpl) CreateStore(ctx context.Context, st *model.Store) error {
	if s.stores == nil {
		return ErrRepositoryNotConfigured
	}
	if strings.TrimSpace(st.Name) == "" {
		return model.NewValidationError("name", "is required")
	}
	if st.SustainabilityRating != nil && (*st.SustainabilityRating < 0 || *st.SustainabilityRating > 100) {
		return model.NewValidationError("sustainability_rating", "must be between 0 and 100")
	}
	return s.stores.Create(ctx, st)
}

func (s *CatalogServiceImpl) GetStores(ctx context.Context, ids []string) ([]model.Store, error) {
	if s.stores == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.stores.GetByIDs(ctx, ids)
}

func (s *CatalogServiceImpl) ListStores(ctx context.Context, limit int64) ([]model.Store, error) {
	if s.stores == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.stores.List(ctx, limit)
}

func (s *CatalogServiceImpl) NearbyStores(ctx context.Context, at model.Location, radiusKm float64, limit int64) ([]model.Store, error) {
	if s.stores == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.stores.Nearby(ctx, at, radiusKm, limit)
}

func (s *CatalogServiceImpl) CreateShoppingList(ctx context.Context, l *model.ShoppingList) error {
	if s.lists == nil {
		return ErrRepositoryNotConfigured
	}
	if strings.TrimSpace(l.Name) == "" {
		return model.NewValidationError("name", "is required")
	}
	if l.Budget < 0 {
		return model.NewValidationError("budget", "must not be negative")
	}
	for i, it := range l.Items {
		if it.ProductID == "" {
			return model.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if it.Quantity < 0 {
			return model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must not be negative")
		}
	}
	l.LastOptimization = nil
	l.OptimizedAt = nil
	return s.lists.Create(ctx, l)
}

func (s *CatalogServiceImpl) GetShoppingList(ctx context.Context, id string) (*model.ShoppingList, error) {
	if s.lists == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.lists.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) ListShoppingLists(ctx context.Context, limit int64) ([]model.ShoppingList, error) {
	if s.lists == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.lists.List(ctx, limit)
}

// OptimizeShoppingList loads a list and its products, scores them, runs the
// knapsack over the list budget and stores the selection on the list.
// Items whose product no longer exists are reported and left out.
func (s *CatalogServiceImpl) OptimizeShoppingList(ctx context.Context, id string, opts ShoppingListOptions) (*model.ShoppingListOptimization, error) {
	if s.lists == nil || s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}

	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products of list %s: %w", id, err)
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	averages, err := s.CategoryAverages(ctx)
	if err != nil {
		log.Warn().Err(err).Str("list_id", id).Msg("Category averages unavailable, scoring without them")
		averages = map[model.Category]int64{}
	}

	items := make([]model.BasketItem, 0, len(list.Items))
	var missing []string
	for _, it := range list.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			missing = append(missing, it.ProductID)
			continue
		}
		avg := averages[p.Category]
		score, err := s.scorer.Score(p, avg)
		if err != nil {
			return nil, fmt.Errorf("score product %s: %w", p.ID, err)
		}
		items = append(items, model.BasketItem{
			Product:             p,
			DesiredQuantity:     it.Quantity,
			Priority:            it.Priority,
			Essential:           it.Essential,
			SustainabilityScore: score.Overall,
			CategoryAverage:     avg,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sel model.Selection
	if opts.Essentials {
		sel, err = s.optimizer.OptimizeWithEssentials(items, list.Budget, opts.Weights)
	} else {
		sel, err = s.optimizer.Optimize(items, list.Budget, opts.Weights)
	}
	if err != nil {
		return nil, err
	}

	saved, err := s.lists.SaveOptimization(ctx, id, sel, s.now())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("list_id", id).
		Int("items", len(items)).
		Int("missing", len(missing)).
		Int64("total_cost", sel.Stats.TotalCost).
		Msg("Shopping list optimized")

	return &model.ShoppingListOptimization{
		List:    *saved,
		Items:   items,
		Lines:   sel.Lines(items),
		Missing: missing,
	}, nil
}

func validateProduct(p model.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return model.NewValidationError("name", "is required")
	case p.Category == "":
		return model.NewValidationError("category", "is required")
	case p.Price < 0:
		return model.NewValidationError("price", "must not be negative")
	case p.NetQuantity < 0:
		return model.NewValidationError("net_quantity", "must not be negative")
	}
	return nil
}
