//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/basket-service/internal/circuitbreaker"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewProductRepository(setupTestDB(t))

	seed := []*model.Product{
		{ID: "rice", Name: "Rice", Category: model.CategoryGrains, Price: 1000, NetQuantity: 1, Unit: model.UnitKilogram, Origin: model.OriginNational},
		{ID: "brown-rice", Name: "Brown rice", Category: model.CategoryGrains, Price: 1300, NetQuantity: 1, Unit: model.UnitKilogram, Labels: []string{model.LabelOrganic}},
		{ID: "oats", Name: "Oats", Category: model.CategoryGrains, Price: 701, NetQuantity: 0.5, Unit: model.UnitKilogram},
		{ID: "beef", Name: "Beef", Category: model.CategoryMeat, Price: 4500, NetQuantity: 0.5, Unit: model.UnitKilogram},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(ctx, p))
	}

	t.Run("get by id", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "brown-rice")
		require.NoError(t, err)
		assert.Equal(t, "Brown rice", p.Name)
		assert.True(t, p.HasLabel(model.LabelOrganic))
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "caviar")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &model.Product{ID: "rice", Name: "Other rice"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("generated id", func(t *testing.T) {
		p := &model.Product{Name: "Lentils", Category: model.CategoryLegumes, Price: 300}
		require.NoError(t, repo.Create(ctx, p))
		assert.Len(t, p.ID, 24)
	})

	t.Run("get by ids keeps request order", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []string{"beef", "nope", "rice", "beef"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "beef", got[0].ID)
		assert.Equal(t, "rice", got[1].ID)
	})

	t.Run("list filters and sorts by price", func(t *testing.T) {
		got, err := repo.List(ctx, ProductFilter{Categories: []model.Category{model.CategoryGrains}})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"oats", "rice", "brown-rice"}, []string{got[0].ID, got[1].ID, got[2].ID})

		got, err = repo.List(ctx, ProductFilter{Label: model.LabelOrganic})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "brown-rice", got[0].ID)

		got, err = repo.List(ctx, ProductFilter{MaxPrice: 1000, Limit: 1, Skip: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "oats", got[0].ID)
	})

	t.Run("category averages", func(t *testing.T) {
		averages, err := repo.CategoryAverages(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), averages[model.CategoryGrains])
		assert.Equal(t, int64(4500), averages[model.CategoryMeat])
		assert.Equal(t, int64(300), averages[model.CategoryLegumes])
	})
}

func TestStoreRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewStoreRepository(setupTestDB(t))

	sol := model.Location{Latitude: 40.4168, Longitude: -3.7038}
	seed := []*model.Store{
		{ID: "sol", Name: "Sol", Location: sol},
		{ID: "atocha", Name: "Atocha", Location: model.Location{Latitude: 40.4065, Longitude: -3.6895}},
		{ID: "toledo", Name: "Toledo", Location: model.Location{Latitude: 39.8628, Longitude: -4.0273}},
	}
	for _, s := range seed {
		require.NoError(t, repo.Create(ctx, s))
	}

	t.Run("rejects invalid coordinates", func(t *testing.T) {
		err := repo.Create(ctx, &model.Store{Name: "Nowhere", Location: model.Location{Latitude: 91}})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("get by id round trips location", func(t *testing.T) {
		s, err := repo.GetByID(ctx, "atocha")
		require.NoError(t, err)
		assert.Equal(t, seed[1].Location, s.Location)
	})

	t.Run("list sorted by name", func(t *testing.T) {
		stores, err := repo.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, stores, 3)
		assert.Equal(t, "atocha", stores[0].ID)
	})

	t.Run("nearby returns nearest first within radius", func(t *testing.T) {
		stores, err := repo.Nearby(ctx, sol, 5, 10)
		require.NoError(t, err)
		require.Len(t, stores, 2)
		assert.Equal(t, "sol", stores[0].ID)
		assert.Equal(t, "atocha", stores[1].ID)
	})

	t.Run("nearby rejects negative radius", func(t *testing.T) {
		_, err := repo.Nearby(ctx, sol, -1, 10)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestShoppingListRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	repo := NewShoppingListRepositoryWithCircuitBreaker(NewShoppingListRepository(db), cb)

	list := &model.ShoppingList{
		Name:   "Weekly",
		Budget: 5000,
		Items: []model.ShoppingListItem{
			{ProductID: "rice", Quantity: 2, Priority: 3, Essential: true},
			{ProductID: "beef", Quantity: 1, Priority: 1},
		},
	}
	require.NoError(t, repo.Create(ctx, list))
	require.NotEmpty(t, list.ID)
	assert.False(t, list.CreatedAt.IsZero())

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, list.ID)
		require.NoError(t, err)
		assert.Equal(t, list.Items, got.Items)
		assert.Nil(t, got.LastOptimization)
	})

	t.Run("save optimization", func(t *testing.T) {
		at := time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)
		sel := model.Selection{
			Quantities:  []int{2, 0},
			Granularity: 1,
			Stats:       model.SelectionStats{TotalCost: 2000, BudgetRemaining: 3000, ItemsSelected: 1, TotalItems: 2},
		}

		got, err := repo.SaveOptimization(ctx, list.ID, sel, at)
		require.NoError(t, err)
		require.NotNil(t, got.LastOptimization)
		assert.Equal(t, sel.Quantities, got.LastOptimization.Quantities)
		assert.Equal(t, int64(2000), got.LastOptimization.Stats.TotalCost)
		require.NotNil(t, got.OptimizedAt)
		assert.True(t, at.Equal(*got.OptimizedAt))
	})

	t.Run("save optimization on missing list", func(t *testing.T) {
		_, err := repo.SaveOptimization(ctx, "missing", model.Selection{}, time.Now())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &model.ShoppingList{Name: "Party", Budget: 100}))
		lists, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, lists, 2)
		assert.Equal(t, "Party", lists[0].Name)
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})
}
