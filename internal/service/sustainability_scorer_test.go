package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func grainProduct() model.Product {
	return model.Product{
		ID:          "rice",
		Name:        "Rice",
		Category:    model.CategoryGrains,
		Price:       1000,
		NetQuantity: 1,
		Unit:        model.UnitKilogram,
		Origin:      model.OriginNational,
	}
}

func organicLocalVegetables() model.Product {
	return model.Product{
		ID:          "greens",
		Name:        "Greens",
		Category:    model.CategoryVegetables,
		Price:       800,
		NetQuantity: 1,
		Unit:        model.UnitKilogram,
		Origin:      model.OriginLocal,
		Labels:      []string{"Organic", model.LabelFairTrade},
	}
}

func TestScorerService_Score(t *testing.T) {
	scorer := NewScorerService()

	tests := []struct {
		name          string
		product       func() model.Product
		average       int64
		opts          []ScoreOption
		economic      float64
		environmental float64
		social        float64
		footprint     float64
	}{
		{
			name:          "price equal to category average",
			product:       grainProduct,
			average:       1000,
			economic:      60,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name:          "zero average skips ratio adjustment",
			product:       grainProduct,
			average:       0,
			economic:      50,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name: "zero price skips ratio adjustment",
			product: func() model.Product {
				p := grainProduct()
				p.Price = 0
				return p
			},
			average:       1000,
			economic:      50,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name: "expensive product with protein",
			product: func() model.Product {
				p := grainProduct()
				p.Price = 1600
				p.Nutrition = &model.NutritionalInfo{Protein: floatPtr(12)}
				return p
			},
			average:       1000,
			economic:      40,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name: "fiber at threshold earns nothing",
			product: func() model.Product {
				p := grainProduct()
				p.Nutrition = &model.NutritionalInfo{Fiber: floatPtr(5)}
				return p
			},
			average:       1000,
			economic:      60,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name:          "bulk bonus is proportional",
			product:       grainProduct,
			average:       1000,
			opts:          []ScoreOption{WithPurchasedQuantity(3)},
			economic:      66,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name:          "bulk bonus is capped",
			product:       grainProduct,
			average:       1000,
			opts:          []ScoreOption{WithPurchasedQuantity(12)},
			economic:      70,
			environmental: 65,
			social:        50,
			footprint:     2.55,
		},
		{
			name:          "organic local fair trade",
			product:       organicLocalVegetables,
			average:       1000,
			economic:      70,
			environmental: 100,
			social:        95,
			footprint:     1.263,
		},
		{
			name: "heavy imported single-use meat",
			product: func() model.Product {
				return model.Product{
					ID:          "beef",
					Category:    model.CategoryMeat,
					Price:       3000,
					NetQuantity: 2,
					Unit:        model.UnitKilogram,
					Origin:      model.OriginOverseas,
					Labels:      []string{model.LabelSingleUse},
				}
			},
			average:       1000,
			economic:      30,
			environmental: 10,
			social:        50,
			footprint:     56.4,
		},
		{
			name: "regional origin from country",
			product: func() model.Product {
				p := grainProduct()
				p.Origin = ""
				p.OriginCountry = "Argentina"
				return p
			},
			average:       1000,
			economic:      60,
			environmental: 65,
			social:        60,
			footprint:     2.7,
		},
		{
			name: "every social label saturates at 100",
			product: func() model.Product {
				p := organicLocalVegetables()
				p.Labels = append(p.Labels, model.LabelBCorp, model.LabelSmallProducer, model.LabelCooperative, model.LabelEcoFriendly)
				return p
			},
			average:       1000,
			economic:      70,
			environmental: 100,
			social:        100,
			footprint:     1.263,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := scorer.Score(tt.product(), tt.average, tt.opts...)
			require.NoError(t, err)

			assert.InDelta(t, tt.economic, score.Economic, 0.001)
			assert.InDelta(t, tt.environmental, score.Environmental, 0.001)
			assert.InDelta(t, tt.social, score.Social, 0.001)
			assert.InDelta(t, tt.footprint, score.CarbonFootprintKg, 0.0005)

			expected := tt.economic*EconomicWeight + tt.environmental*EnvironmentalWeight + tt.social*SocialWeight
			assert.InDelta(t, expected, score.Overall, 0.01)
			for _, v := range []float64{score.Economic, score.Environmental, score.Social, score.Overall} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		})
	}
}

func TestScorerService_Score_Equivalences(t *testing.T) {
	score, err := NewScorerService().Score(grainProduct(), 1000)
	require.NoError(t, err)

	assert.InDelta(t, 2.55*4.5, score.Equivalences.KmDriven, 0.01)
	assert.InDelta(t, 2.55/21, score.Equivalences.TreesNeeded, 0.01)
	assert.InDelta(t, 2.55/6, score.Equivalences.DaysOfEnergy, 0.01)
}

func TestScorerService_Score_InvalidInput(t *testing.T) {
	scorer := NewScorerService()

	tests := []struct {
		name    string
		product model.Product
		average int64
		opts    []ScoreOption
	}{
		{name: "negative price", product: model.Product{Price: -1}},
		{name: "negative average", product: grainProduct(), average: -5},
		{name: "negative quantity", product: model.Product{NetQuantity: -1}},
		{name: "nan quantity", product: model.Product{NetQuantity: math.NaN()}},
		{name: "negative purchased quantity", product: grainProduct(), opts: []ScoreOption{WithPurchasedQuantity(-2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scorer.Score(tt.product, tt.average, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput))
		})
	}
}

func TestScorerService_Score_Deterministic(t *testing.T) {
	scorer := NewScorerService()
	p := organicLocalVegetables()

	first, err := scorer.Score(p, 900)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := scorer.Score(p, 900)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScorerService_WithScoringTables(t *testing.T) {
	tables := DefaultScoringTables()
	tables.EmissionFactors[model.CategoryGrains] = 0.5
	scorer := NewScorerService(WithScoringTables(tables))

	tables.EmissionFactors[model.CategoryGrains] = 99

	score, err := scorer.Score(grainProduct(), 1000)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, score.CarbonFootprintKg, 0.0005)
	assert.InDelta(t, 80.0, score.Environmental, 0.001)
	assert.Equal(t, 0.5, scorer.Tables().EmissionFactor(model.CategoryGrains))
}

func TestScorerService_WithScoreCache(t *testing.T) {
	c := NewShardedCache(100, time.Minute, 2)
	defer c.Stop()
	scorer := NewScorerService(WithScoreCache(c))

	first, err := scorer.Score(grainProduct(), 1000)
	require.NoError(t, err)
	second, err := scorer.Score(grainProduct(), 1000)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), c.Metrics().Hits)

	// a different purchased quantity must not reuse the cached entry
	bulk, err := scorer.Score(grainProduct(), 1000, WithPurchasedQuantity(5))
	require.NoError(t, err)
	assert.NotEqual(t, first.Economic, bulk.Economic)
}

func TestScoreCacheKey(t *testing.T) {
	a := organicLocalVegetables()
	b := organicLocalVegetables()
	b.Labels = []string{model.LabelFairTrade, "ORGANIC"}
	tablesKey := DefaultScoringTables().fingerprint()

	assert.Equal(t, scoreCacheKey(tablesKey, a, 100, 1), scoreCacheKey(tablesKey, b, 100, 1))
	assert.NotEqual(t, scoreCacheKey(tablesKey, a, 100, 1), scoreCacheKey(tablesKey, a, 101, 1))

	other := DefaultScoringTables()
	other.HomeCountry = "peru"
	assert.NotEqual(t, scoreCacheKey(tablesKey, a, 100, 1), scoreCacheKey(other.fingerprint(), a, 100, 1))

	b.Price++
	assert.NotEqual(t, scoreCacheKey(tablesKey, a, 100, 1), scoreCacheKey(tablesKey, b, 100, 1))
}

func TestScorerService_SharedCacheKeepsTablesApart(t *testing.T) {
	c := NewShardedCache(100, time.Minute, 2)
	defer c.Stop()

	tables := DefaultScoringTables()
	tables.EmissionFactors[model.CategoryGrains] = 0.5
	defaults := NewScorerService(WithScoreCache(c))
	custom := NewScorerService(WithScoringTables(tables), WithScoreCache(c))

	first, err := defaults.Score(grainProduct(), 1000)
	require.NoError(t, err)
	second, err := custom.Score(grainProduct(), 1000)
	require.NoError(t, err)

	assert.InDelta(t, 2.55, first.CarbonFootprintKg, 0.0005)
	assert.InDelta(t, 0.55, second.CarbonFootprintKg, 0.0005)
	assert.Equal(t, int64(0), c.Metrics().Hits)
}

func TestScorerService_Compare(t *testing.T) {
	scorer := NewScorerService()

	t.Run("significantly better second product", func(t *testing.T) {
		cmp, err := scorer.Compare(grainProduct(), 1000, organicLocalVegetables(), 1000)
		require.NoError(t, err)

		assert.Equal(t, RecommendationSignificantlyBetter, cmp.Recommendation)
		assert.Equal(t, "greens", cmp.Better)
		assert.InDelta(t, cmp.Second.Overall-cmp.First.Overall, cmp.Difference.Overall, 0.01)
		assert.Greater(t, cmp.Difference.Overall, 20.0)
	})

	t.Run("better first product", func(t *testing.T) {
		cmp, err := scorer.Compare(organicLocalVegetables(), 1000, grainProduct(), 1000)
		require.NoError(t, err)
		assert.Equal(t, "greens", cmp.Better)
		assert.Less(t, cmp.Difference.Overall, 0.0)
	})

	t.Run("moderate difference", func(t *testing.T) {
		a := grainProduct()
		b := grainProduct()
		b.ID = "rice-fair"
		b.Labels = []string{model.LabelFairTrade, model.LabelBCorp}

		cmp, err := scorer.Compare(a, 1000, b, 1000)
		require.NoError(t, err)
		assert.InDelta(t, 14.85, cmp.Difference.Overall, 0.01)
		assert.Equal(t, RecommendationBetter, cmp.Recommendation)
		assert.Equal(t, "rice-fair", cmp.Better)
	})

	t.Run("identical products are similar", func(t *testing.T) {
		cmp, err := scorer.Compare(grainProduct(), 1000, grainProduct(), 1000)
		require.NoError(t, err)
		assert.Equal(t, RecommendationSimilar, cmp.Recommendation)
		assert.Empty(t, cmp.Better)
		assert.Zero(t, cmp.Difference.Overall)
	})

	t.Run("invalid input propagates", func(t *testing.T) {
		_, err := scorer.Compare(grainProduct(), 1000, model.Product{Price: -1}, 0)
		assert.True(t, errors.Is(err, model.ErrInvalidInput))
	})
}
