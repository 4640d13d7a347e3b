package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/basket-service/internal/domain/model"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestRequests_Validate(t *testing.T) {
	milk := model.Product{ID: "milk", Name: "Milk", Category: model.CategoryMilk, Price: 120}

	tests := []struct {
		name    string
		request interface{ Validate() error }
		wantErr bool
	}{
		{name: "score ok", request: &ScoreRequest{Product: milk}},
		{name: "score without id or name", request: &ScoreRequest{Product: model.Product{Price: 10}}, wantErr: true},
		{name: "score negative average", request: &ScoreRequest{Product: milk, CategoryAverage: int64Ptr(-1)}, wantErr: true},
		{name: "compare ok", request: &CompareRequest{First: milk, Second: milk}},
		{name: "compare missing second", request: &CompareRequest{First: milk}, wantErr: true},
		{name: "optimize ok", request: &OptimizeRequest{Budget: 1000, Items: []OptimizeItem{{Product: milk, Quantity: 2}}}},
		{name: "optimize empty basket ok", request: &OptimizeRequest{Budget: 0}},
		{name: "optimize negative budget", request: &OptimizeRequest{Budget: -1}, wantErr: true},
		{name: "optimize negative quantity", request: &OptimizeRequest{Items: []OptimizeItem{{Product: milk, Quantity: -1}}}, wantErr: true},
		{name: "quick negative budget", request: &QuickOptimizeRequest{Budget: -5}, wantErr: true},
		{name: "substitutes ok", request: &SubstitutesRequest{Product: milk}},
		{name: "substitutes negative limit", request: &SubstitutesRequest{Product: milk, Limit: -1}, wantErr: true},
		{name: "batch empty", request: &BatchSubstitutesRequest{}, wantErr: true},
		{name: "batch ok", request: &BatchSubstitutesRequest{Products: []model.Product{milk}}},
		{name: "route empty", request: &RouteRequest{}, wantErr: true},
		{name: "route inline and ids", request: &RouteRequest{Stores: []model.Store{{ID: "s"}}, StoreIDs: []string{"s"}}, wantErr: true},
		{name: "route by ids", request: &RouteRequest{StoreIDs: []string{"s"}}},
		{name: "route compare empty", request: &RouteCompareRequest{}, wantErr: true},
		{name: "nearby negative radius", request: &NearbyRequest{RadiusKm: -1}, wantErr: true},
		{name: "impact negative quantity", request: &ImpactRequest{Lines: []model.BasketLine{{Product: milk, Quantity: -2}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNearbyRequest_DefaultRadius(t *testing.T) {
	req := NearbyRequest{}
	require.NoError(t, req.Validate())
	assert.Equal(t, DefaultNearbyRadiusKm, req.RadiusKm)
}

func TestSubstitutesRequest_Criteria(t *testing.T) {
	req := SubstitutesRequest{Product: model.Product{Name: "x"}}
	c := req.Criteria("es")
	assert.Equal(t, DefaultMaxPriceIncreasePct, c.MaxPriceIncreasePct)
	assert.Equal(t, DefaultMinImprovement, c.MinImprovement)
	assert.Equal(t, "es", c.Locale)

	req.MaxPriceIncreasePct = float64Ptr(0)
	req.MinImprovement = float64Ptr(12)
	c = req.Criteria("en")
	assert.Zero(t, c.MaxPriceIncreasePct)
	assert.Equal(t, 12.0, c.MinImprovement)
}

func TestBatchSubstitutesRequest_Criteria(t *testing.T) {
	req := BatchSubstitutesRequest{}
	assert.Equal(t, DefaultBatchMaxPriceIncreasePct, req.Criteria("en").MaxPriceIncreasePct)
}

func TestCreateShoppingListRequest_ToModel(t *testing.T) {
	req := CreateShoppingListRequest{Name: "Weekly", Budget: 6000, Items: []model.ShoppingListItem{{ProductID: "milk", Quantity: 2}}}
	l := req.ToModel()
	assert.Equal(t, "Weekly", l.Name)
	assert.Equal(t, int64(6000), l.Budget)
	assert.Len(t, l.Items, 1)
}
