// Package dto defines the JSON request and response bodies of the HTTP API.
//
// Requests carry structural validation only. Range checks on scores, weights
// and quantities stay with the engines so the CLI and the API reject the same input.
package dto

import (
	"fmt"
	"strings"

	"github.com/guttosm/basket-service/internal/domain/model"
)

// Defaults applied when a request leaves a field out.
const (
	DefaultMaxPriceIncreasePct      = 0.1
	DefaultBatchMaxPriceIncreasePct = 0.2
	DefaultMinImprovement           = 5.0
	DefaultNearbyRadiusKm           = 10.0
	DefaultListLimit                = 50
)

// ScoreRequest asks for the sustainability score of one product.
// When CategoryAverage is omitted the catalog average is used if available.
//
// @Description Score one product
type ScoreRequest struct {
	Product         model.Product `json:"product"`
	CategoryAverage *int64        `json:"category_average,omitempty" example:"250"`
	// Quantity bought, used for the bulk-buy bonus. Defaults to 1.
	Quantity float64 `json:"quantity,omitempty" example:"1"`
} // @name ScoreRequest

// Validate performs custom validation on the request.
func (r *ScoreRequest) Validate() error {
	if err := requireProduct("product", r.Product); err != nil {
		return err
	}
	return nonNegativeAverage("category_average", r.CategoryAverage)
}

// CompareRequest scores two products side by side.
//
// @Description Compare two products
type CompareRequest struct {
	First         model.Product `json:"first"`
	Second        model.Product `json:"second"`
	FirstAverage  *int64        `json:"first_category_average,omitempty"`
	SecondAverage *int64        `json:"second_category_average,omitempty"`
} // @name CompareRequest

func (r *CompareRequest) Validate() error {
	if err := requireProduct("first", r.First); err != nil {
		return err
	}
	if err := requireProduct("second", r.Second); err != nil {
		return err
	}
	if err := nonNegativeAverage("first_category_average", r.FirstAverage); err != nil {
		return err
	}
	return nonNegativeAverage("second_category_average", r.SecondAverage)
}

// OptimizeItem is one basket candidate. A missing sustainability score is
// computed by the scorer; a missing category average falls back to the catalog.
type OptimizeItem struct {
	Product             model.Product `json:"product"`
	Quantity            int           `json:"quantity" example:"2"`
	Priority            int           `json:"priority,omitempty" example:"3"`
	Essential           bool          `json:"essential,omitempty"`
	SustainabilityScore *float64      `json:"sustainability_score,omitempty"`
	CategoryAverage     *int64        `json:"category_average,omitempty"`
} // @name OptimizeItem

// OptimizeRequest runs the knapsack over a basket. Weights win over the
// priority flags when both are given.
//
// @Description Optimize a basket within a budget (minor currency units)
type OptimizeRequest struct {
	Items                    []OptimizeItem             `json:"items"`
	Budget                   int64                      `json:"budget" example:"5000"`
	EssentialsMode           bool                       `json:"essentials_mode,omitempty"`
	Weights                  *model.OptimizationWeights `json:"weights,omitempty"`
	PrioritizeSustainability bool                       `json:"prioritize_sustainability,omitempty"`
	PrioritizeSavings        bool                       `json:"prioritize_savings,omitempty"`
} // @name OptimizeRequest

func (r *OptimizeRequest) Validate() error {
	if r.Budget < 0 {
		return model.NewValidationError("budget", "must not be negative")
	}
	return validateItems(r.Items)
}

// QuickOptimizeRequest runs the knapsack with the quick weights and a flat priority.
//
// @Description Quick basket optimization
type QuickOptimizeRequest struct {
	Items  []OptimizeItem `json:"items"`
	Budget int64          `json:"budget" example:"5000"`
} // @name QuickOptimizeRequest

func (r *QuickOptimizeRequest) Validate() error {
	if r.Budget < 0 {
		return model.NewValidationError("budget", "must not be negative")
	}
	return validateItems(r.Items)
}

// SubstitutesRequest looks for alternatives to one product. An empty pool
// means the catalog is searched.
//
// @Description Find substitutes for a product
type SubstitutesRequest struct {
	Product             model.Product            `json:"product"`
	Pool                []model.Product          `json:"pool,omitempty"`
	MaxPriceIncreasePct *float64                 `json:"max_price_increase_pct,omitempty" example:"0.1"`
	MinImprovement      *float64                 `json:"min_improvement,omitempty" example:"5"`
	CategoryAverages    map[model.Category]int64 `json:"category_averages,omitempty"`
	Limit               int                      `json:"limit,omitempty" example:"5"`
} // @name SubstitutesRequest

func (r *SubstitutesRequest) Validate() error {
	if err := requireProduct("product", r.Product); err != nil {
		return err
	}
	if r.Limit < 0 {
		return model.NewValidationError("limit", "must not be negative")
	}
	return nil
}

// Criteria builds engine criteria, filling defaults.
func (r *SubstitutesRequest) Criteria(locale string) model.SubstitutionCriteria {
	return criteria(r.MaxPriceIncreasePct, r.MinImprovement, DefaultMaxPriceIncreasePct, r.CategoryAverages, locale)
}

// BatchSubstitutesRequest finds the best substitute for each product over a shared pool.
//
// @Description Batch substitution with savings report
type BatchSubstitutesRequest struct {
	Products            []model.Product          `json:"products"`
	Pool                []model.Product          `json:"pool"`
	MaxPriceIncreasePct *float64                 `json:"max_price_increase_pct,omitempty" example:"0.2"`
	MinImprovement      *float64                 `json:"min_improvement,omitempty" example:"5"`
	CategoryAverages    map[model.Category]int64 `json:"category_averages,omitempty"`
	MaxSubstitutions    int                      `json:"max_substitutions,omitempty" example:"10"`
} // @name BatchSubstitutesRequest

func (r *BatchSubstitutesRequest) Validate() error {
	if len(r.Products) == 0 {
		return model.NewValidationError("products", "must not be empty")
	}
	for i, p := range r.Products {
		if err := requireProduct(fmt.Sprintf("products[%d]", i), p); err != nil {
			return err
		}
	}
	if r.MaxSubstitutions < 0 {
		return model.NewValidationError("max_substitutions", "must not be negative")
	}
	return nil
}

func (r *BatchSubstitutesRequest) Criteria(locale string) model.SubstitutionCriteria {
	return criteria(r.MaxPriceIncreasePct, r.MinImprovement, DefaultBatchMaxPriceIncreasePct, r.CategoryAverages, locale)
}

// RouteRequest orders store visits from a start point. Stores may be given
// inline or, when the catalog is enabled, by ID.
//
// @Description Optimize a store route
type RouteRequest struct {
	Start    model.Location `json:"start"`
	Stores   []model.Store  `json:"stores,omitempty"`
	StoreIDs []string       `json:"store_ids,omitempty"`
} // @name RouteRequest

func (r *RouteRequest) Validate() error {
	if len(r.Stores) == 0 && len(r.StoreIDs) == 0 {
		return model.NewValidationError("stores", "must not be empty")
	}
	if len(r.Stores) > 0 && len(r.StoreIDs) > 0 {
		return model.NewValidationError("store_ids", "cannot be combined with stores")
	}
	return nil
}

// RouteCompareRequest evaluates alternative visiting orders.
//
// @Description Compare visiting orders
type RouteCompareRequest struct {
	Start        model.Location `json:"start"`
	Stores       []model.Store  `json:"stores"`
	Alternatives [][]int        `json:"alternatives,omitempty"`
} // @name RouteCompareRequest

func (r *RouteCompareRequest) Validate() error {
	if len(r.Stores) == 0 {
		return model.NewValidationError("stores", "must not be empty")
	}
	return nil
}

// NearbyRequest filters a supplied store list by distance.
//
// @Description Stores within a radius
type NearbyRequest struct {
	At       model.Location `json:"at"`
	Stores   []model.Store  `json:"stores"`
	RadiusKm float64        `json:"radius_km,omitempty" example:"10"`
} // @name NearbyRequest

func (r *NearbyRequest) Validate() error {
	if r.RadiusKm < 0 {
		return model.NewValidationError("radius_km", "must not be negative")
	}
	if r.RadiusKm == 0 {
		r.RadiusKm = DefaultNearbyRadiusKm
	}
	return nil
}

// ImpactRequest analyses the footprint of a basket.
//
// @Description Basket impact analysis
type ImpactRequest struct {
	Lines            []model.BasketLine       `json:"lines"`
	CategoryAverages map[model.Category]int64 `json:"category_averages,omitempty"`
} // @name ImpactRequest

func (r *ImpactRequest) Validate() error {
	for i, l := range r.Lines {
		if l.Quantity < 0 {
			return model.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "must not be negative")
		}
	}
	return nil
}

// CreateShoppingListRequest creates a persisted list.
//
// @Description Create a shopping list
type CreateShoppingListRequest struct {
	Name   string                   `json:"name" binding:"required" example:"Weekly"`
	Budget int64                    `json:"budget" example:"6000"`
	Items  []model.ShoppingListItem `json:"items"`
} // @name CreateShoppingListRequest

// ToModel converts the request into a shopping list.
func (r *CreateShoppingListRequest) ToModel() *model.ShoppingList {
	return &model.ShoppingList{Name: r.Name, Budget: r.Budget, Items: r.Items}
}

// OptimizeShoppingListRequest tunes how a stored list is optimized.
//
// @Description Optimize a stored shopping list
type OptimizeShoppingListRequest struct {
	EssentialsMode           bool                       `json:"essentials_mode,omitempty"`
	Weights                  *model.OptimizationWeights `json:"weights,omitempty"`
	PrioritizeSustainability bool                       `json:"prioritize_sustainability,omitempty"`
	PrioritizeSavings        bool                       `json:"prioritize_savings,omitempty"`
} // @name OptimizeShoppingListRequest

func validateItems(items []OptimizeItem) error {
	for i, it := range items {
		if err := requireProduct(fmt.Sprintf("items[%d].product", i), it.Product); err != nil {
			return err
		}
		if it.Quantity < 0 {
			return model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must not be negative")
		}
		if err := nonNegativeAverage(fmt.Sprintf("items[%d].category_average", i), it.CategoryAverage); err != nil {
			return err
		}
	}
	return nil
}

func requireProduct(field string, p model.Product) error {
	if strings.TrimSpace(p.Name) == "" && p.ID == "" {
		return model.NewValidationError(field, "needs an id or a name")
	}
	if p.Price < 0 {
		return model.NewValidationError(field+".price", "must not be negative")
	}
	return nil
}

func nonNegativeAverage(field string, avg *int64) error {
	if avg != nil && *avg < 0 {
		return model.NewValidationError(field, "must not be negative")
	}
	return nil
}

func criteria(maxIncrease, minImprovement *float64, defaultIncrease float64, averages map[model.Category]int64, locale string) model.SubstitutionCriteria {
	c := model.SubstitutionCriteria{
		MaxPriceIncreasePct: defaultIncrease,
		MinImprovement:      DefaultMinImprovement,
		CategoryAverages:    averages,
		Locale:              locale,
	}
	if maxIncrease != nil {
		c.MaxPriceIncreasePct = *maxIncrease
	}
	if minImprovement != nil {
		c.MinImprovement = *minImprovement
	}
	return c
}
