package model

import "time"

// BasketLine is a product with the quantity being bought.
type BasketLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CategoryImpact aggregates basket lines of one category.
type CategoryImpact struct {
	Items    int     `json:"items"`
	Cost     int64   `json:"cost"`
	CarbonKg float64 `json:"carbon_kg"`
}

// BasketAnalysis is the environmental and economic summary of a basket.
type BasketAnalysis struct {
	TotalCost             int64                       `json:"total_cost"`
	TotalItems            int                         `json:"total_items"`
	TotalCarbonKg         float64                     `json:"total_carbon_kg"`
	AverageSustainability float64                     `json:"average_sustainability"`
	AverageEconomic       float64                     `json:"average_economic"`
	AverageEnvironmental  float64                     `json:"average_environmental"`
	AverageSocial         float64                     `json:"average_social"`
	ByCategory            map[Category]CategoryImpact `json:"by_category"`
	Equivalences          ImpactEquivalences          `json:"equivalences"`
	Recommendations       []string                    `json:"recommendations"`
}

// ShoppingListItem references a catalog product inside a shopping list.
type ShoppingListItem struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Priority  int    `json:"priority" bson:"priority"`
	Essential bool   `json:"essential" bson:"essential"`
}

// ShoppingList is a persisted basket with its latest optimization.
type ShoppingList struct {
	ID               string             `json:"id" bson:"_id"`
	Name             string             `json:"name" bson:"name"`
	Budget           int64              `json:"budget" bson:"budget"`
	Items            []ShoppingListItem `json:"items" bson:"items"`
	LastOptimization *Selection         `json:"last_optimization,omitempty" bson:"last_optimization,omitempty"`
	OptimizedAt      *time.Time         `json:"optimized_at,omitempty" bson:"optimized_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// ShoppingListOptimization is a persisted list together with the basket the
// optimizer worked on and the lines it chose.
type ShoppingListOptimization struct {
	List    ShoppingList   `json:"list"`
	Items   []BasketItem   `json:"items"`
	Lines   []SelectedLine `json:"lines"`
	Missing []string       `json:"missing_product_ids,omitempty"`
}
