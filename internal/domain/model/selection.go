package model

// OptimizationWeights blends the three knapsack objectives.
type OptimizationWeights struct {
	Sustainability float64 `json:"sustainability"`
	Savings        float64 `json:"savings"`
	Priority       float64 `json:"priority"`
}

// BasketItem is one knapsack candidate.
// SustainabilityScore is the overall score in [0,100] and CategoryAverage the
// mean category price in minor units (0 when unknown).
type BasketItem struct {
	Product             Product `json:"product"`
	DesiredQuantity     int     `json:"desired_quantity"`
	Priority            int     `json:"priority"`
	Essential           bool    `json:"essential"`
	SustainabilityScore float64 `json:"sustainability_score"`
	CategoryAverage     int64   `json:"category_average"`
}

// SelectionStats summarises a knapsack selection. Money is in minor units.
type SelectionStats struct {
	TotalCost             int64   `json:"total_cost"`
	BudgetRemaining       int64   `json:"budget_remaining"`
	ItemsSelected         int     `json:"items_selected"`
	TotalItems            int     `json:"total_items"`
	AverageSustainability float64 `json:"average_sustainability"`
	TotalValue            float64 `json:"total_value"`
	BudgetUsedPercent     float64 `json:"budget_used_percent"`
}

// Selection is the knapsack result. Quantities is aligned with the input items.
type Selection struct {
	Quantities        []int          `json:"quantities"`
	Stats             SelectionStats `json:"stats"`
	Granularity       int64          `json:"granularity"`
	EssentialsReduced bool           `json:"essentials_reduced,omitempty"`
}

// SelectedLine pairs an input item with the chosen quantity.
type SelectedLine struct {
	Item     BasketItem `json:"item"`
	Quantity int        `json:"quantity"`
	Subtotal int64      `json:"subtotal"`
}

// Lines returns the items with a positive chosen quantity, in input order.
func (s Selection) Lines(items []BasketItem) []SelectedLine {
	lines := make([]SelectedLine, 0, len(items))
	for i, q := range s.Quantities {
		if q <= 0 || i >= len(items) {
			continue
		}
		lines = append(lines, SelectedLine{
			Item:     items[i],
			Quantity: q,
			Subtotal: items[i].Product.Price * int64(q),
		})
	}
	return lines
}
