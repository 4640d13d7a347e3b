package service

import (
	"math"
	"math/bits"
	"sync"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// Objective weight presets used by the different entry points.
var (
	DefaultWeights  = model.OptimizationWeights{Sustainability: 0.3, Savings: 0.4, Priority: 0.3}
	BalancedWeights = model.OptimizationWeights{Sustainability: 0.35, Savings: 0.35, Priority: 0.3}
	QuickWeights    = model.OptimizationWeights{Sustainability: 0.4, Savings: 0.3, Priority: 0.3}
)

const (
	// DefaultMaxQuantityPerItem bounds DesiredQuantity per item.
	DefaultMaxQuantityPerItem = 20
	// DefaultMaxBudgetUnits bounds the width of the DP table.
	DefaultMaxBudgetUnits = 200_000
	// DefaultMaxTableCells bounds items x budget units kept for backtracking.
	DefaultMaxTableCells = 20_000_000

	// hardMaxQuantity is the largest quantity a choice cell can hold.
	hardMaxQuantity = math.MaxUint16

	// valueScale turns fractional per-unit values into integer micro-points.
	valueScale = 1_000_000

	defaultPriority = 1
	maxPriority     = 5
	// QuickPriority is the priority assigned to every item by quick optimization.
	QuickPriority = 3
)

// WeightsFor returns the weights used when a caller only states preferences.
func WeightsFor(prioritizeSustainability, prioritizeSavings bool) model.OptimizationWeights {
	w := model.OptimizationWeights{Sustainability: 0.2, Savings: 0.2, Priority: 0.3}
	if prioritizeSustainability {
		w.Sustainability = 0.35
	}
	if prioritizeSavings {
		w.Savings = 0.35
	}
	return w
}

// knapsackState holds the rolling DP rows and the choice table for reuse via sync.Pool.
type knapsackState struct {
	prev   []int64
	cur    []int64
	choice []uint16
}

var knapsackPool = sync.Pool{
	New: func() interface{} {
		return &knapsackState{}
	},
}

// getKnapsackState returns a state with zeroed rows of the given width and a
// choice table of the given number of cells.
func getKnapsackState(width, cells int) *knapsackState {
	state, _ := knapsackPool.Get().(*knapsackState)
	if state == nil {
		state = &knapsackState{}
	}

	if cap(state.prev) < width {
		state.prev = make([]int64, width)
		state.cur = make([]int64, width)
	} else {
		state.prev = state.prev[:width]
		state.cur = state.cur[:width]
		for i := range state.prev {
			state.prev[i] = 0
		}
	}

	if cap(state.choice) < cells {
		state.choice = make([]uint16, cells)
	} else {
		state.choice = state.choice[:cells]
	}
	return state
}

func putKnapsackState(state *knapsackState) {
	// Drop very large tables instead of pinning them in the pool.
	if cap(state.choice) > 4_000_000 {
		state.choice = nil
	}
	if cap(state.prev) > 1_000_000 {
		state.prev, state.cur = nil, nil
	}
	knapsackPool.Put(state)
}

// BasketOptimizer defines the interface for budget-constrained basket selection.
type BasketOptimizer interface {
	Optimize(items []model.BasketItem, budget int64, weights model.OptimizationWeights) (model.Selection, error)
	OptimizeWithEssentials(items []model.BasketItem, budget int64, weights model.OptimizationWeights) (model.Selection, error)
}

// KnapsackOption configures a KnapsackOptimizerService.
type KnapsackOption func(*KnapsackOptimizerService)

// KnapsackOptimizerService selects item quantities under a budget with a
// bounded multi-choice knapsack over integer budget units.
type KnapsackOptimizerService struct {
	maxQuantity    int
	maxBudgetUnits int64
	maxTableCells  int64
	granularity    int64
}

// NewKnapsackOptimizerService creates an optimizer with default ceilings.
func NewKnapsackOptimizerService(opts ...KnapsackOption) *KnapsackOptimizerService {
	s := &KnapsackOptimizerService{
		maxQuantity:    DefaultMaxQuantityPerItem,
		maxBudgetUnits: DefaultMaxBudgetUnits,
		maxTableCells:  DefaultMaxTableCells,
		granularity:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxQuantityPerItem sets the largest DesiredQuantity accepted.
func WithMaxQuantityPerItem(n int) KnapsackOption {
	return func(s *KnapsackOptimizerService) {
		if n > 0 && n <= hardMaxQuantity {
			s.maxQuantity = n
		}
	}
}

// WithMaxBudgetUnits caps the DP width. Larger budgets are solved on a coarser grid.
func WithMaxBudgetUnits(n int64) KnapsackOption {
	return func(s *KnapsackOptimizerService) {
		if n > 0 {
			s.maxBudgetUnits = n
		}
	}
}

// WithMaxTableCells caps the size of the backtracking table.
func WithMaxTableCells(n int64) KnapsackOption {
	return func(s *KnapsackOptimizerService) {
		if n > 0 {
			s.maxTableCells = n
		}
	}
}

// WithGranularity sets how many minor currency units one DP step represents.
func WithGranularity(g int64) KnapsackOption {
	return func(s *KnapsackOptimizerService) {
		if g > 0 {
			s.granularity = g
		}
	}
}

// Optimize picks quantities maximising the weighted value within budget.
// A budget below every item price yields an all-zero selection, not an error.
func (s *KnapsackOptimizerService) Optimize(items []model.BasketItem, budget int64, weights model.OptimizationWeights) (model.Selection, error) {
	if err := s.validate(items, budget, weights); err != nil {
		return model.Selection{}, err
	}

	values := unitValues(items, weights)
	quantities, granularity := s.solve(items, values, budget)

	sel := buildSelection(items, values, quantities, budget)
	sel.Granularity = granularity

	log.Debug().
		Int("items", len(items)).
		Int64("budget", budget).
		Int64("total_cost", sel.Stats.TotalCost).
		Int64("granularity", granularity).
		Msg("Basket optimized")
	return sel, nil
}

// OptimizeWithEssentials buys essentials first and spends the rest on the
// other items. When essentials alone exceed the budget, every essential is
// scaled down by budget/essentialCost and nothing else is bought.
func (s *KnapsackOptimizerService) OptimizeWithEssentials(items []model.BasketItem, budget int64, weights model.OptimizationWeights) (model.Selection, error) {
	if err := s.validate(items, budget, weights); err != nil {
		return model.Selection{}, err
	}

	values := unitValues(items, weights)

	var essentialCost int64
	for _, it := range items {
		if it.Essential {
			essentialCost += it.Product.Price * int64(it.DesiredQuantity)
		}
	}

	if essentialCost > budget {
		quantities := scaleEssentials(items, budget, essentialCost)
		sel := buildSelection(items, values, quantities, budget)
		sel.Granularity = 1
		sel.EssentialsReduced = true
		log.Debug().
			Int64("essential_cost", essentialCost).
			Int64("budget", budget).
			Msg("Essentials exceed budget, scaled down")
		return sel, nil
	}

	quantities := make([]int, len(items))
	rest := make([]model.BasketItem, 0, len(items))
	restValues := make([]int64, 0, len(items))
	restIndex := make([]int, 0, len(items))
	for i, it := range items {
		if it.Essential {
			quantities[i] = it.DesiredQuantity
			continue
		}
		rest = append(rest, it)
		restValues = append(restValues, values[i])
		restIndex = append(restIndex, i)
	}

	restQuantities, granularity := s.solve(rest, restValues, budget-essentialCost)
	for k, q := range restQuantities {
		quantities[restIndex[k]] = q
	}

	sel := buildSelection(items, values, quantities, budget)
	sel.Granularity = granularity
	return sel, nil
}

// solve returns quantities aligned with items and the granularity they were
// computed on. Budgets wider than the DP ceiling are tried on a doubling
// ladder of grids, each with the budget clamped to what that grid can hold,
// and the highest value wins. Every grid a smaller budget uses is also tried
// for a larger one, so raising the budget never lowers the total value.
func (s *KnapsackOptimizerService) solve(items []model.BasketItem, values []int64, budget int64) ([]int, int64) {
	maxUnits := s.unitsCeiling(items)

	var (
		best            []int
		bestValue       int64 = -1
		bestGranularity int64
	)
	for g := s.granularity; ; g *= 2 {
		limit := budget
		if g <= math.MaxInt64/maxUnits && maxUnits*g < budget {
			limit = maxUnits * g
		}

		quantities := s.solveAt(items, values, limit, g)
		if value := selectionTotal(values, quantities); value > bestValue {
			best, bestValue, bestGranularity = quantities, value, g
		}
		if limit == budget {
			break
		}
	}
	return best, bestGranularity
}

// unitsCeiling is the widest DP row allowed for items. It only depends on
// the items, never on the budget.
func (s *KnapsackOptimizerService) unitsCeiling(items []model.BasketItem) int64 {
	var candidates int64
	for _, it := range items {
		if it.DesiredQuantity > 0 && it.Product.Price > 0 {
			candidates++
		}
	}

	maxUnits := s.maxBudgetUnits
	if candidates > 0 {
		if byCells := s.maxTableCells/candidates - 1; byCells < maxUnits {
			maxUnits = byCells
		}
	}
	if maxUnits < 1 {
		maxUnits = 1
	}
	return maxUnits
}

// solveAt runs the DP on a fixed grid. Costs are rounded up and the budget
// down, so the result always fits the real budget.
func (s *KnapsackOptimizerService) solveAt(items []model.BasketItem, values []int64, budget, granularity int64) []int {
	quantities := make([]int, len(items))
	active := make([]int, 0, len(items))

	for i, it := range items {
		switch {
		case it.DesiredQuantity == 0:
		case it.Product.Price == 0:
			quantities[i] = it.DesiredQuantity
		case it.Product.Price <= budget:
			active = append(active, i)
		}
	}

	capacity := int(budget / granularity)
	if len(active) == 0 || capacity == 0 {
		return quantities
	}

	width := capacity + 1
	costs := make([]int, len(active))
	for k, idx := range active {
		costs[k] = int(ceilDiv(items[idx].Product.Price, granularity))
	}

	state := getKnapsackState(width, len(active)*width)
	defer putKnapsackState(state)

	prev, cur := state.prev, state.cur
	for k, idx := range active {
		cost := costs[k]
		value := values[idx]
		maxQ := items[idx].DesiredQuantity
		if limit := capacity / cost; limit < maxQ {
			maxQ = limit
		}

		row := state.choice[k*width : (k+1)*width]
		for w := 0; w < width; w++ {
			best, bestQ := prev[w], 0
			for q := 1; q <= maxQ && q*cost <= w; q++ {
				if candidate := prev[w-q*cost] + int64(q)*value; candidate > best {
					best, bestQ = candidate, q
				}
			}
			cur[w] = best
			row[w] = uint16(bestQ)
		}
		prev, cur = cur, prev
	}

	w := capacity
	for k := len(active) - 1; k >= 0; k-- {
		q := int(state.choice[k*width+w])
		quantities[active[k]] = q
		w -= q * costs[k]
	}

	return quantities
}

func selectionTotal(values []int64, quantities []int) int64 {
	var total int64
	for i, q := range quantities {
		total += values[i] * int64(q)
	}
	return total
}

func (s *KnapsackOptimizerService) validate(items []model.BasketItem, budget int64, w model.OptimizationWeights) error {
	if budget < 0 {
		return model.NewValidationError("budget", "must not be negative")
	}
	for _, wv := range []struct {
		field string
		value float64
	}{
		{"weights.sustainability", w.Sustainability},
		{"weights.savings", w.Savings},
		{"weights.priority", w.Priority},
	} {
		if math.IsNaN(wv.value) || wv.value < 0 || wv.value > 1 {
			return model.NewValidationError(wv.field, "must be between 0 and 1")
		}
	}
	for _, it := range items {
		switch {
		case it.Product.Price < 0:
			return model.NewValidationError("items["+it.Product.ID+"].price", "must not be negative")
		case it.DesiredQuantity < 0 || it.DesiredQuantity > s.maxQuantity:
			return model.NewValidationError("items["+it.Product.ID+"].desired_quantity", "out of range")
		case it.Priority < 0 || it.Priority > maxPriority:
			return model.NewValidationError("items["+it.Product.ID+"].priority", "must be between 1 and 5")
		case math.IsNaN(it.SustainabilityScore) || it.SustainabilityScore < 0 || it.SustainabilityScore > 100:
			return model.NewValidationError("items["+it.Product.ID+"].sustainability_score", "must be between 0 and 100")
		case it.CategoryAverage < 0:
			return model.NewValidationError("items["+it.Product.ID+"].category_average", "must not be negative")
		}
	}
	return nil
}

// unitValues computes the per-unit value of every item in micro-points.
func unitValues(items []model.BasketItem, w model.OptimizationWeights) []int64 {
	values := make([]int64, len(items))
	for i, it := range items {
		sustainability := clamp01(it.SustainabilityScore / 100)

		savings := 0.0
		if avg := it.CategoryAverage; avg > 0 {
			savings = clamp01(float64(avg-it.Product.Price) / float64(avg))
		}

		priority := it.Priority
		if priority == 0 {
			priority = defaultPriority
		}

		v := sustainability*w.Sustainability + savings*w.Savings + float64(priority)/maxPriority*w.Priority
		values[i] = int64(math.Round(v * valueScale))
	}
	return values
}

// scaleEssentials floors each essential quantity by budget/essentialCost using
// exact integer arithmetic, then gives a single unit back to essentials that
// dropped to zero while the budget still allows it.
func scaleEssentials(items []model.BasketItem, budget, essentialCost int64) []int {
	quantities := make([]int, len(items))
	var spent int64
	for i, it := range items {
		if !it.Essential {
			continue
		}
		if it.Product.Price == 0 {
			quantities[i] = it.DesiredQuantity
			continue
		}
		hi, lo := bits.Mul64(uint64(it.DesiredQuantity), uint64(budget))
		q, _ := bits.Div64(hi, lo, uint64(essentialCost))
		quantities[i] = int(q)
		spent += it.Product.Price * int64(q)
	}

	for i, it := range items {
		if it.Essential && it.DesiredQuantity > 0 && quantities[i] == 0 && spent+it.Product.Price <= budget {
			quantities[i] = 1
			spent += it.Product.Price
		}
	}
	return quantities
}

func buildSelection(items []model.BasketItem, values []int64, quantities []int, budget int64) model.Selection {
	var (
		stats      model.SelectionStats
		totalValue int64
		sustainSum float64
	)
	for i, q := range quantities {
		if q <= 0 {
			continue
		}
		stats.ItemsSelected++
		stats.TotalItems += q
		stats.TotalCost += items[i].Product.Price * int64(q)
		totalValue += values[i] * int64(q)
		sustainSum += items[i].SustainabilityScore * float64(q)
	}

	stats.BudgetRemaining = budget - stats.TotalCost
	if stats.TotalItems > 0 {
		stats.AverageSustainability = round2(sustainSum / float64(stats.TotalItems))
	}
	stats.TotalValue = round2(float64(totalValue) / valueScale * 100)
	if budget > 0 {
		stats.BudgetUsedPercent = round2(float64(stats.TotalCost) / float64(budget) * 100)
	}

	return model.Selection{Quantities: quantities, Stats: stats}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
