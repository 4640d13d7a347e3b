package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Route optimizer defaults.
const (
	DefaultSpeedKmh     = 30.0
	DefaultDwellMinutes = 15.0
	DefaultMaxPasses    = 100
	DefaultMaxStores    = 20
)

// A 2-opt move must shorten the tour by more than this many km.
const twoOptEpsilon = 1e-9

// Names of the built-in orders evaluated by Compare.
const (
	RouteOptimized = "optimized"
	RouteInput     = "input"
	RouteReversed  = "reversed"
)

// RoutePlanner orders stores into a short round trip.
type RoutePlanner interface {
	Optimize(stores []model.Store, start model.Location) (model.Route, error)
	Compare(stores []model.Store, start model.Location, alternatives [][]int) (model.RouteComparison, error)
	Nearby(stores []model.Store, at model.Location, radiusKm float64) ([]model.NearbyStore, error)
}

// RouteOption configures a RouteOptimizerService.
type RouteOption func(*RouteOptimizerService)

// WithMaxPasses caps the number of 2-opt passes.
func WithMaxPasses(n int) RouteOption {
	return func(s *RouteOptimizerService) {
		if n >= 0 {
			s.maxPasses = n
		}
	}
}

// WithMaxStores caps how many stores a single route may contain.
func WithMaxStores(n int) RouteOption {
	return func(s *RouteOptimizerService) {
		if n > 0 {
			s.maxStores = n
		}
	}
}

// WithSpeedKmh sets the assumed average travel speed.
func WithSpeedKmh(v float64) RouteOption {
	return func(s *RouteOptimizerService) {
		if v > 0 {
			s.speedKmh = v
		}
	}
}

// WithDwellMinutes sets the time spent inside each store.
func WithDwellMinutes(v float64) RouteOption {
	return func(s *RouteOptimizerService) {
		if v >= 0 {
			s.dwellMinutes = v
		}
	}
}

// RouteOptimizerService builds nearest-neighbor tours and refines them with
// 2-opt. The start location is fixed at both ends of the tour.
type RouteOptimizerService struct {
	maxPasses    int
	maxStores    int
	speedKmh     float64
	dwellMinutes float64
}

// NewRouteOptimizerService creates a route optimizer with default limits.
func NewRouteOptimizerService(opts ...RouteOption) *RouteOptimizerService {
	s := &RouteOptimizerService{
		maxPasses:    DefaultMaxPasses,
		maxStores:    DefaultMaxStores,
		speedKmh:     DefaultSpeedKmh,
		dwellMinutes: DefaultDwellMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b model.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h just outside [0, 1] near antipodes
	h = math.Max(0, math.Min(1, h))
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// distanceMatrix holds pairwise distances. Node 0 is the start location and
// node i+1 is stores[i].
type distanceMatrix struct {
	n    int
	data []float64
}

func newDistanceMatrix(stores []model.Store, start model.Location) distanceMatrix {
	n := len(stores) + 1
	points := make([]model.Location, n)
	points[0] = start
	for i, st := range stores {
		points[i+1] = st.Location
	}

	m := distanceMatrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(points[i], points[j])
			m.data[i*n+j] = d
			m.data[j*n+i] = d
		}
	}
	return m
}

func (m distanceMatrix) at(i, j int) float64 {
	return m.data[i*m.n+j]
}

// tourLength measures the closed tour start -> order... -> start.
func (m distanceMatrix) tourLength(order []int) float64 {
	var total float64
	prev := 0
	for _, idx := range order {
		total += m.at(prev, idx+1)
		prev = idx + 1
	}
	return total + m.at(prev, 0)
}

// Optimize orders stores into a round trip from start. Zero stores yield an
// empty route; one store yields the out-and-back trip.
func (s *RouteOptimizerService) Optimize(stores []model.Store, start model.Location) (model.Route, error) {
	if err := s.validateStores(stores, start); err != nil {
		return model.Route{}, err
	}
	if len(stores) == 0 {
		return model.Route{Stores: []model.Store{}, Order: []int{}}, nil
	}

	dm := newDistanceMatrix(stores, start)
	order := nearestNeighbor(stores, dm)
	nnDistance := dm.tourLength(order)
	passes := twoOpt(order, dm, s.maxPasses)
	total := dm.tourLength(order)

	route := s.buildRoute(stores, order, total)
	route.NearestNeighborDistanceKm = round2(nnDistance)
	route.Passes = passes

	log.Debug().
		Int("stores", len(stores)).
		Float64("nn_km", nnDistance).
		Float64("total_km", total).
		Int("passes", passes).
		Msg("Route optimized")
	return route, nil
}

// Compare evaluates the optimized order, the input order, its reverse and
// every caller supplied alternative. Each alternative must be a permutation
// of the store indices.
func (s *RouteOptimizerService) Compare(stores []model.Store, start model.Location, alternatives [][]int) (model.RouteComparison, error) {
	optimized, err := s.Optimize(stores, start)
	if err != nil {
		return model.RouteComparison{}, err
	}
	for i, alt := range alternatives {
		if err := validatePermutation(alt, len(stores)); err != nil {
			return model.RouteComparison{}, fmt.Errorf("alternative %d: %w", i+1, err)
		}
	}

	dm := newDistanceMatrix(stores, start)
	input := make([]int, len(stores))
	reversed := make([]int, len(stores))
	for i := range input {
		input[i] = i
		reversed[len(stores)-1-i] = i
	}

	summaries := []model.RouteSummary{
		s.summarize(RouteOptimized, optimized.Order, stores, dm),
		s.summarize(RouteInput, input, stores, dm),
		s.summarize(RouteReversed, reversed, stores, dm),
	}
	for i, alt := range alternatives {
		summaries = append(summaries, s.summarize(fmt.Sprintf("alternative_%d", i+1), alt, stores, dm))
	}

	best, worst := summaries[0], summaries[0]
	for _, r := range summaries[1:] {
		if r.DistanceKm < best.DistanceKm {
			best = r
		}
		if r.DistanceKm > worst.DistanceKm {
			worst = r
		}
	}

	return model.RouteComparison{
		Routes:           summaries,
		Best:             best,
		SavingsVsWorstKm: round2(worst.DistanceKm - best.DistanceKm),
	}, nil
}

// Nearby returns the stores within radiusKm of at, nearest first.
func (s *RouteOptimizerService) Nearby(stores []model.Store, at model.Location, radiusKm float64) ([]model.NearbyStore, error) {
	if !at.Valid() {
		return nil, model.NewValidationError("location", "coordinates out of range")
	}
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return nil, model.NewValidationError("radius_km", "must not be negative")
	}

	out := make([]model.NearbyStore, 0)
	for i, st := range stores {
		if !st.Location.Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("stores[%d].location", i), "coordinates out of range")
		}
		d := Haversine(at, st.Location)
		if d <= radiusKm {
			out = append(out, model.NearbyStore{Store: st, DistanceKm: round3(d)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Store.ID < out[j].Store.ID
	})
	return out, nil
}

func (s *RouteOptimizerService) buildRoute(stores []model.Store, order []int, total float64) model.Route {
	visit := make([]model.Store, len(order))
	for i, idx := range order {
		visit[i] = stores[idx]
	}
	travel, shopping := s.minutes(total, len(order))
	return model.Route{
		Stores:               visit,
		Order:                order,
		TotalDistanceKm:      round2(total),
		TravelMinutes:        round2(travel),
		ShoppingMinutes:      round2(shopping),
		EstimatedTimeMinutes: round2(travel + shopping),
	}
}

func (s *RouteOptimizerService) summarize(name string, order []int, stores []model.Store, dm distanceMatrix) model.RouteSummary {
	ids := make([]string, len(order))
	for i, idx := range order {
		ids[i] = stores[idx].ID
	}
	total := dm.tourLength(order)
	travel, shopping := s.minutes(total, len(order))
	return model.RouteSummary{
		Name:                 name,
		Order:                append([]int(nil), order...),
		StoreIDs:             ids,
		DistanceKm:           round2(total),
		EstimatedTimeMinutes: round2(travel + shopping),
	}
}

func (s *RouteOptimizerService) minutes(distanceKm float64, stops int) (travel, shopping float64) {
	return distanceKm / s.speedKmh * 60, float64(stops) * s.dwellMinutes
}

func (s *RouteOptimizerService) validateStores(stores []model.Store, start model.Location) error {
	if len(stores) > s.maxStores {
		return model.NewValidationError("stores", fmt.Sprintf("at most %d stores per route", s.maxStores))
	}
	if !start.Valid() {
		return model.NewValidationError("start", "coordinates out of range")
	}
	for i, st := range stores {
		if !st.Location.Valid() {
			return model.NewValidationError(fmt.Sprintf("stores[%d].location", i), "coordinates out of range")
		}
	}
	return nil
}

// nearestNeighbor greedily visits the closest unvisited store, breaking
// distance ties by the lowest store ID.
func nearestNeighbor(stores []model.Store, dm distanceMatrix) []int {
	n := len(stores)
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := 0

	for len(order) < n {
		best := -1
		var bestDist float64
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			d := dm.at(cur, j+1)
			if best == -1 || d < bestDist || (d == bestDist && stores[j].ID < stores[best].ID) {
				best, bestDist = j, d
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best + 1
	}
	return order
}

// twoOpt applies the best segment reversal of each pass until no move
// shortens the tour or maxPasses is reached. It returns the passes run.
func twoOpt(order []int, dm distanceMatrix, maxPasses int) int {
	n := len(order)
	node := func(pos int) int {
		if pos < 0 || pos >= n {
			return 0
		}
		return order[pos] + 1
	}

	passes := 0
	for passes < maxPasses {
		passes++
		bestGain := twoOptEpsilon
		bestI, bestJ := -1, -1

		for i := 0; i < n-1; i++ {
			prev, first := node(i-1), node(i)
			for j := i + 1; j < n; j++ {
				last, next := node(j), node(j+1)
				gain := dm.at(prev, first) + dm.at(last, next) - dm.at(prev, last) - dm.at(first, next)
				if gain > bestGain {
					bestGain, bestI, bestJ = gain, i, j
				}
			}
		}
		if bestI < 0 {
			break
		}
		for l, r := bestI, bestJ; l < r; l, r = l+1, r-1 {
			order[l], order[r] = order[r], order[l]
		}
	}
	return passes
}

func validatePermutation(order []int, n int) error {
	if len(order) != n {
		return model.NewValidationError("order", fmt.Sprintf("must list all %d stores", n))
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return model.NewValidationError("order", "must be a permutation of store indices")
		}
		seen[idx] = true
	}
	return nil
}
