package model

// Location is a WGS84 coordinate pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Valid reports whether the coordinates are finite and within range.
func (l Location) Valid() bool {
	if l.Latitude != l.Latitude || l.Longitude != l.Longitude {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Store is a shop location that can be visited on a route.
type Store struct {
	ID                   string   `json:"id" bson:"_id"`
	Name                 string   `json:"name" bson:"name"`
	Chain                string   `json:"chain,omitempty" bson:"chain,omitempty"`
	Address              string   `json:"address,omitempty" bson:"address,omitempty"`
	Location             Location `json:"location" bson:"location"`
	SustainabilityRating *float64 `json:"sustainability_rating,omitempty" bson:"sustainability_rating,omitempty"`
}

// Route is a visiting order over a set of stores, starting and ending at the
// start location. Order holds the indices of Stores in the input slice.
type Route struct {
	Stores                    []Store `json:"stores"`
	Order                     []int   `json:"order"`
	TotalDistanceKm           float64 `json:"total_distance_km"`
	NearestNeighborDistanceKm float64 `json:"nearest_neighbor_distance_km"`
	TravelMinutes             float64 `json:"travel_minutes"`
	ShoppingMinutes           float64 `json:"shopping_minutes"`
	EstimatedTimeMinutes      float64 `json:"estimated_time_minutes"`
	Passes                    int     `json:"passes"`
}

// RouteSummary describes one evaluated visiting order.
type RouteSummary struct {
	Name                 string   `json:"name"`
	Order                []int    `json:"order"`
	StoreIDs             []string `json:"store_ids"`
	DistanceKm           float64  `json:"distance_km"`
	EstimatedTimeMinutes float64  `json:"estimated_time_minutes"`
}

// RouteComparison ranks several visiting orders for the same stores.
type RouteComparison struct {
	Routes           []RouteSummary `json:"routes"`
	Best             RouteSummary   `json:"best"`
	SavingsVsWorstKm float64        `json:"savings_vs_worst_km"`
}

// NearbyStore is a store together with its distance from a reference point.
type NearbyStore struct {
	Store      Store   `json:"store"`
	DistanceKm float64 `json:"distance_km"`
}
