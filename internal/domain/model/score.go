package model

// ImpactEquivalences expresses a carbon footprint in everyday terms.
type ImpactEquivalences struct {
	KmDriven     float64 `json:"km_driven"`
	TreesNeeded  float64 `json:"trees_needed"`
	DaysOfEnergy float64 `json:"days_of_energy"`
}

// SustainabilityScore is the three-axis score of a single product.
type SustainabilityScore struct {
	Economic          float64            `json:"economic_score"`
	Environmental     float64            `json:"environmental_score"`
	Social            float64            `json:"social_score"`
	Overall           float64            `json:"overall_score"`
	CarbonFootprintKg float64            `json:"carbon_footprint_kg"`
	Equivalences      ImpactEquivalences `json:"equivalences"`
}

// ScoreDifference holds the per-axis delta between two scores (second minus first).
type ScoreDifference struct {
	Economic      float64 `json:"economic"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Overall       float64 `json:"overall"`
}

// ProductComparison is the result of scoring two products side by side.
type ProductComparison struct {
	First          SustainabilityScore `json:"first"`
	Second         SustainabilityScore `json:"second"`
	Difference     ScoreDifference     `json:"difference"`
	Better         string              `json:"better,omitempty"`
	Recommendation string              `json:"recommendation"`
}
