package model

// SubstitutionComponents are the four weighted sub-scores of a substitute.
type SubstitutionComponents struct {
	Improvement float64 `json:"improvement"`
	Savings     float64 `json:"savings"`
	Category    float64 `json:"category"`
	Nutrition   float64 `json:"nutrition"`
}

// SubstitutionResult ranks one candidate against the product it would replace.
type SubstitutionResult struct {
	Original                  Product                `json:"original"`
	Candidate                 Product                `json:"candidate"`
	Score                     float64                `json:"score"`
	SustainabilityImprovement float64                `json:"sustainability_improvement"`
	Savings                   int64                  `json:"savings"`
	SavingsPercent            float64                `json:"savings_percent"`
	CarbonReductionKg         float64                `json:"carbon_reduction_kg"`
	Components                SubstitutionComponents `json:"components"`
	Reasons                   []string               `json:"reasons"`
}

// SubstitutionCriteria bounds which candidates qualify.
// MaxPriceIncreasePct is a fraction: 0.1 allows a 10% more expensive candidate.
type SubstitutionCriteria struct {
	MaxPriceIncreasePct float64
	MinImprovement      float64
	CategoryAverages    map[Category]int64
	Locale              string
}

// BatchSubstitution is the best substitute per product plus totals.
type BatchSubstitution struct {
	Substitutions          []SubstitutionResult `json:"substitutions"`
	TotalSavings           int64                `json:"total_savings"`
	TotalCarbonReductionKg float64              `json:"total_carbon_reduction_kg"`
	AverageImprovement     float64              `json:"average_improvement"`
}

// CategorySavings aggregates substitutions of one original category.
type CategorySavings struct {
	Count              int     `json:"count"`
	Savings            int64   `json:"savings"`
	CarbonReductionKg  float64 `json:"carbon_reduction_kg"`
	AverageImprovement float64 `json:"average_improvement"`
}

// SavingsReport summarises a batch substitution run.
type SavingsReport struct {
	TotalSubstitutions     int                          `json:"total_substitutions"`
	TotalSavings           int64                        `json:"total_savings"`
	TotalCarbonReductionKg float64                      `json:"total_carbon_reduction_kg"`
	AverageImprovement     float64                      `json:"average_improvement"`
	ByCategory             map[Category]CategorySavings `json:"by_category"`
	TopSavings             []SubstitutionResult         `json:"top_savings"`
}
