package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/i18n"
)

// Component weights of the substitution score. They sum to 1.
const (
	ImprovementComponentWeight = 0.35
	SavingsComponentWeight     = 0.30
	CategoryComponentWeight    = 0.20
	NutritionComponentWeight   = 0.15
)

const (
	savingsComponentFactor = 5.0

	sameCategoryScore    = 100.0
	relatedCategoryScore = 70.0
	otherCategoryScore   = 30.0

	significantImprovement = 20.0
	noticeableImprovement  = 10.0
	considerableSavingsPct = 15.0
	savingsPct             = 5.0
	investmentPct          = -5.0

	batchSavingsWeight = 10.0
	topSavingsLimit    = 5
)

// SubstituteFinder ranks cheaper or more sustainable alternatives.
type SubstituteFinder interface {
	FindSubstitutes(p model.Product, pool []model.Product, c model.SubstitutionCriteria) ([]model.SubstitutionResult, error)
	FindBatch(products, pool []model.Product, c model.SubstitutionCriteria, maxSubstitutions int) (model.BatchSubstitution, error)
}

// SubstitutionOption configures a SubstitutionEngineService.
type SubstitutionOption func(*SubstitutionEngineService)

// WithTranslator sets the translator used for reason strings.
func WithTranslator(t *i18n.Translator) SubstitutionOption {
	return func(s *SubstitutionEngineService) {
		s.translator = t
	}
}

// SubstitutionEngineService finds substitutes using a Scorer.
type SubstitutionEngineService struct {
	scorer     Scorer
	tables     ScoringTables
	translator *i18n.Translator
}

// NewSubstitutionEngineService creates a substitute finder backed by scorer.
// Category relations come from the scorer's tables.
func NewSubstitutionEngineService(scorer Scorer, opts ...SubstitutionOption) *SubstitutionEngineService {
	s := &SubstitutionEngineService{
		scorer:     scorer,
		tables:     scorer.Tables(),
		translator: i18n.GetTranslator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindSubstitutes returns qualifying candidates from pool ordered by score
// descending, then price ascending, then ID. An empty pool or no qualifying
// candidate yields an empty slice.
func (s *SubstitutionEngineService) FindSubstitutes(p model.Product, pool []model.Product, c model.SubstitutionCriteria) ([]model.SubstitutionResult, error) {
	if err := validateCriteria(c); err != nil {
		return nil, err
	}

	original, err := s.scorer.Score(p, c.CategoryAverages[p.Category])
	if err != nil {
		return nil, err
	}

	maxPrice := float64(p.Price) * (1 + c.MaxPriceIncreasePct)
	results := make([]model.SubstitutionResult, 0)

	for _, cand := range pool {
		if cand.ID != "" && cand.ID == p.ID {
			continue
		}
		if float64(cand.Price) > maxPrice {
			continue
		}

		score, err := s.scorer.Score(cand, c.CategoryAverages[cand.Category])
		if err != nil {
			return nil, fmt.Errorf("candidate %q: %w", cand.ID, err)
		}

		improvement := round2(score.Overall - original.Overall)
		if improvement < c.MinImprovement {
			continue
		}

		var pct float64
		if p.Price > 0 {
			pct = float64(p.Price-cand.Price) / float64(p.Price) * 100
		}

		comps := model.SubstitutionComponents{
			Improvement: round2(clampScore(improvement)),
			Savings:     round2(clampScore(pct * savingsComponentFactor)),
			Category:    s.categorySimilarity(p.Category, cand.Category),
			Nutrition:   round2(nutritionSimilarity(p.Nutrition, cand.Nutrition)),
		}

		results = append(results, model.SubstitutionResult{
			Original:  p,
			Candidate: cand,
			Score: round2(comps.Improvement*ImprovementComponentWeight +
				comps.Savings*SavingsComponentWeight +
				comps.Category*CategoryComponentWeight +
				comps.Nutrition*NutritionComponentWeight),
			SustainabilityImprovement: round2(improvement),
			Savings:                   p.Price - cand.Price,
			SavingsPercent:            round2(pct),
			CarbonReductionKg:         round3(original.CarbonFootprintKg - score.CarbonFootprintKg),
			Components:                comps,
			Reasons:                   s.reasons(p, cand, improvement, pct, c.Locale),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Candidate.Price != b.Candidate.Price {
			return a.Candidate.Price < b.Candidate.Price
		}
		return a.Candidate.ID < b.Candidate.ID
	})
	return results, nil
}

// FindBatch keeps the best substitute of every product, ordered by
// improvement plus ten times the savings in major units. maxSubstitutions
// truncates the list when positive.
func (s *SubstitutionEngineService) FindBatch(products, pool []model.Product, c model.SubstitutionCriteria, maxSubstitutions int) (model.BatchSubstitution, error) {
	if maxSubstitutions < 0 {
		return model.BatchSubstitution{}, model.NewValidationError("max_substitutions", "must not be negative")
	}

	best := make([]model.SubstitutionResult, 0, len(products))
	for _, p := range products {
		subs, err := s.FindSubstitutes(p, pool, c)
		if err != nil {
			return model.BatchSubstitution{}, err
		}
		if len(subs) > 0 {
			best = append(best, subs[0])
		}
	}

	sort.SliceStable(best, func(i, j int) bool {
		ki, kj := batchKey(best[i]), batchKey(best[j])
		if ki != kj {
			return ki > kj
		}
		return best[i].Original.ID < best[j].Original.ID
	})
	if maxSubstitutions > 0 && len(best) > maxSubstitutions {
		best = best[:maxSubstitutions]
	}

	out := model.BatchSubstitution{Substitutions: best}
	var improvement, carbon float64
	for _, r := range best {
		out.TotalSavings += r.Savings
		carbon += r.CarbonReductionKg
		improvement += r.SustainabilityImprovement
	}
	out.TotalCarbonReductionKg = round3(carbon)
	if len(best) > 0 {
		out.AverageImprovement = round2(improvement / float64(len(best)))
	}
	return out, nil
}

// SavingsReport groups a batch result by original category and lists the
// largest savings first.
func SavingsReport(batch model.BatchSubstitution) model.SavingsReport {
	report := model.SavingsReport{
		TotalSubstitutions:     len(batch.Substitutions),
		TotalSavings:           batch.TotalSavings,
		TotalCarbonReductionKg: batch.TotalCarbonReductionKg,
		AverageImprovement:     batch.AverageImprovement,
		ByCategory:             make(map[model.Category]model.CategorySavings),
	}

	sums := make(map[model.Category]float64)
	for _, r := range batch.Substitutions {
		cat := r.Original.Category
		agg := report.ByCategory[cat]
		agg.Count++
		agg.Savings += r.Savings
		agg.CarbonReductionKg = round3(agg.CarbonReductionKg + r.CarbonReductionKg)
		sums[cat] += r.SustainabilityImprovement
		report.ByCategory[cat] = agg
	}
	for cat, agg := range report.ByCategory {
		agg.AverageImprovement = round2(sums[cat] / float64(agg.Count))
		report.ByCategory[cat] = agg
	}

	top := append([]model.SubstitutionResult(nil), batch.Substitutions...)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Savings != top[j].Savings {
			return top[i].Savings > top[j].Savings
		}
		return top[i].Original.ID < top[j].Original.ID
	})
	if len(top) > topSavingsLimit {
		top = top[:topSavingsLimit]
	}
	report.TopSavings = top
	return report
}

func batchKey(r model.SubstitutionResult) float64 {
	return r.SustainabilityImprovement + float64(r.Savings)/model.MinorUnitsPerMajor*batchSavingsWeight
}

func (s *SubstitutionEngineService) categorySimilarity(a, b model.Category) float64 {
	switch {
	case a == b:
		return sameCategoryScore
	case s.tables.Related(a, b):
		return relatedCategoryScore
	default:
		return otherCategoryScore
	}
}

// nutritionSimilarity averages per-nutrient closeness over the fields both
// products report. Two zero values count as identical.
func nutritionSimilarity(a, b *model.NutritionalInfo) float64 {
	if a == nil || b == nil {
		return 0
	}
	pairs := [][2]*float64{
		{a.Energy, b.Energy},
		{a.Protein, b.Protein},
		{a.Carbohydrates, b.Carbohydrates},
		{a.Fat, b.Fat},
	}

	var sum float64
	var n int
	for _, pair := range pairs {
		if pair[0] == nil || pair[1] == nil {
			continue
		}
		v1, v2 := *pair[0], *pair[1]
		if m := math.Max(v1, v2); m > 0 {
			sum += (1 - math.Abs(v1-v2)/m) * 100
		} else {
			sum += 100
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return clampScore(sum / float64(n))
}

func (s *SubstitutionEngineService) reasons(orig, cand model.Product, improvement, pct float64, locale string) []string {
	t := s.translator
	var out []string

	switch {
	case improvement > significantImprovement:
		out = append(out, t.Translatef(i18n.ReasonSignificantImprovement, locale, improvement))
	case improvement > noticeableImprovement:
		out = append(out, t.Translatef(i18n.ReasonHigherSustainability, locale, improvement))
	}

	switch {
	case pct > considerableSavingsPct:
		out = append(out, t.Translatef(i18n.ReasonConsiderableSavings, locale, pct))
	case pct > savingsPct:
		out = append(out, t.Translatef(i18n.ReasonSavings, locale, pct))
	case pct < investmentPct:
		out = append(out, t.Translatef(i18n.ReasonInvestment, locale, -pct))
	}

	if cand.HasLabel(model.LabelOrganic) && !orig.HasLabel(model.LabelOrganic) {
		out = append(out, t.Translate(i18n.ReasonOrganic, locale))
	}
	if cand.HasLabel(model.LabelFairTrade) && !orig.HasLabel(model.LabelFairTrade) {
		out = append(out, t.Translate(i18n.ReasonFairTrade, locale))
	}
	if isLocal(cand, s.tables.OriginOf(cand)) && !isLocal(orig, s.tables.OriginOf(orig)) {
		out = append(out, t.Translate(i18n.ReasonLocal, locale))
	}

	if len(out) == 0 {
		out = append(out, t.Translate(i18n.ReasonDefault, locale))
	}
	return out
}

func validateCriteria(c model.SubstitutionCriteria) error {
	switch {
	case math.IsNaN(c.MaxPriceIncreasePct) || math.IsInf(c.MaxPriceIncreasePct, 0) || c.MaxPriceIncreasePct < -1:
		return model.NewValidationError("max_price_increase_pct", "must be a finite fraction not below -1")
	case math.IsNaN(c.MinImprovement) || math.IsInf(c.MinImprovement, 0):
		return model.NewValidationError("min_improvement", "must be finite")
	}
	for cat, avg := range c.CategoryAverages {
		if avg < 0 {
			return model.NewValidationError("category_averages."+string(cat), "must not be negative")
		}
	}
	return nil
}
