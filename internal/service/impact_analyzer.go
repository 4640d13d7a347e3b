package service

import (
	"fmt"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/i18n"
)

const (
	highCarbonKg          = 10.0
	lowSustainability     = 60.0
	meatCarbonShareLimit  = 0.30
	percentPerUnitOfShare = 100.0
)

// ImpactAnalyzer summarises the footprint and cost of a whole basket.
type ImpactAnalyzer interface {
	AnalyzeBasket(lines []model.BasketLine, averages map[model.Category]int64, locale string) (model.BasketAnalysis, error)
}

// ImpactAnalyzerService aggregates per-product scores into a basket report.
type ImpactAnalyzerService struct {
	scorer     Scorer
	translator *i18n.Translator
}

// NewImpactAnalyzerService creates an analyzer backed by scorer.
func NewImpactAnalyzerService(scorer Scorer, translator *i18n.Translator) *ImpactAnalyzerService {
	if translator == nil {
		translator = i18n.GetTranslator()
	}
	return &ImpactAnalyzerService{scorer: scorer, translator: translator}
}

// AnalyzeBasket scores every line at its purchased quantity and aggregates
// cost, carbon and quantity-weighted averages. Lines with zero quantity are
// ignored; an empty basket yields a zero analysis without recommendations.
func (a *ImpactAnalyzerService) AnalyzeBasket(lines []model.BasketLine, averages map[model.Category]int64, locale string) (model.BasketAnalysis, error) {
	out := model.BasketAnalysis{
		ByCategory:      make(map[model.Category]model.CategoryImpact),
		Recommendations: []string{},
	}

	var carbon, meatCarbon, overall, economic, environmental, social float64
	for i, line := range lines {
		if line.Quantity < 0 {
			return model.BasketAnalysis{}, model.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "must not be negative")
		}
		if line.Quantity == 0 {
			continue
		}

		p := line.Product
		score, err := a.scorer.Score(p, averages[p.Category], WithPurchasedQuantity(float64(line.Quantity)))
		if err != nil {
			return model.BasketAnalysis{}, fmt.Errorf("lines[%d]: %w", i, err)
		}

		q := float64(line.Quantity)
		lineCarbon := score.CarbonFootprintKg * q
		lineCost := p.Price * int64(line.Quantity)

		out.TotalCost += lineCost
		out.TotalItems += line.Quantity
		carbon += lineCarbon
		if p.Category == model.CategoryMeat {
			meatCarbon += lineCarbon
		}
		overall += score.Overall * q
		economic += score.Economic * q
		environmental += score.Environmental * q
		social += score.Social * q

		impact := out.ByCategory[p.Category]
		impact.Items += line.Quantity
		impact.Cost += lineCost
		impact.CarbonKg = round3(impact.CarbonKg + lineCarbon)
		out.ByCategory[p.Category] = impact
	}

	if out.TotalItems == 0 {
		return out, nil
	}

	n := float64(out.TotalItems)
	out.TotalCarbonKg = round3(carbon)
	out.AverageSustainability = round2(overall / n)
	out.AverageEconomic = round2(economic / n)
	out.AverageEnvironmental = round2(environmental / n)
	out.AverageSocial = round2(social / n)
	out.Equivalences = Equivalences(out.TotalCarbonKg)

	t := a.translator
	if out.TotalCarbonKg > highCarbonKg {
		out.Recommendations = append(out.Recommendations, t.Translatef(i18n.AnalysisHighCarbon, locale, out.TotalCarbonKg))
	}
	if out.AverageSustainability < lowSustainability {
		out.Recommendations = append(out.Recommendations, t.Translatef(i18n.AnalysisLowSustainability, locale, out.AverageSustainability))
	}
	if carbon > 0 && meatCarbon/carbon > meatCarbonShareLimit {
		out.Recommendations = append(out.Recommendations, t.Translatef(i18n.AnalysisMeatShare, locale, meatCarbon/carbon*percentPerUnitOfShare))
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = append(out.Recommendations, t.Translate(i18n.AnalysisGoodChoices, locale))
	}
	return out, nil
}
