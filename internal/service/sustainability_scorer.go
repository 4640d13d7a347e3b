package service

import (
	"encoding/hex"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/service/cache"
)

// Axis weights of the overall score. They sum to 1.
const (
	EconomicWeight      = 0.33
	EnvironmentalWeight = 0.34
	SocialWeight        = 0.33
)

const (
	baseAxisScore = 50.0

	organicFootprintFactor = 0.9
	localFootprintFactor   = 0.7
	transportKgPerTonneKm  = 0.1

	kmDrivenPerKgCO2  = 4.5
	kgCO2PerTree      = 21.0
	kgCO2PerEnergyDay = 6.0

	significantDiff = 20.0
	noticeableDiff  = 10.0

	maxBulkBonus      = 10.0
	bulkBonusPerUnit  = 2.0
	proteinThresholdG = 10.0
	fiberThresholdG   = 5.0
	nutritionBonus    = 10.0
	singleUsePenalty  = 15.0
)

// Comparison recommendations returned by Compare.
const (
	RecommendationSignificantlyBetter = "significantly_more_sustainable"
	RecommendationBetter              = "more_sustainable"
	RecommendationSimilar             = "similar"
)

// Scorer defines the interface for product sustainability scoring.
type Scorer interface {
	Score(p model.Product, categoryAverage int64, opts ...ScoreOption) (model.SustainabilityScore, error)
	Compare(a model.Product, averageA int64, b model.Product, averageB int64) (model.ProductComparison, error)
	Tables() ScoringTables
}

// ScorerOption configures a ScorerService.
type ScorerOption func(*ScorerService)

// ScoreOption adjusts a single Score call.
type ScoreOption func(*scoreParams)

type scoreParams struct {
	quantity float64
}

// WithPurchasedQuantity sets how many units are bought, which drives the bulk bonus.
func WithPurchasedQuantity(q float64) ScoreOption {
	return func(p *scoreParams) {
		p.quantity = q
	}
}

// ScorerService turns products into three-axis sustainability scores.
// It holds no mutable state apart from the optional cache.
type ScorerService struct {
	tables    ScoringTables
	tablesKey string
	cache     cache.Cache
}

// NewScorerService creates a scorer with the default tables.
func NewScorerService(opts ...ScorerOption) *ScorerService {
	s := &ScorerService{tables: DefaultScoringTables()}
	for _, opt := range opts {
		opt(s)
	}
	s.tablesKey = s.tables.fingerprint()
	return s
}

// WithScoringTables replaces the built-in lookup tables.
func WithScoringTables(t ScoringTables) ScorerOption {
	return func(s *ScorerService) {
		s.tables = t.clone()
	}
}

// WithScoreCache enables result caching.
func WithScoreCache(c cache.Cache) ScorerOption {
	return func(s *ScorerService) {
		s.cache = c
	}
}

// Tables returns a copy of the lookup tables in use.
func (s *ScorerService) Tables() ScoringTables {
	return s.tables.clone()
}

// Score computes the sustainability score of p. categoryAverage is the mean
// category price in minor units. A zero average or a zero price disables the
// price-ratio adjustment.
func (s *ScorerService) Score(p model.Product, categoryAverage int64, opts ...ScoreOption) (model.SustainabilityScore, error) {
	params := scoreParams{quantity: 1}
	for _, opt := range opts {
		opt(&params)
	}

	if err := validateScoreInput(p, categoryAverage, params.quantity); err != nil {
		return model.SustainabilityScore{}, err
	}

	var key string
	if s.cache != nil {
		key = scoreCacheKey(s.tablesKey, p, categoryAverage, params.quantity)
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	origin := s.tables.OriginOf(p)
	economic := clampScore(s.economicScore(p, categoryAverage, params.quantity))
	environmental, footprint := s.environmentalScore(p, origin)
	environmental = clampScore(environmental)
	social := clampScore(s.socialScore(p, origin))

	footprint = round3(footprint)
	result := model.SustainabilityScore{
		Economic:          round2(economic),
		Environmental:     round2(environmental),
		Social:            round2(social),
		Overall:           round2(economic*EconomicWeight + environmental*EnvironmentalWeight + social*SocialWeight),
		CarbonFootprintKg: footprint,
		Equivalences:      Equivalences(footprint),
	}

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// Compare scores both products and recommends the more sustainable one.
// Differences are b minus a.
func (s *ScorerService) Compare(a model.Product, averageA int64, b model.Product, averageB int64) (model.ProductComparison, error) {
	first, err := s.Score(a, averageA)
	if err != nil {
		return model.ProductComparison{}, err
	}
	second, err := s.Score(b, averageB)
	if err != nil {
		return model.ProductComparison{}, err
	}

	diff := model.ScoreDifference{
		Economic:      round2(second.Economic - first.Economic),
		Environmental: round2(second.Environmental - first.Environmental),
		Social:        round2(second.Social - first.Social),
		Overall:       round2(second.Overall - first.Overall),
	}

	cmp := model.ProductComparison{
		First:          first,
		Second:         second,
		Difference:     diff,
		Recommendation: RecommendationSimilar,
	}

	abs := math.Abs(diff.Overall)
	switch {
	case abs > significantDiff:
		cmp.Recommendation = RecommendationSignificantlyBetter
	case abs > noticeableDiff:
		cmp.Recommendation = RecommendationBetter
	}
	if cmp.Recommendation != RecommendationSimilar {
		cmp.Better = a.ID
		if diff.Overall > 0 {
			cmp.Better = b.ID
		}
	}
	return cmp, nil
}

func (s *ScorerService) economicScore(p model.Product, categoryAverage int64, quantity float64) float64 {
	score := baseAxisScore

	if p.Price > 0 && categoryAverage > 0 {
		ratio := float64(p.Price) / float64(categoryAverage)
		switch {
		case ratio < 0.8:
			score += 30
		case ratio < 1.0:
			score += 20
		case ratio < 1.2:
			score += 10
		case ratio < 1.5:
			score -= 10
		default:
			score -= 20
		}
	}

	if n := p.Nutrition; n != nil {
		if (n.Protein != nil && *n.Protein > proteinThresholdG) || (n.Fiber != nil && *n.Fiber > fiberThresholdG) {
			score += nutritionBonus
		}
	}

	if quantity > 1 {
		score += math.Min(maxBulkBonus, quantity*bulkBonusPerUnit)
	}
	return score
}

// environmentalScore returns the axis score and the adjusted footprint in kg CO2.
func (s *ScorerService) environmentalScore(p model.Product, origin model.Origin) (float64, float64) {
	score := baseAxisScore
	weight := p.WeightKg()

	footprint := s.tables.EmissionFactor(p.Category)*weight +
		(s.tables.TransportDistance(origin)/1000)*transportKgPerTonneKm*weight

	if p.HasLabel(model.LabelOrganic) {
		footprint *= organicFootprintFactor
		score += 15
	}
	if p.HasLabel(model.LabelEcoFriendly) {
		score += 10
	}
	if isLocal(p, origin) {
		footprint *= localFootprintFactor
		score += 20
	}

	switch {
	case footprint < 1:
		score += 30
	case footprint < 3:
		score += 15
	case footprint < 5:
		score += 5
	case footprint < 10:
		score -= 10
	default:
		score -= 25
	}

	if p.HasLabel(model.LabelSingleUse) {
		score -= singleUsePenalty
	}
	return score, footprint
}

func (s *ScorerService) socialScore(p model.Product, origin model.Origin) float64 {
	score := baseAxisScore

	if p.HasLabel(model.LabelFairTrade) {
		score += 25
	}
	if p.HasLabel(model.LabelBCorp) {
		score += 20
	}
	if isLocal(p, origin) {
		score += 20
	}
	if origin == model.OriginRegional {
		score += 10
	}
	if p.HasLabel(model.LabelSmallProducer) {
		score += 15
	}
	if p.HasLabel(model.LabelCooperative) {
		score += 15
	}
	return score
}

// Equivalences expresses a footprint as driving distance, trees and energy days.
func Equivalences(carbonKg float64) model.ImpactEquivalences {
	return model.ImpactEquivalences{
		KmDriven:     round2(carbonKg * kmDrivenPerKgCO2),
		TreesNeeded:  round2(carbonKg / kgCO2PerTree),
		DaysOfEnergy: round2(carbonKg / kgCO2PerEnergyDay),
	}
}

func isLocal(p model.Product, origin model.Origin) bool {
	return origin == model.OriginLocal || p.HasLabel(model.LabelLocalProducer)
}

func validateScoreInput(p model.Product, categoryAverage int64, quantity float64) error {
	switch {
	case p.Price < 0:
		return model.NewValidationError("price", "must not be negative")
	case p.NetQuantity < 0 || math.IsNaN(p.NetQuantity) || math.IsInf(p.NetQuantity, 0):
		return model.NewValidationError("net_quantity", "must be a finite non-negative number")
	case categoryAverage < 0:
		return model.NewValidationError("category_average", "must not be negative")
	case quantity < 0 || math.IsNaN(quantity):
		return model.NewValidationError("quantity", "must not be negative")
	}
	return nil
}

// scoreCacheKey fingerprints every field that influences a score. tablesKey
// separates scorers with different tables sharing one cache.
func scoreCacheKey(tablesKey string, p model.Product, categoryAverage int64, quantity float64) string {
	labels := make([]string, len(p.Labels))
	for i, l := range p.Labels {
		labels[i] = strings.ToLower(l)
	}
	sort.Strings(labels)

	var b strings.Builder
	b.WriteString(tablesKey)
	b.WriteByte('|')
	b.WriteString(string(p.Category))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(p.Price, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(categoryAverage, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(p.NetQuantity, 'g', -1, 64))
	b.WriteString(strings.ToLower(p.Unit))
	b.WriteByte('|')
	b.WriteString(string(p.Origin))
	b.WriteString(strings.ToLower(p.OriginCountry))
	b.WriteByte('|')
	b.WriteString(strings.Join(labels, ","))
	b.WriteByte('|')
	if n := p.Nutrition; n != nil {
		if n.Protein != nil {
			b.WriteString(strconv.FormatFloat(*n.Protein, 'g', -1, 64))
		}
		b.WriteByte('/')
		if n.Fiber != nil {
			b.WriteString(strconv.FormatFloat(*n.Fiber, 'g', -1, 64))
		}
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(quantity, 'g', -1, 64))

	h := fnv.New64a()
	_, _ = h.Write([]byte(b.String()))
	return hex.EncodeToString(h.Sum(nil))
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
