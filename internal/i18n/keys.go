package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInvalidInput indicates values the engines refuse to compute on.
	ErrKeyInvalidInput = "error.invalid_input"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyServiceUnavailable indicates the catalog cannot be reached.
	ErrKeyServiceUnavailable = "error.service_unavailable"
)

// Substitution reason keys. Formatted ones take a single number.
const (
	ReasonSignificantImprovement = "reason.significant_improvement"
	ReasonHigherSustainability   = "reason.higher_sustainability"
	ReasonConsiderableSavings    = "reason.considerable_savings"
	ReasonSavings                = "reason.savings"
	ReasonInvestment             = "reason.investment"
	ReasonOrganic                = "reason.organic"
	ReasonFairTrade              = "reason.fair_trade"
	ReasonLocal                  = "reason.local"
	ReasonDefault                = "reason.default"
)

// Comparison recommendation keys, formatted with the better product name.
const (
	RecommendationSignificantlyBetter = "recommendation.significantly_more_sustainable"
	RecommendationBetter              = "recommendation.more_sustainable"
	RecommendationSimilar             = "recommendation.similar"
)

// Basket analysis recommendation keys.
const (
	AnalysisHighCarbon        = "analysis.high_carbon"
	AnalysisLowSustainability = "analysis.low_sustainability"
	AnalysisMeatShare         = "analysis.meat_share"
	AnalysisGoodChoices       = "analysis.good_choices"
)
