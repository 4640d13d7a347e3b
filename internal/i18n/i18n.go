// Package i18n provides translations for API errors, substitution reasons and
// basket recommendations.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the built-in messages.
func NewTranslator() *Translator {
	return &Translator{messages: defaultMessages}
}

// GetTranslator returns the shared translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msgs, ok := t.messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Translatef translates key and formats it with args.
func (t *Translator) Translatef(key, locale string, args ...interface{}) string {
	return fmt.Sprintf(t.Translate(key, locale), args...)
}

// Supported reports whether locale has its own message set.
func Supported(locale string) bool {
	_, ok := defaultMessages[locale]
	return ok
}

// NormalizeLocale reduces a language tag such as "es-CL" to a supported base
// language, or DefaultLocale.
func NormalizeLocale(tag string) string {
	lang := strings.TrimSpace(strings.Split(tag, ";")[0])
	if idx := strings.Index(lang, "-"); idx > 0 {
		lang = lang[:idx]
	}
	lang = strings.ToLower(lang)
	if Supported(lang) {
		return lang
	}
	return DefaultLocale
}

// GetLocale extracts the preferred locale from the Accept-Language header.
func GetLocale(c *gin.Context) string {
	accept := c.GetHeader(AcceptLanguageHeader)
	if accept == "" {
		return DefaultLocale
	}
	return NormalizeLocale(strings.Split(accept, ",")[0])
}

var defaultMessages = map[string]map[string]string{
	"en": {
		"error.invalid_request":      "Invalid request",
		"error.invalid_request_body": "Invalid request body",
		"error.invalid_input":        "The request contains invalid values",
		"error.internal_error":       "An unexpected error occurred",
		"error.not_found":            "Not found",
		"error.rate_limit_exceeded":  "Too many requests, please try again later",
		"error.conflict":             "Conflict",
		"error.timeout":              "Request timeout",
		"error.service_unavailable":  "The catalog is temporarily unavailable",

		"reason.significant_improvement": "Significant sustainability improvement (+%.1f points)",
		"reason.higher_sustainability":   "Higher sustainability score (+%.1f points)",
		"reason.considerable_savings":    "Considerable savings (%.1f%% cheaper)",
		"reason.savings":                 "Saves money (%.1f%% cheaper)",
		"reason.investment":              "Investment in sustainability (%.1f%% more expensive)",
		"reason.organic":                 "Certified organic product",
		"reason.fair_trade":              "Fair trade certified",
		"reason.local":                   "Local product, less transport",
		"reason.default":                 "More sustainable alternative",

		"recommendation.significantly_more_sustainable": "%s is significantly more sustainable",
		"recommendation.more_sustainable":               "%s is more sustainable",
		"recommendation.similar":                        "Both products have similar sustainability",

		"analysis.high_carbon":        "Your basket emits %.1f kg of CO2. Consider swapping high-impact items.",
		"analysis.low_sustainability": "Average sustainability is %.0f. Look for organic, local or fair-trade options.",
		"analysis.meat_share":         "Meat accounts for %.0f%% of your footprint. Try plant-based proteins on some days.",
		"analysis.good_choices":       "Great choices! Your basket is already sustainable.",
	},
	"es": {
		"error.invalid_request":      "Solicitud inválida",
		"error.invalid_request_body": "Cuerpo de la solicitud inválido",
		"error.invalid_input":        "La solicitud contiene valores inválidos",
		"error.internal_error":       "Ocurrió un error inesperado",
		"error.not_found":            "No encontrado",
		"error.rate_limit_exceeded":  "Demasiadas solicitudes, intente más tarde",
		"error.conflict":             "Conflicto",
		"error.timeout":              "Tiempo de espera agotado",
		"error.service_unavailable":  "El catálogo no está disponible temporalmente",

		"reason.significant_improvement": "Mejora significativa en sostenibilidad (+%.1f puntos)",
		"reason.higher_sustainability":   "Mayor puntaje de sostenibilidad (+%.1f puntos)",
		"reason.considerable_savings":    "Ahorro considerable (%.1f%% más barato)",
		"reason.savings":                 "Ahorro de dinero (%.1f%% más barato)",
		"reason.investment":              "Inversión en sostenibilidad (%.1f%% más caro)",
		"reason.organic":                 "Producto orgánico certificado",
		"reason.fair_trade":              "Certificado de comercio justo",
		"reason.local":                   "Producto local, menos transporte",
		"reason.default":                 "Alternativa más sostenible",

		"recommendation.significantly_more_sustainable": "%s es significativamente más sostenible",
		"recommendation.more_sustainable":               "%s es más sostenible",
		"recommendation.similar":                        "Ambos productos tienen una sostenibilidad similar",

		"analysis.high_carbon":        "Tu canasta emite %.1f kg de CO2. Considera reemplazar productos de alto impacto.",
		"analysis.low_sustainability": "La sostenibilidad promedio es %.0f. Busca opciones orgánicas, locales o de comercio justo.",
		"analysis.meat_share":         "La carne representa el %.0f%% de tu huella. Prueba proteínas vegetales algunos días.",
		"analysis.good_choices":       "¡Excelentes elecciones! Tu canasta ya es sostenible.",
	},
	"pt": {
		"error.invalid_request":      "Requisição inválida",
		"error.invalid_request_body": "Corpo da requisição inválido",
		"error.invalid_input":        "A requisição contém valores inválidos",
		"error.internal_error":       "Ocorreu um erro inesperado",
		"error.not_found":            "Não encontrado",
		"error.rate_limit_exceeded":  "Muitas requisições, tente novamente mais tarde",
		"error.conflict":             "Conflito",
		"error.timeout":              "Tempo limite da requisição",
		"error.service_unavailable":  "O catálogo está temporariamente indisponível",

		"reason.significant_improvement": "Melhoria significativa de sustentabilidade (+%.1f pontos)",
		"reason.higher_sustainability":   "Pontuação de sustentabilidade maior (+%.1f pontos)",
		"reason.considerable_savings":    "Economia considerável (%.1f%% mais barato)",
		"reason.savings":                 "Economia de dinheiro (%.1f%% mais barato)",
		"reason.investment":              "Investimento em sustentabilidade (%.1f%% mais caro)",
		"reason.organic":                 "Produto orgânico certificado",
		"reason.fair_trade":              "Certificado de comércio justo",
		"reason.local":                   "Produto local, menos transporte",
		"reason.default":                 "Alternativa mais sustentável",

		"recommendation.significantly_more_sustainable": "%s é significativamente mais sustentável",
		"recommendation.more_sustainable":               "%s é mais sustentável",
		"recommendation.similar":                        "Ambos os produtos têm sustentabilidade semelhante",

		"analysis.high_carbon":        "Sua cesta emite %.1f kg de CO2. Considere trocar itens de alto impacto.",
		"analysis.low_sustainability": "A sustentabilidade média é %.0f. Procure opções orgânicas, locais ou de comércio justo.",
		"analysis.meat_share":         "A carne representa %.0f%% da sua pegada. Experimente proteínas vegetais em alguns dias.",
		"analysis.good_choices":       "Ótimas escolhas! Sua cesta já é sustentável.",
	},
}
