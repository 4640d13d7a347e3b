//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTranslator_IsShared(t *testing.T) {
	assert.Same(t, GetTranslator(), GetTranslator())
}

func TestTranslator_Translate(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		expected string
	}{
		{name: "english error", key: ErrKeyInvalidRequest, locale: "en", expected: "Invalid request"},
		{name: "portuguese error", key: ErrKeyInvalidRequest, locale: "pt", expected: "Requisição inválida"},
		{name: "spanish error", key: ErrKeyInvalidRequest, locale: "es", expected: "Solicitud inválida"},
		{name: "english substitution reason", key: ReasonOrganic, locale: "en", expected: "Certified organic product"},
		{name: "spanish substitution reason", key: ReasonOrganic, locale: "es", expected: "Producto orgánico certificado"},
		{name: "portuguese substitution reason", key: ReasonOrganic, locale: "pt", expected: "Produto orgânico certificado"},
		{name: "empty locale falls back to english", key: ErrKeyInvalidRequest, locale: "", expected: "Invalid request"},
		{name: "unsupported locale falls back to english", key: ReasonOrganic, locale: "fr", expected: "Certified organic product"},
		{name: "unknown key is returned as is", key: "unknown.key", locale: "en", expected: "unknown.key"},
		{name: "unknown key in unsupported locale", key: "unknown.key", locale: "fr", expected: "unknown.key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translator.Translate(tt.key, tt.locale))
		})
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: DefaultLocale},
		{header: "pt", want: "pt"},
		{header: "es-CL,es;q=0.9", want: "es"},
		{header: "pt-BR, en;q=0.5", want: "pt"},
		{header: "en-US,en;q=0.9,pt;q=0.8", want: "en"},
		{header: "EN", want: "en"},
		{header: "fr-FR", want: DefaultLocale},
		{header: "*", want: DefaultLocale},
	}

	for _, tt := range tests {
		t.Run("header "+tt.header, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/substitutes", nil)
			if tt.header != "" {
				c.Request.Header.Set(AcceptLanguageHeader, tt.header)
			}

			assert.Equal(t, tt.want, GetLocale(c))
		})
	}
}

func TestTranslator_Translatef(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		args     []interface{}
		expected string
	}{
		{
			name:     "formats improvement points",
			key:      ReasonSignificantImprovement,
			locale:   "en",
			args:     []interface{}{25.3},
			expected: "Significant sustainability improvement (+25.3 points)",
		},
		{
			name:     "formats percent in spanish",
			key:      ReasonConsiderableSavings,
			locale:   "es",
			args:     []interface{}{30.0},
			expected: "Ahorro considerable (30.0% más barato)",
		},
		{
			name:     "formats product name",
			key:      RecommendationBetter,
			locale:   "pt",
			args:     []interface{}{"Leite"},
			expected: "Leite é mais sustentável",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translator.Translatef(tt.key, tt.locale, tt.args...))
		})
	}
}

func TestMessageSetsAreComplete(t *testing.T) {
	for key := range defaultMessages[DefaultLocale] {
		for locale, msgs := range defaultMessages {
			_, ok := msgs[key]
			assert.True(t, ok, "locale %s is missing %s", locale, key)
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	assert.Equal(t, "es", NormalizeLocale(" ES-cl;q=0.8"))
	assert.Equal(t, DefaultLocale, NormalizeLocale("de"))
	assert.Equal(t, DefaultLocale, NormalizeLocale(""))
}
