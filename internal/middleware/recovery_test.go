package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/internal/domain/dto"
	"github.com/guttosm/basket-service/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		language    string
		handler     gin.HandlerFunc
		wantStatus  int
		wantMessage string
		wantPanics  float64
	}{
		{
			name:        "engine panic becomes a 500",
			path:        "/api/optimize",
			handler:     func(*gin.Context) { panic("knapsack table overflow") },
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unexpected error occurred",
			wantPanics:  1,
		},
		{
			name:        "message follows Accept-Language",
			path:        "/api/route",
			language:    "pt-BR",
			handler:     func(*gin.Context) { panic(42) },
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Ocorreu um erro inesperado",
			wantPanics:  1,
		},
		{
			name:       "no panic passes through",
			path:       "/api/score",
			handler:    func(c *gin.Context) { c.Status(http.StatusNoContent) },
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), Recovery())
			router.POST(tt.path, tt.handler)
			counter := metrics.PanicsTotal.WithLabelValues(tt.path)
			before := testutil.ToFloat64(counter)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.language != "" {
				req.Header.Set("Accept-Language", tt.language)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantPanics, testutil.ToFloat64(counter)-before)
			if tt.wantMessage == "" {
				return
			}
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, dto.ErrCodeInternal, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}
