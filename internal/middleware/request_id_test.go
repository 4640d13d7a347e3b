package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	isUUID := func(t *testing.T, id string) {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}

	tests := []struct {
		name        string
		headerValue string
		validate    func(*testing.T, string)
	}{
		{
			name:     "generates id when header missing",
			validate: isUUID,
		},
		{
			name:        "reuses client id",
			headerValue: "basket-req-42",
			validate: func(t *testing.T, id string) {
				assert.Equal(t, "basket-req-42", id)
			},
		},
		{
			name:        "replaces id with spaces",
			headerValue: "two words",
			validate:    isUUID,
		},
		{
			name:        "replaces oversized id",
			headerValue: strings.Repeat("a", maxRequestIDLength+1),
			validate:    isUUID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				seen = GetRequestID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.headerValue != "" {
				req.Header.Set(RequestIDHeader, tt.headerValue)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			tt.validate(t, seen)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestGetRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty without middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Empty(t, GetRequestID(c))
	})

	t.Run("empty when value has wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(string(RequestIDKey), 42)
		assert.Empty(t, GetRequestID(c))
	})
}
