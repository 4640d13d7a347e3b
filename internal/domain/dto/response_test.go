package dto

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_Builders(t *testing.T) {
	err := NewError(ErrCodeInvalidRequest, "budget: must not be negative").
		WithRequestID("req-1").
		WithDetails(map[string]string{"budget": "must not be negative"})

	assert.Equal(t, ErrCodeInvalidRequest, err.Error)
	assert.Equal(t, "req-1", err.RequestID)
	assert.Equal(t, "must not be negative", err.Details["budget"])
	assert.WithinDuration(t, time.Now(), err.Timestamp, time.Second)
}

func TestNewSuccess(t *testing.T) {
	resp := NewSuccess(map[string]int{"total_cost": 440}, "req-2")

	assert.Equal(t, "req-2", resp.RequestID)
	assert.Equal(t, map[string]int{"total_cost": 440}, resp.Data)
	assert.Equal(t, time.UTC, resp.Timestamp.Location())
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status       int
		expectedCode string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusBadGateway, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, ErrCodeFromStatus(tt.status))
		})
	}
}
