package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/internal/circuitbreaker"
	"github.com/guttosm/basket-service/internal/domain/dto"
	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/i18n"
	"github.com/guttosm/basket-service/internal/middleware"
	"github.com/guttosm/basket-service/internal/repository"
	"github.com/guttosm/basket-service/internal/service"
)

// Response DTO pools for reducing allocations.
var (
	successResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.SuccessResponse{}
		},
	}

	errorResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.ErrorResponse{}
		},
	}
)

func getSuccessResponse() *dto.SuccessResponse {
	if resp, ok := successResponsePool.Get().(*dto.SuccessResponse); ok {
		return resp
	}
	return &dto.SuccessResponse{}
}

func putSuccessResponse(resp *dto.SuccessResponse) {
	resp.Data = nil
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	successResponsePool.Put(resp)
}

func getErrorResponse() *dto.ErrorResponse {
	if resp, ok := errorResponsePool.Get().(*dto.ErrorResponse); ok {
		return resp
	}
	return &dto.ErrorResponse{}
}

func putErrorResponse(resp *dto.ErrorResponse) {
	resp.Error = ""
	resp.Message = ""
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	resp.Details = nil
	resp.TraceID = ""
	errorResponsePool.Put(resp)
}

// Validator is implemented by request bodies that check themselves.
type Validator interface {
	Validate() error
}

// BindAndValidate decodes the JSON body into T and validates it when T
// implements Validator. Decode failures are reported as invalid input.
func BindAndValidate[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errBadBody{err}
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// errBadBody marks a body that could not be decoded.
type errBadBody struct{ err error }

func (e errBadBody) Error() string { return e.err.Error() }
func (e errBadBody) Unwrap() error { return e.err }

// ResponseBuilder writes the success and error envelopes.
// Uses sync.Pool for DTO reuse to reduce allocations.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := getSuccessResponse()
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()

	// gin serializes synchronously, so the response can go back to the pool.
	b.c.JSON(statusCode, resp)
	putSuccessResponse(resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error sends an error response with a translated message.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.write(statusCode, i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c)), nil, err)
}

// FromError maps err onto a status code and writes the error envelope.
// Validation errors carry the rejected field in Details.
func (b *ResponseBuilder) FromError(err error) {
	status, key := statusFor(err)
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(b.c))

	var details map[string]string
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		details = map[string]string{verr.Field: verr.Message}
	case status == http.StatusBadRequest:
		details = map[string]string{"body": err.Error()}
	}
	b.write(status, message, details, err)
}

func (b *ResponseBuilder) write(statusCode int, message string, details map[string]string, err error) {
	resp := getErrorResponse()
	resp.Error = dto.ErrCodeFromStatus(statusCode)
	resp.Message = message
	resp.Details = details
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()

	// The error handler middleware logs what is attached here.
	if err != nil {
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, resp)
	putErrorResponse(resp)
}

func statusFor(err error) (int, string) {
	var bad errBadBody
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, i18n.ErrKeyInvalidInput
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, i18n.ErrKeyNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, i18n.ErrKeyConflict
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, service.ErrRepositoryNotConfigured):
		return http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}
