package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

// ErrorResponse is a mapped HTTP error.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapServiceError maps the domain error taxonomy to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapServiceError(err error) ErrorResponse {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_INPUT",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrEmptyInput):
		return ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       "EMPTY_INPUT",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrUnsupportedFormat):
		return ErrorResponse{
			StatusCode: http.StatusUnsupportedMediaType,
			Code:       "UNSUPPORTED_FORMAT",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrInference):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INFERENCE_ERROR",
			Message:    err.Error(),
		}
	case errors.Is(err, service.ErrConfiguration):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "CONFIGURATION_ERROR",
			Message:    err.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleServiceError sends the mapped JSON error response for err.
func HandleServiceError(c *gin.Context, err error) {
	errResp := MapServiceError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}
