package http

import (
	"errors"
	"net/http"

	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body returned on any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse wraps acknowledgements that carry no entity body
type SuccessResponse struct {
	Message string `json:"message"`
}

// respondError maps usecase errors to HTTP status codes
func respondError(c *gin.Context, log logger.Logger, err error) {
	var status int

	switch {
	case errors.Is(err, usecase.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, usecase.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrDuplicateBooking),
		errors.Is(err, usecase.ErrPromoOverlap),
		errors.Is(err, usecase.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrRateLimited):
		status = http.StatusTooManyRequests
	default:
		log.Error("Unhandled error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(status, ErrorResponse{Error: err.Error()})
}
