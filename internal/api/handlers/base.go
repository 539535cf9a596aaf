package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/beerbudget/internal/api/dto"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// Base provides shared functionality for all handlers.
type Base struct {
	svc *planner.Service
}

// NewBase creates a new base handler with the given planner.
func NewBase(svc *planner.Service) *Base {
	return &Base{svc: svc}
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(c *gin.Context, status int, err dto.APIError) {
	c.AbortWithStatusJSON(status, err)
}

// WriteServiceError maps planner, optimizer and storage errors onto API errors.
func (b *Base) WriteServiceError(c *gin.Context, err error) {
	status, apiErr := ErrorResponse(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	b.WriteError(c, status, apiErr)
}

// ErrorResponse returns the status code and body for err.
func ErrorResponse(err error) (int, dto.APIError) {
	switch {
	case errors.Is(err, optimizer.ErrInvalidBudget), errors.Is(err, optimizer.ErrInvalidItem):
		return http.StatusBadRequest, dto.ValidationError(err.Error())
	case errors.Is(err, optimizer.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, dto.CapacityExceededError(err.Error())
	case errors.Is(err, storage.ErrPlanNotFound):
		return http.StatusNotFound, dto.NotFoundError("plan")
	case errors.Is(err, planner.ErrNoStorage):
		return http.StatusServiceUnavailable, dto.UnavailableError(err.Error())
	default:
		return http.StatusInternalServerError, dto.InternalError()
	}
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
