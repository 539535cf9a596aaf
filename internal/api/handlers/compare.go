package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/beerbudget/internal/api/dto"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
)

// CompareHandler runs every algorithm on one input.
type CompareHandler struct {
	*Base
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(svc *planner.Service) *CompareHandler {
	return &CompareHandler{Base: NewBase(svc)}
}

// Compare handles POST /api/compare. Results are never stored.
func (h *CompareHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	comparisons, err := h.svc.Compare(c.Request.Context(), req.Budget, dto.ToItems(req.Items))
	if err != nil {
		h.WriteServiceError(c, err)
		return
	}

	resp := dto.CompareResponse{
		Budget:  req.Budget,
		Results: make([]dto.ComparisonResponse, len(comparisons)),
	}
	for i, cmp := range comparisons {
		r := dto.ComparisonResponse{Algorithm: cmp.Algorithm.String()}
		if cmp.Err != nil {
			_, apiErr := ErrorResponse(cmp.Err)
			r.Error = &apiErr
		} else {
			plan := dto.PlanFromResult(cmp.Plan)
			r.Plan = &plan
		}
		resp.Results[i] = r
	}
	if best, ok := planner.Best(comparisons); ok {
		resp.Best = best.Algorithm.String()
	}

	c.JSON(http.StatusOK, resp)
}
