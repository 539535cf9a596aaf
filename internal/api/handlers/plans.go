package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/beerbudget/internal/api/dto"
	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// PlansHandler handles plan-related HTTP requests.
type PlansHandler struct {
	*Base
	defaultAlgorithm optimizer.Algorithm
}

// NewPlansHandler creates a new plans handler. defaultAlgorithm applies
// when a request names none.
func NewPlansHandler(svc *planner.Service, defaultAlgorithm optimizer.Algorithm) *PlansHandler {
	return &PlansHandler{
		Base:             NewBase(svc),
		defaultAlgorithm: defaultAlgorithm,
	}
}

// Create handles POST /api/plans - solves and stores a plan.
func (h *PlansHandler) Create(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	alg := h.defaultAlgorithm
	if req.Algorithm != "" {
		alg = optimizer.ParseAlgorithm(req.Algorithm)
	}
	save := req.Save == nil || *req.Save

	plan, err := h.svc.Plan(c.Request.Context(), planner.Request{
		Budget:    req.Budget,
		Items:     dto.ToItems(req.Items),
		Algorithm: alg,
		Save:      save,
		Source:    "api",
	})
	if err != nil {
		h.WriteServiceError(c, err)
		return
	}

	status := http.StatusOK
	if plan.Saved {
		status = http.StatusCreated
	}
	c.JSON(status, dto.PlanFromResult(plan))
}

// List handles GET /api/plans - returns stored plans, newest first.
// Query params:
//   - algorithm: filter by algorithm name
//   - limit: max results (default 50)
//   - offset: pagination offset (default 0)
func (h *PlansHandler) List(c *gin.Context) {
	filters := storage.PlanFilters{
		Algorithm: c.Query("algorithm"),
		Limit:     ParseIntParam(c, "limit", storage.DefaultListLimit),
		Offset:    ParseIntParam(c, "offset", 0),
	}
	if filters.Offset < 0 {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError("offset must not be negative"))
		return
	}

	result, err := h.svc.ListPlans(filters)
	if err != nil {
		h.WriteServiceError(c, err)
		return
	}

	plans := make([]dto.PlanResponse, len(result.Plans))
	for i, p := range result.Plans {
		plans[i] = dto.PlanFromRecord(p)
	}

	c.JSON(http.StatusOK, dto.PlanListResponse{
		Plans:      plans,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /api/plans/:id - returns a single stored plan.
func (h *PlansHandler) Get(c *gin.Context) {
	plan, err := h.svc.GetPlan(c.Param("id"))
	if err != nil {
		h.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PlanFromRecord(plan))
}
