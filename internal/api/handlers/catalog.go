package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/api/dto"
)

// CatalogHandler handles catalog search requests.
type CatalogHandler struct {
	products *catalog.Store
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(products *catalog.Store) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// Search handles GET /api/catalog/search?q=... - returns the candidates for
// each query so a client can pick one per query and post them to /api/plans.
func (h *CatalogHandler) Search(c *gin.Context) {
	queries := c.QueryArray("q")
	if len(queries) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestError("at least one q parameter is required"))
		return
	}

	matches, err := h.products.Search(c.Request.Context(), queries)
	if err != nil {
		if errors.Is(err, catalog.ErrNoMatch) {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewAPIError(dto.ErrCodeNotFound, err.Error()))
			return
		}
		var statusErr *catalog.StatusError
		if errors.As(err, &statusErr) {
			c.AbortWithStatusJSON(http.StatusBadGateway, dto.UpstreamError(err.Error()))
			return
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.CatalogSearchFromMatches(matches))
}
