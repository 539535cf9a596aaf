package dto

import (
	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
)

// ItemRequest is one purchasable item. Prices may be JSON numbers or
// decimal strings ("29.90").
type ItemRequest struct {
	Name      string       `json:"name" binding:"required"`
	Price     money.Amount `json:"price"`
	CatalogID string       `json:"catalog_id,omitempty"`
}

// PlanRequest is the body of POST /api/plans.
type PlanRequest struct {
	Budget    money.Amount  `json:"budget"`
	Algorithm string        `json:"algorithm"` // empty selects the server default
	Items     []ItemRequest `json:"items" binding:"dive"`
	Save      *bool         `json:"save,omitempty"` // defaults to true
}

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	Budget money.Amount  `json:"budget"`
	Items  []ItemRequest `json:"items" binding:"dive"`
}

// ToItems converts request items into optimizer input, keeping order.
func ToItems(items []ItemRequest) []optimizer.Item {
	out := make([]optimizer.Item, len(items))
	for i, it := range items {
		out[i] = optimizer.Item{
			Name:      it.Name,
			UnitPrice: it.Price,
			CatalogID: it.CatalogID,
		}
	}
	return out
}
