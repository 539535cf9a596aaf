// Package catalog reads the Systembolaget assortment and turns search
// queries into priced items for the optimizer.
//
// The assortment is a single XML document that is expensive to download,
// so it is kept in a local file and refreshed when older than a TTL:
//
//	cache := catalog.NewCache(cfg.Catalog.CachePath, ttl, catalog.NewHTTPFetcher(url, opts))
//	products, err := cache.Load(ctx)
//	matches, err := catalog.Search(products, []string{"pilsner"})
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
)

// ErrNoMatch is returned when a search query matches no product.
var ErrNoMatch = errors.New("no product matches query")

// Product is one article in the assortment.
type Product struct {
	ID       string          // article number (Nr)
	Name     string          // Namn
	Name2    string          // Namn2, often the brewery or variant
	Price    money.Amount    // Prisinklmoms, VAT included
	VolumeML decimal.Decimal // Volymiml
}

// DisplayName is Name followed by Name2 when Name2 is set.
func (p Product) DisplayName() string {
	if p.Name2 == "" {
		return p.Name
	}
	return p.Name + " " + p.Name2
}

// DisplayPrice implements optimizer.Priced.
func (p Product) DisplayPrice() (money.Amount, bool) {
	return p.Price, true
}

// Item converts the product into an optimizer input.
func (p Product) Item() optimizer.Item {
	return optimizer.Item{
		Name:      p.DisplayName(),
		UnitPrice: p.Price,
		CatalogID: p.ID,
	}
}

// Items converts products in order.
func Items(products []Product) []optimizer.Item {
	items := make([]optimizer.Item, len(products))
	for i, p := range products {
		items[i] = p.Item()
	}
	return items
}
