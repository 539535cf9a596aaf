package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
)

// ErrInvalidBeer is returned for --beer values that lack a name or a price.
var ErrInvalidBeer = errors.New("invalid beer, want NAME... PRICE")

// ParseBeer reads "NAME... PRICE". The last whitespace separated token is
// the price and everything before it is the name.
func ParseBeer(value string) (optimizer.Item, error) {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return optimizer.Item{}, fmt.Errorf("%w: %q", ErrInvalidBeer, value)
	}

	priceText := fields[len(fields)-1]
	price, err := money.Parse(priceText)
	if err != nil {
		return optimizer.Item{}, fmt.Errorf("%w: %q: %v", ErrInvalidBeer, value, err)
	}

	return optimizer.Item{
		Name:      strings.Join(fields[:len(fields)-1], " "),
		UnitPrice: price,
	}, nil
}

// ParseBeers parses every value in order.
func ParseBeers(values []string) ([]optimizer.Item, error) {
	items := make([]optimizer.Item, 0, len(values))
	for _, v := range values {
		item, err := ParseBeer(v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseBudget reads the budget argument. A trailing ":-" or "kr" is accepted.
func ParseBudget(value string) (money.Amount, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, ":-")
	v = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(v), "kr"))
	if v == "" {
		return 0, errors.New("budget is required")
	}
	return money.Parse(v)
}
