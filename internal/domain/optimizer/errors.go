package optimizer

import (
	"errors"
	"fmt"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

var (
	// ErrInvalidBudget is returned for negative budgets.
	ErrInvalidBudget = errors.New("invalid budget")
	// ErrInvalidItem is returned for items with a zero or negative price.
	ErrInvalidItem = errors.New("invalid item")
	// ErrCapacityExceeded is returned when the DP table would exceed the configured ceiling.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrNegativeCount is returned by Merge when a count would drop below zero.
	ErrNegativeCount = errors.New("negative count")
)

func validate(budget money.Amount, items []Item) error {
	if budget < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidBudget, budget)
	}
	for i, item := range items {
		if item.UnitPrice <= 0 {
			return fmt.Errorf("%w: item %d (%q) has price %s", ErrInvalidItem, i, item.Name, item.UnitPrice)
		}
	}
	return nil
}
