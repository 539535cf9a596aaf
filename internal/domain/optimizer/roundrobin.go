package optimizer

import (
	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// RoundRobin is the greedy baseline: it makes full passes over items in
// order, adding one unit of each item that still fits, until a pass adds
// nothing. It is deterministic but not optimal.
func RoundRobin(budget money.Amount, items []Item) (*Result, error) {
	if err := validate(budget, items); err != nil {
		return nil, err
	}
	allocs, spent := roundRobin(budget, own(items))
	return &Result{
		Algorithm:   AlgorithmRoundRobin,
		Status:      StatusBaseline,
		Budget:      budget,
		TotalSpend:  spent,
		Allocations: allocs,
	}, nil
}

// roundRobin expects validated, positively priced items.
//
// Passes in which every still-affordable item fits are identical, so they
// are applied in one step. An item that does not fit never fits again, and
// every pass that cannot be batched leaves at least one more item
// unaffordable, so at most len(items) passes are simulated unit by unit.
func roundRobin(budget money.Amount, items []*Item) ([]Allocation, money.Amount) {
	allocs := zeroAllocations(items)
	var spent money.Amount

	for {
		remaining := budget - spent

		// passCost stays <= remaining while full is true, so it cannot overflow
		var passCost money.Amount
		affordable, full := false, true
		for _, item := range items {
			if item.UnitPrice > remaining {
				continue
			}
			affordable = true
			if full && item.UnitPrice > remaining-passCost {
				full = false
			}
			if full {
				passCost += item.UnitPrice
			}
		}
		if !affordable {
			break
		}

		if full {
			passes := remaining / passCost
			for i, item := range items {
				if item.UnitPrice <= remaining {
					allocs[i].Count += int(passes)
				}
			}
			spent += passes * passCost
			continue
		}

		for i, item := range items {
			if item.UnitPrice <= budget-spent {
				allocs[i].Count++
				spent += item.UnitPrice
			}
		}
	}

	return allocs, spent
}
