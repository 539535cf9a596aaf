package optimizer

import (
	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// Refine is a best-effort local search toward spending the budget exactly.
//
// It starts from the round-robin baseline. Each round tries, for every
// included line, removing one unit of that item and refilling the freed
// budget round-robin with all other items. The trial leaving the most
// distinct lines wins (ties: smaller spend, then input order) and is merged
// into the running allocation. The search stops on an exact budget match or
// after depth rounds, returning the best spend seen.
func Refine(budget money.Amount, items []Item, depth int) (*Result, error) {
	if err := validate(budget, items); err != nil {
		return nil, err
	}
	allocs, spent, status := refine(budget, own(items), depth)
	return &Result{
		Algorithm:   AlgorithmNaive,
		Status:      status,
		Budget:      budget,
		TotalSpend:  spent,
		Allocations: allocs,
	}, nil
}

// trial is one candidate single-unit swap.
type trial struct {
	delta Delta
	lines int
	spend money.Amount
}

func refine(budget money.Amount, items []*Item, depth int) ([]Allocation, money.Amount, Status) {
	if budget == 0 {
		return zeroAllocations(items), 0, StatusNoBudget
	}

	baseline, spent := roundRobin(budget, items)
	if spent == budget {
		return baseline, spent, StatusOptimal
	}

	best, bestSpend := baseline, spent
	running, runningSpend := baseline, spent

	for round := 0; round < depth; round++ {
		t, ok := bestTrial(budget, items, running, runningSpend)
		if !ok {
			break
		}

		merged, err := t.delta.Apply(running)
		if err != nil {
			// Rejected trial; running allocation stays as it was.
			continue
		}
		running, runningSpend = merged, totalSpend(merged)

		if runningSpend > bestSpend {
			best, bestSpend = running, runningSpend
		}
		if runningSpend == budget {
			return running, runningSpend, StatusOptimal
		}
	}

	return best, bestSpend, StatusBestEffort
}

// bestTrial evaluates every single-unit removal from running in input order.
func bestTrial(budget money.Amount, items []*Item, running []Allocation, runningSpend money.Amount) (trial, bool) {
	var (
		winner trial
		found  bool
	)

	for _, line := range running {
		if line.Count <= 0 {
			continue
		}

		others := make([]*Item, 0, len(items)-1)
		for _, item := range items {
			if item != line.Item {
				others = append(others, item)
			}
		}

		remaining := budget - runningSpend + line.Item.UnitPrice
		refill, refillSpend := roundRobin(remaining, others)

		delta := Delta{
			Additions: nonZero(refill),
			Removals:  []Allocation{{Count: 1, Item: line.Item}},
		}
		result, err := delta.Apply(running)
		if err != nil {
			continue
		}

		t := trial{
			delta: delta,
			lines: lines(result),
			spend: runningSpend - line.Item.UnitPrice + refillSpend,
		}
		if !found || t.lines > winner.lines || (t.lines == winner.lines && t.spend < winner.spend) {
			winner, found = t, true
		}
	}

	return winner, found
}

func nonZero(allocs []Allocation) []Allocation {
	out := make([]Allocation, 0, len(allocs))
	for _, a := range allocs {
		if a.Count != 0 {
			out = append(out, a)
		}
	}
	return out
}
