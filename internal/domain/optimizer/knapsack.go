package optimizer

import (
	"fmt"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// slot is one unit-purchase opportunity at a bucket's price.
type slot struct {
	bucket int32
	value  int64
}

// Knapsack finds the largest spend not exceeding budget.
//
// Items are bucketed by price and every price p contributes floor(budget/p)
// slots. The slots form a 0/1 subset-sum problem solved over integer sums
// from 0 to budget. Among equal spends the subset using more slots wins.
// Selected slots are split fairly across the items of each bucket.
//
// maxCells bounds (budget units + 1) * slots; larger problems fail with
// ErrCapacityExceeded before any table is allocated. maxCells <= 0 disables
// the check.
func Knapsack(budget money.Amount, items []Item, maxCells int64) (*Result, error) {
	if err := validate(budget, items); err != nil {
		return nil, err
	}
	allocs, spent, err := knapsack(budget, own(items), maxCells)
	if err != nil {
		return nil, err
	}
	return &Result{
		Algorithm:   AlgorithmKnapsack,
		Status:      StatusOptimal,
		Budget:      budget,
		TotalSpend:  spent,
		Allocations: allocs,
	}, nil
}

func knapsack(budget money.Amount, items []*Item, maxCells int64) ([]Allocation, money.Amount, error) {
	allocs := zeroAllocations(items)
	buckets := BucketByPrice(items)
	if len(buckets) == 0 || budget == 0 {
		return allocs, 0, nil
	}

	// Every reachable sum is a multiple of the prices' gcd, so the table is
	// indexed in gcd units.
	unit := int64(buckets[0].Price)
	for _, b := range buckets[1:] {
		unit = gcd(unit, int64(b.Price))
	}
	capacity := int64(budget) / unit

	var slotCount int64
	for _, b := range buckets {
		slotCount += int64(budget) / int64(b.Price)
	}
	if slotCount == 0 {
		return allocs, 0, nil
	}
	if maxCells > 0 && capacity+1 > maxCells/slotCount {
		return nil, 0, fmt.Errorf("%w: %d budget units x %d slots exceeds %d cells",
			ErrCapacityExceeded, capacity+1, slotCount, maxCells)
	}

	slots := make([]slot, 0, slotCount)
	for bi, b := range buckets {
		n := int64(budget) / int64(b.Price)
		for k := int64(0); k < n; k++ {
			slots = append(slots, slot{bucket: int32(bi), value: int64(b.Price) / unit})
		}
	}

	// reach[s]: some subset sums to s. used[s]: most slots in such a subset.
	// from[s]: bucket of the last slot added on the way to s.
	reach := make([]bool, capacity+1)
	used := make([]int32, capacity+1)
	from := make([]int32, capacity+1)
	reach[0] = true

	for _, sl := range slots {
		for sum := capacity; sum >= sl.value; sum-- {
			prev := sum - sl.value
			if !reach[prev] {
				continue
			}
			if !reach[sum] || used[prev]+1 > used[sum] {
				reach[sum] = true
				used[sum] = used[prev] + 1
				from[sum] = sl.bucket
			}
		}
	}

	best := capacity
	for !reach[best] {
		best--
	}

	// A chain of prices summing to at most budget never needs more than
	// floor(budget/p) units of price p, so walking from[] back is always a
	// valid slot subset.
	perBucket := make([]int, len(buckets))
	for sum := best; sum > 0; {
		bi := from[sum]
		perBucket[bi]++
		sum -= int64(buckets[bi].Price) / unit
	}

	for bi, b := range buckets {
		if perBucket[bi] == 0 {
			continue
		}
		merged, err := Merge(allocs, b.Split(perBucket[bi]))
		if err != nil {
			return nil, 0, err
		}
		allocs = merged
	}

	return allocs, money.Amount(best * unit), nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
