package optimizer

import (
	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// Displayable is anything that can be listed to a user by name.
type Displayable interface {
	DisplayName() string
}

// Priced is a Displayable that may also carry a price.
// ok is false when the price is unknown.
type Priced interface {
	Displayable
	DisplayPrice() (price money.Amount, ok bool)
}

// Describe returns "name price" for priced values and the bare name otherwise.
func Describe(d Displayable) string {
	if p, ok := d.(Priced); ok {
		if price, ok := p.DisplayPrice(); ok {
			return d.DisplayName() + " " + price.String()
		}
	}
	return d.DisplayName()
}

// Item is a purchasable article. Supply is assumed unlimited.
// Names are not required to be unique; identity is the *Item pointer.
type Item struct {
	Name      string
	UnitPrice money.Amount
	CatalogID string // optional
}

// DisplayName implements Displayable.
func (i Item) DisplayName() string {
	return i.Name
}

// DisplayPrice implements Priced.
func (i Item) DisplayPrice() (money.Amount, bool) {
	return i.UnitPrice, true
}

// Allocation is a purchase count for one item.
type Allocation struct {
	Count int
	Item  *Item
}

// Spend is Count times the item's unit price.
func (a Allocation) Spend() money.Amount {
	return a.Item.UnitPrice.Mul(a.Count)
}

// Status describes how much confidence a result carries.
type Status string

const (
	// StatusBaseline is the greedy round-robin result.
	StatusBaseline Status = "baseline"
	// StatusOptimal means the spend is proven maximal (exact DP, or an exact budget match).
	StatusOptimal Status = "optimal"
	// StatusBestEffort means the refiner ran out of depth.
	StatusBestEffort Status = "best_effort"
	// StatusNoBudget means the budget was zero and nothing was attempted.
	StatusNoBudget Status = "no_budget"
)

// Describe returns a human readable status line.
func (s Status) Describe() string {
	switch s {
	case StatusBaseline:
		return "round-robin baseline"
	case StatusOptimal:
		return "optimal"
	case StatusBestEffort:
		return "best effort, not proven optimal"
	case StatusNoBudget:
		return "no budget given"
	default:
		return string(s)
	}
}

// Result is the outcome of one solve.
// Allocations follow input item order and include zero counts.
type Result struct {
	Algorithm   Algorithm
	Status      Status
	Budget      money.Amount
	TotalSpend  money.Amount
	Allocations []Allocation
}

// Remaining is the unspent part of the budget.
func (r *Result) Remaining() money.Amount {
	return r.Budget - r.TotalSpend
}

// Units is the total number of purchased units.
func (r *Result) Units() int {
	n := 0
	for _, a := range r.Allocations {
		n += a.Count
	}
	return n
}

// Count returns the purchase count for the item at input position i.
func (r *Result) Count(i int) int {
	if i < 0 || i >= len(r.Allocations) {
		return 0
	}
	return r.Allocations[i].Count
}

// own copies items so results never alias caller memory.
func own(items []Item) []*Item {
	owned := make([]Item, len(items))
	copy(owned, items)

	ptrs := make([]*Item, len(owned))
	for i := range owned {
		ptrs[i] = &owned[i]
	}
	return ptrs
}

func zeroAllocations(items []*Item) []Allocation {
	allocs := make([]Allocation, len(items))
	for i, item := range items {
		allocs[i] = Allocation{Item: item}
	}
	return allocs
}

func totalSpend(allocs []Allocation) money.Amount {
	var total money.Amount
	for _, a := range allocs {
		total += a.Spend()
	}
	return total
}

// lines counts allocations with a positive count.
func lines(allocs []Allocation) int {
	n := 0
	for _, a := range allocs {
		if a.Count > 0 {
			n++
		}
	}
	return n
}
