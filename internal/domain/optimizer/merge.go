package optimizer

import "fmt"

// Merge sums two allocation lists keyed on item identity. The result keeps
// the order in which items first appear in a, then b. Neither input is
// modified. Merge fails with ErrNegativeCount if any resulting count is
// negative.
func Merge(a, b []Allocation) ([]Allocation, error) {
	index := make(map[*Item]int, len(a)+len(b))
	merged := make([]Allocation, 0, len(a)+len(b))

	for _, list := range [][]Allocation{a, b} {
		for _, alloc := range list {
			if i, ok := index[alloc.Item]; ok {
				merged[i].Count += alloc.Count
				continue
			}
			index[alloc.Item] = len(merged)
			merged = append(merged, alloc)
		}
	}

	for _, alloc := range merged {
		if alloc.Count < 0 {
			return nil, fmt.Errorf("%w: %q would have %d", ErrNegativeCount, alloc.Item.Name, alloc.Count)
		}
	}
	return merged, nil
}

// Delta is a pending change to an allocation: units to add and units to
// remove. Counts in both lists are non-negative.
type Delta struct {
	Additions []Allocation
	Removals  []Allocation
}

// Apply merges the delta into base. base is left unchanged, including when
// the delta would remove more units than base holds.
func (d Delta) Apply(base []Allocation) ([]Allocation, error) {
	change := make([]Allocation, 0, len(d.Additions)+len(d.Removals))
	change = append(change, d.Additions...)
	for _, r := range d.Removals {
		change = append(change, Allocation{Count: -r.Count, Item: r.Item})
	}
	return Merge(base, change)
}
