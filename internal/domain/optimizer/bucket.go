package optimizer

import (
	"sort"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// Bucket groups items that share a unit price. Items in a bucket are
// interchangeable for optimization purposes.
type Bucket struct {
	Price money.Amount
	Items []*Item // input order
}

// BucketByPrice groups items by identical unit price.
// Buckets are returned in ascending price order.
func BucketByPrice(items []*Item) []Bucket {
	index := make(map[money.Amount]int)
	var buckets []Bucket

	for _, item := range items {
		i, ok := index[item.UnitPrice]
		if !ok {
			i = len(buckets)
			index[item.UnitPrice] = i
			buckets = append(buckets, Bucket{Price: item.UnitPrice})
		}
		buckets[i].Items = append(buckets[i].Items, item)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Price < buckets[j].Price
	})
	return buckets
}

// Split distributes count units across the bucket's items: every item gets
// count/len, and the first count%len items get one more.
func (b Bucket) Split(count int) []Allocation {
	n := len(b.Items)
	if n == 0 {
		return nil
	}
	quotient, remainder := count/n, count%n

	allocs := make([]Allocation, n)
	for i, item := range b.Items {
		allocs[i] = Allocation{Count: quotient, Item: item}
		if i < remainder {
			allocs[i].Count++
		}
	}
	return allocs
}
