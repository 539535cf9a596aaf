// Package optimizer allocates a fixed budget across a catalog of priced,
// repeatable items so that as much of the budget as possible is spent
// without exceeding it.
//
// Three algorithms are available:
//
//   - RoundRobin: deterministic greedy baseline. Adds one unit of every item
//     in input order per pass until a full pass adds nothing.
//   - Knapsack: exact dynamic program over the budget. Items are grouped by
//     unit price, each price contributes floor(budget/price) interchangeable
//     slots, and the best subset of slots is found by subset-sum DP.
//   - Refine ("naive"): local search starting from the round-robin baseline,
//     swapping single units for up to a bounded number of rounds.
//
// Every call owns its own buckets, tables and refinement state, so the
// functions are safe to call concurrently.
//
// Example usage:
//
//	items := []optimizer.Item{
//		{Name: "omnipollo leon", UnitPrice: money.FromUnits(29)},
//		{Name: "vodka", UnitPrice: money.FromUnits(200)},
//	}
//	res, err := optimizer.Solve(money.FromUnits(1000), items, optimizer.AlgorithmKnapsack, optimizer.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.TotalSpend) // 1000.00
package optimizer
