package optimizer

import (
	"strings"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

// Algorithm selects a solver.
type Algorithm int

const (
	AlgorithmRoundRobin Algorithm = iota
	AlgorithmKnapsack
	AlgorithmNaive
)

// Algorithms lists every solver in a stable order.
var Algorithms = []Algorithm{AlgorithmRoundRobin, AlgorithmKnapsack, AlgorithmNaive}

// ParseAlgorithm maps "roundrobin"/"rr", "knapsack"/"ks" and "naive"/"nks"
// to an Algorithm. Anything else selects round-robin.
func ParseAlgorithm(s string) Algorithm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "knapsack", "ks":
		return AlgorithmKnapsack
	case "naive", "nks":
		return AlgorithmNaive
	default:
		return AlgorithmRoundRobin
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmKnapsack:
		return "knapsack"
	case AlgorithmNaive:
		return "naive"
	default:
		return "roundrobin"
	}
}

// MarshalText encodes the algorithm by name.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the same names as ParseAlgorithm.
func (a *Algorithm) UnmarshalText(text []byte) error {
	*a = ParseAlgorithm(string(text))
	return nil
}

const (
	// DefaultDepthLimit bounds the refiner's rounds.
	DefaultDepthLimit = 10
	// DefaultMaxTableCells bounds the knapsack table (budget units x slots).
	DefaultMaxTableCells int64 = 250_000_000
)

// Options tunes the solvers.
type Options struct {
	DepthLimit    int   // refiner rounds
	MaxTableCells int64 // knapsack ceiling, <= 0 disables
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DepthLimit:    DefaultDepthLimit,
		MaxTableCells: DefaultMaxTableCells,
	}
}

// Solve validates the input and runs the selected algorithm.
func Solve(budget money.Amount, items []Item, alg Algorithm, opts Options) (*Result, error) {
	switch alg {
	case AlgorithmKnapsack:
		return Knapsack(budget, items, opts.MaxTableCells)
	case AlgorithmNaive:
		return Refine(budget, items, opts.DepthLimit)
	default:
		return RoundRobin(budget, items)
	}
}
