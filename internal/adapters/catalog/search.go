package catalog

import (
	"fmt"
	"regexp"
)

// Match holds the products found for one query, in catalog order.
type Match struct {
	Query    string
	Products []Product
}

// Unique reports whether exactly one product matched.
func (m Match) Unique() bool {
	return len(m.Products) == 1
}

// Search runs each query as a case-insensitive regular expression anchored
// at the start of the product's display name. Results follow query order.
// A query that matches nothing yields an ErrNoMatch error.
func Search(products []Product, queries []string) ([]Match, error) {
	matches := make([]Match, 0, len(queries))
	for _, q := range queries {
		re, err := compileQuery(q)
		if err != nil {
			return nil, err
		}

		m := Match{Query: q}
		for _, p := range products {
			if re.MatchString(p.DisplayName()) {
				m.Products = append(m.Products, p)
			}
		}
		if len(m.Products) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, q)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func compileQuery(q string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)^(?:` + q + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid search %q: %w", q, err)
	}
	return re, nil
}
