package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eshaffer321/beerbudget/internal/adapters/catalog"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
)

// ErrInvalidChoice is returned when the answer is not a number.
var ErrInvalidChoice = errors.New("invalid choice")

// Chooser asks the user to pick one product when a search is ambiguous.
type Chooser struct {
	in  *bufio.Reader
	out io.Writer
}

// NewChooser reads answers from in and writes prompts to out.
func NewChooser(in io.Reader, out io.Writer) *Chooser {
	return &Chooser{in: bufio.NewReader(in), out: out}
}

// Choose returns the single product of a unique match without asking.
// Otherwise it lists the candidates as "index name price" and reads an
// index. An out-of-range index skips the query: ok is false and a notice
// is written.
func (c *Chooser) Choose(m catalog.Match) (product catalog.Product, ok bool, err error) {
	if len(m.Products) == 0 {
		return catalog.Product{}, false, fmt.Errorf("%w: %q", catalog.ErrNoMatch, m.Query)
	}
	if m.Unique() {
		return m.Products[0], true, nil
	}

	fmt.Fprintf(c.out, "Multiple matches for %q! Choose one of\n", m.Query)
	for i, p := range m.Products {
		fmt.Fprintf(c.out, "%d %s\n", i, optimizer.Describe(p))
	}
	fmt.Fprint(c.out, "Choose an index: ")

	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return catalog.Product{}, false, fmt.Errorf("reading choice: %w", err)
	}

	answer := strings.TrimSpace(line)
	idx, convErr := strconv.Atoi(answer)
	if convErr != nil {
		return catalog.Product{}, false, fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
	}
	if idx < 0 || idx >= len(m.Products) {
		fmt.Fprintf(c.out, "Index %d out of range, skipping %q\n", idx, m.Query)
		return catalog.Product{}, false, nil
	}
	return m.Products[idx], true, nil
}

// ChooseAll resolves every match in order, dropping skipped queries.
func (c *Chooser) ChooseAll(matches []catalog.Match) ([]catalog.Product, error) {
	var chosen []catalog.Product
	for _, m := range matches {
		p, ok, err := c.Choose(m)
		if err != nil {
			return nil, err
		}
		if ok {
			chosen = append(chosen, p)
		}
	}
	return chosen, nil
}
