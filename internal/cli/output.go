package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eshaffer321/beerbudget/internal/application/planner"
	"github.com/eshaffer321/beerbudget/internal/domain/optimizer"
	"github.com/eshaffer321/beerbudget/internal/infrastructure/storage"
)

// PrintPlan prints one line per item, zero counts included, then the total.
//
//	34 bottles of Pilsner (986:-)
//	Total: 986:-
func PrintPlan(w io.Writer, result *optimizer.Result) {
	for _, a := range result.Allocations {
		fmt.Fprintf(w, "%s of %s (%s:-)\n", bottles(a.Count), a.Item.Name, a.Spend().Short())
	}
	fmt.Fprintf(w, "Total: %s:-\n", result.TotalSpend.Short())
}

// PrintPlanSummary prints the algorithm and status after a plan.
func PrintPlanSummary(w io.Writer, plan *planner.Plan) {
	fmt.Fprintf(w, "Algorithm: %s | Status: %s | Left: %s:-",
		plan.Algorithm, plan.Status.Describe(), plan.Remaining().Short())
	if plan.Saved {
		fmt.Fprintf(w, " | Saved as %s", plan.ID)
	}
	fmt.Fprintln(w)
}

// PrintComparison prints one row per algorithm.
func PrintComparison(w io.Writer, comparisons []planner.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tSTATUS\tSPEND\tLEFT\tUNITS\tTIME")
	for _, c := range comparisons {
		if c.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t-\t-\t-\t-\n", c.Algorithm, c.Err)
			continue
		}
		p := c.Plan
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			c.Algorithm, p.Status, p.TotalSpend.Short(), p.Remaining().Short(), p.Units(), p.Elapsed)
	}
	_ = tw.Flush()

	if best, ok := planner.Best(comparisons); ok {
		fmt.Fprintf(w, "Best: %s\n", best.Algorithm)
	}
}

// PrintHistory prints stored plans, newest first.
func PrintHistory(w io.Writer, list *storage.PlanListResult) {
	if len(list.Plans) == 0 {
		fmt.Fprintln(w, "No plans saved yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tALGORITHM\tBUDGET\tSPEND\tITEMS")
	for _, p := range list.Plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Algorithm,
			p.Budget.Short(), p.TotalSpend.Short(), lineSummary(p.Lines))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Showing %d of %d\n", len(list.Plans), list.TotalCount)
}

func bottles(n int) string {
	if n == 1 {
		return "1 bottle"
	}
	return fmt.Sprintf("%d bottles", n)
}

func lineSummary(lines []storage.PlanLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Count > 0 {
			parts = append(parts, fmt.Sprintf("%dx %s", l.Count, l.Name))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
