// Package observability provides logging setup and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/resume-insights/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// FormatMonths renders a month count as years and months, e.g. "2y 3m".
// Fractional month counts are rounded to one decimal.
func FormatMonths(months float64) string {
	if months <= 0 {
		return "0m"
	}
	rounded := math.Round(months*10) / 10
	years := int(rounded) / 12
	rest := math.Round((rounded-float64(years*12))*10) / 10
	restStr := strconv.FormatFloat(rest, 'f', -1, 64)
	switch {
	case years == 0:
		return restStr + "m"
	case rest == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %sm", years, restStr)
	}
}

// byMonths orders stats nodes by months descending, then by name.
func byMonths(nodes []types.StatsNode) []types.StatsNode {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b types.StatsNode) int {
		if a.Months != b.Months {
			if a.Months > b.Months {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}

// PrintSummary outputs a one-box overview of the analysis.
func (p *Printer) PrintSummary(report *types.SkillReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.Candidate != "" {
		sb.WriteString(fmt.Sprintf("Candidate:   %s\n", report.Candidate))
	}
	sb.WriteString(fmt.Sprintf("As of:       %s\n", report.Now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Skills:      %d (%d top-level)\n", len(report.Skills), len(report.TopLevel)))
	sb.WriteString(fmt.Sprintf("Experience:  %s\n", FormatMonths(report.Career.Months)))
	sb.WriteString(fmt.Sprintf("Positions:   %d", len(report.Work)))

	p.printBox("SKILL ANALYSIS", sb.String())
}

// PrintTopCategories outputs ranked top-level categories, each with its largest children.
// total is the number of top-level categories in the analysis.
func (p *Printer) PrintTopCategories(categories []types.StatsNode, total int) {
	if len(categories) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range categories {
		sb.WriteString(fmt.Sprintf("#%d  %s  %s\n", i+1, c.Name, FormatMonths(c.Months)))
		children := byMonths(c.Children)
		for j := 0; j < min(len(children), 3); j++ {
			sb.WriteString(fmt.Sprintf("    • %s  %s\n", children[j].Name, FormatMonths(children[j].Months)))
		}
		if len(children) > 3 {
			sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(children)-3))
		}
	}
	if total > len(categories) {
		sb.WriteString(fmt.Sprintf("\n... and %d more categories\n", total-len(categories)))
	}

	p.printBox("TOP SKILL CATEGORIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWork outputs experience per position, in work id order.
func (p *Printer) PrintWork(report *types.SkillReport) {
	if report == nil || len(report.Work) == 0 {
		return
	}

	ids := make([]string, 0, len(report.Work))
	for id := range report.Work {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var sb strings.Builder
	for i, id := range ids {
		w := report.Work[id]
		sb.WriteString(fmt.Sprintf("%s  %s\n", id, FormatMonths(w.Months)))
		top := byMonths(w.Children)
		names := make([]string, 0, maxItemsToShow)
		for _, c := range top {
			if c.Months <= 0 || len(names) == maxItemsToShow {
				break
			}
			names = append(names, c.Name)
		}
		if len(names) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", strings.Join(names, ", ")))
		}
		if i < len(ids)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EXPERIENCE BY POSITION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintYears outputs the per-year and cumulative experience totals.
func (p *Printer) PrintYears(report *types.SkillReport) {
	if report == nil || len(report.Year) == 0 {
		return
	}

	years := make([]string, 0, len(report.Year))
	for y := range report.Year {
		years = append(years, y)
	}
	slices.Sort(years)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %12s %12s\n", "Year", "In year", "Cumulative"))
	for _, y := range years {
		sb.WriteString(fmt.Sprintf("%-6s %12s %12s\n", y,
			FormatMonths(report.Year[y].Months),
			FormatMonths(report.YearCumulative[y].Months)))
	}

	p.printBox("EXPERIENCE BY YEAR", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs input problems that did not stop the analysis.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO INPUT WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))
	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s", w))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("INPUT WARNINGS", sb.String())
}
