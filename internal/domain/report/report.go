// Package report renders scenario results as text and markdown.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/optimizer"
	"github.com/okian/lineup/internal/domain/scenario"
)

const (
	barWidth   = 40
	labelWidth = 20

	emptyReport = "# Optimization Report\n\n_No scenarios available to report._\n"
)

var rowHeader = table.Row{"ID", "Time", "Objective", "Size", "Total", "Avg", "Spread", "Delta", "Scenario"}

// Table renders results as a boxed text table using the 9-column row
// layout. Deltas are taken against reference when it is non-nil.
func Table(results []model.ScenarioResult, reference *int) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(rowHeader)
	for _, r := range results {
		t.AppendRow(toRow(scenario.Row(r, reference)))
	}
	return t.Render()
}

// ExportMarkdown renders results as a markdown scenarios report with one
// row per result and the chosen lineup.
func ExportMarkdown(results []model.ScenarioResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Time (UTC)", "Objective", "Size", "Total", "Avg", "Spread", "Lineup"})
	for _, r := range results {
		t.AppendRow(table.Row{
			strconv.Itoa(r.ID),
			r.Timestamp,
			r.Objective,
			strconv.Itoa(r.Size),
			strconv.Itoa(r.TotalRating),
			strconv.FormatFloat(r.AverageRating, 'f', 1, 64),
			strconv.Itoa(r.Spread),
			lineup(r),
		})
	}
	return "# Optimization Scenarios Report\n\n" + t.RenderMarkdown() + "\n"
}

// Build renders the full report: summary statistics, an ASCII bar chart of
// totals and a detail table. max_total rows are compared against the best
// max_total result; other rows against the lowest total among them.
func Build(results []model.ScenarioResult) string {
	if len(results) == 0 {
		return emptyReport
	}

	totals := make([]float64, len(results))
	spreads := make([]float64, len(results))
	best, worst := results[0].TotalRating, results[0].TotalRating
	for i, r := range results {
		totals[i] = float64(r.TotalRating)
		spreads[i] = float64(r.Spread)
		best = max(best, r.TotalRating)
		worst = min(worst, r.TotalRating)
	}

	var sb strings.Builder
	sb.WriteString("# Optimization Report\n\n")
	sb.WriteString("## Summary\n")
	fmt.Fprintf(&sb, "Scenarios: %d\n", len(results))
	fmt.Fprintf(&sb, "Best Total: %d\n", best)
	fmt.Fprintf(&sb, "Worst Total: %d\n", worst)
	fmt.Fprintf(&sb, "Average Total: %.1f\n", stat.Mean(totals, nil))
	fmt.Fprintf(&sb, "Average Spread: %.1f\n", stat.Mean(spreads, nil))
	sb.WriteString("\n## Totals Bar Chart (ASCII)\n")
	sb.WriteString(BarChart(results))
	sb.WriteString("\n## Detailed Scenarios\n")

	refMax, refOther := references(results)
	t := table.NewWriter()
	t.AppendHeader(append(slices.Clone(rowHeader), "Lineup"))
	for _, r := range results {
		ref := refOther
		if r.Objective == optimizer.MaxTotal.String() {
			ref = refMax
		}
		t.AppendRow(append(toRow(scenario.Row(r, ref)), lineup(r)))
	}
	sb.WriteString(t.RenderMarkdown())
	sb.WriteString("\n")
	return sb.String()
}

// BarChart draws one bar per result, scaled so the best total spans the
// full chart width.
func BarChart(results []model.ScenarioResult) string {
	scale := 1
	for _, r := range results {
		scale = max(scale, r.TotalRating)
	}
	var sb strings.Builder
	for _, r := range results {
		width := r.TotalRating * barWidth / scale
		fmt.Fprintf(&sb, "%-*s | %s %d\n", labelWidth, r.Name(), strings.Repeat("#", max(width, 0)), r.TotalRating)
	}
	return sb.String()
}

func references(results []model.ScenarioResult) (refMax, refOther *int) {
	for _, r := range results {
		total := r.TotalRating
		if r.Objective == optimizer.MaxTotal.String() {
			if refMax == nil || total > *refMax {
				refMax = &total
			}
			continue
		}
		if refOther == nil || total < *refOther {
			refOther = &total
		}
	}
	return refMax, refOther
}

func lineup(r model.ScenarioResult) string {
	return strings.Join(model.Names(r.Players), ", ")
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
