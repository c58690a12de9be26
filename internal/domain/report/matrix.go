package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DeltaMatrix returns the pairwise differences values[j]-values[i] for
// every pair, formatted with an explicit sign and one decimal.
func DeltaMatrix(labels []string, values []float64) ([][]string, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrLengthMismatch, len(labels), len(values))
	}
	matrix := make([][]string, len(values))
	for i := range values {
		row := make([]string, len(values))
		for j := range values {
			row[j] = fmt.Sprintf("%+.1f", values[j]-values[i])
		}
		matrix[i] = row
	}
	return matrix, nil
}

// MatrixMarkdown renders a delta matrix with one row and column per label.
func MatrixMarkdown(labels []string, matrix [][]string) string {
	t := table.NewWriter()
	header := table.Row{"Scenario"}
	for _, l := range labels {
		header = append(header, l)
	}
	t.AppendHeader(header)
	for i, l := range labels {
		if i >= len(matrix) {
			break
		}
		row := table.Row{l}
		for _, cell := range matrix[i] {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	return t.RenderMarkdown()
}
