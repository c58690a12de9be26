package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/lineup/internal/adapters/roster"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/report"
)

type runFlags struct {
	roster    string
	scenarios string
	size      int
	objective string
	weight    float64
	date      string
	format    string
}

func newRunCmd(c *cli) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every scenario against a roster",
		Long: `Run each scenario over the roster and render the results.

Scenarios come from --scenarios when given, otherwise from the roster file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.roster, "roster", "", "Roster file (YAML or JSON)")
	cmd.Flags().StringVar(&f.scenarios, "scenarios", "", "Scenario file; defaults to the roster's scenarios")
	cmd.Flags().IntVar(&f.size, "size", 5, "Lineup size")
	cmd.Flags().StringVar(&f.objective, "objective", "max_total", "Objective: max_total, min_spread, weighted")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "Spread weight for the weighted objective")
	cmd.Flags().StringVar(&f.date, "date", "", "Only use players available on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.format, "format", "table", "Output format: table, markdown, report, matrix")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, f *runFlags) error {
	format, err := checkFormat(f.format, "table", "markdown", "report", "matrix")
	if err != nil {
		return err
	}
	file, err := roster.Load(f.roster)
	if err != nil {
		return err
	}
	scenarios := file.Scenarios
	if f.scenarios != "" {
		if scenarios, err = roster.LoadScenarios(f.scenarios); err != nil {
			return err
		}
	}
	if len(scenarios) == 0 {
		scenarios = []model.Scenario{{Name: "Full squad"}}
	}

	results, err := c.svc.RunScenarios(cmd.Context(), model.BatchRequest{
		Players:          file.Players,
		Scenarios:        scenarios,
		Size:             f.size,
		Objective:        f.objective,
		WeightSpread:     weightFlag(cmd, f.weight),
		AvailabilityDate: f.date,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "markdown":
		_, err = fmt.Fprint(out, report.ExportMarkdown(results))
	case "report":
		_, err = fmt.Fprint(out, report.Build(results))
	case "matrix":
		labels := make([]string, len(results))
		totals := make([]float64, len(results))
		for i, r := range results {
			labels[i] = r.Name()
			totals[i] = float64(r.TotalRating)
		}
		matrix, mErr := report.DeltaMatrix(labels, totals)
		if mErr != nil {
			return mErr
		}
		_, err = fmt.Fprint(out, report.MatrixMarkdown(labels, matrix))
	default:
		var ref *int
		if len(results) > 0 {
			ref = &results[0].TotalRating
		}
		_, err = fmt.Fprintln(out, report.Table(results, ref))
	}
	return err
}
