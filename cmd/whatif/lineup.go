package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/lineup/internal/adapters/roster"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
)

type lineupFlags struct {
	roster    string
	size      int
	objective string
	weight    float64
	date      string
	format    string
}

func newLineupCmd(c *cli) *cobra.Command {
	f := &lineupFlags{}
	cmd := &cobra.Command{
		Use:   "lineup",
		Short: "Pick the best lineup from a roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.lineup(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.roster, "roster", "", "Roster file (YAML or JSON)")
	cmd.Flags().IntVar(&f.size, "size", 5, "Lineup size")
	cmd.Flags().StringVar(&f.objective, "objective", "max_total", "Objective: max_total, min_spread, weighted")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "Spread weight for the weighted objective")
	cmd.Flags().StringVar(&f.date, "date", "", "Only use players available on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text, json")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func (c *cli) lineup(cmd *cobra.Command, f *lineupFlags) error {
	format, err := checkFormat(f.format, "text", "json")
	if err != nil {
		return err
	}
	players, err := roster.LoadPlayers(f.roster)
	if err != nil {
		return err
	}
	res, err := c.svc.Optimize(cmd.Context(), types.LineupRequest{
		Players:          players,
		Size:             f.size,
		Objective:        f.objective,
		WeightSpread:     weightFlag(cmd, f.weight),
		AvailabilityDate: f.date,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	_, err = fmt.Fprintf(out, "Lineup: %s\nTotal: %d\nAverage: %.1f\nSpread: %d\nObjective: %s\n",
		strings.Join(model.Names(res.Players), ", "), res.TotalRating, res.AverageRating, res.Spread, res.Objective)
	if err != nil {
		return err
	}
	if res.Reasoning != "" {
		_, err = fmt.Fprintf(out, "Reasoning: %s\n", res.Reasoning)
	}
	if err == nil && len(res.Warnings) > 0 {
		_, err = fmt.Fprintf(out, "Warnings: %s\n", strings.Join(res.Warnings, ", "))
	}
	return err
}
