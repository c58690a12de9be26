package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/okian/lineup/internal/adapters/roster"
	"github.com/okian/lineup/internal/domain/types"
)

func newSensitivityCmd(c *cli) *cobra.Command {
	var (
		rosterPath string
		size       int
		weights    []float64
	)
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep the spread weight of the weighted objective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := roster.LoadPlayers(rosterPath)
			if err != nil {
				return err
			}
			resp, err := c.svc.Sensitivity(cmd.Context(), types.SensitivityRequest{
				Players: players,
				Size:    size,
				Weights: weights,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sensitivityTable(resp))
			return err
		},
	}
	cmd.Flags().StringVar(&rosterPath, "roster", "", "Roster file (YAML or JSON)")
	cmd.Flags().IntVar(&size, "size", 5, "Lineup size")
	cmd.Flags().Float64SliceVar(&weights, "weights", []float64{0, 0.25, 0.5, 1, 2}, "Spread weights to try")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func sensitivityTable(resp types.SensitivityResponse) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Weight", "Total", "Spread", "Score", "Lineup"})
	for _, p := range resp.Points {
		t.AppendRow(table.Row{
			strconv.FormatFloat(p.Weight, 'g', -1, 64),
			p.TotalRating,
			p.Spread,
			fmt.Sprintf("%.1f", p.Score),
			strings.Join(p.Players, ", "),
		})
	}
	if resp.Best != nil {
		t.AppendFooter(table.Row{"Best", resp.Best.TotalRating, resp.Best.Spread, fmt.Sprintf("%.1f", resp.Best.Score), strconv.FormatFloat(resp.Best.Weight, 'g', -1, 64)})
	}
	return t.Render()
}
