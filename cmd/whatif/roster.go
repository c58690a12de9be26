package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/okian/lineup/internal/adapters/roster"
	"github.com/okian/lineup/internal/domain/types"
)

func newRosterCmd(c *cli) *cobra.Command {
	var rosterPath string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Summarise roster strength and rating trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := roster.LoadPlayers(rosterPath)
			if err != nil {
				return err
			}
			resp, err := c.svc.Performance(cmd.Context(), types.PerformanceRequest{Players: players})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), performanceTable(resp))
			return err
		},
	}
	cmd.Flags().StringVar(&rosterPath, "roster", "", "Roster file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func performanceTable(resp types.PerformanceResponse) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Players: %d  Avg: %.1f  Min: %.0f  Max: %.0f",
		resp.Strength.Count, resp.Strength.Average, resp.Strength.Min, resp.Strength.Max))
	t.AppendHeader(table.Row{"Name", "Current", "Recent Delta", "Slope", "Points"})
	for _, tr := range resp.Trends {
		t.AppendRow(table.Row{
			tr.Name,
			tr.Current,
			strconv.Itoa(tr.RecentDelta),
			fmt.Sprintf("%.1f", tr.Slope),
			tr.HistoryPoints,
		})
	}
	return t.Render()
}
