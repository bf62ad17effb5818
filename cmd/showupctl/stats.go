package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print appointment totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Store.GetStats(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{
			"total_appointments": stats.TotalAppointments,
			"total_patients":     stats.TotalPatients,
			"total_noshows":      stats.TotalNoShows,
			"noshow_rate":        fmt.Sprintf("%.1f%%", stats.NoShowPercent()),
		})
	},
}
