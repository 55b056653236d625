package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent state-changing commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "history")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No operations recorded.")
			return nil
		}

		rows := make([][]string, 0, len(ops))
		for _, op := range ops {
			status := op.Status
			switch status {
			case "success":
				status = successStyle.Render(status)
			case "error":
				status = errorStyle.Render(status)
			}
			duration := "-"
			if !op.FinishedAt.IsZero() {
				duration = op.FinishedAt.Sub(op.StartedAt).Round(time.Millisecond).String()
			}
			rows = append(rows, []string{
				strconv.FormatInt(op.ID, 10),
				op.Name,
				orDash(op.Profile),
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				status,
				duration,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Operation", "Profile", "Started", "Status", "Duration"}, rows))
		return nil
	},
}
