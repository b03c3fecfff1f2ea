package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "organize",
		Short: "Scan the downloads directory and place confident matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := ctx.organizer()
			if err != nil {
				return err
			}
			report, err := org.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var rows [][]string
			for _, outcome := range report.Outcomes {
				status := "queued"
				detail := outcome.QueueReason
				switch {
				case outcome.Organized:
					status = "organized"
					detail = outcome.FinalPath
				case outcome.Skipped:
					status = "duplicate"
					detail = outcome.FinalPath
				}
				rows = append(rows, []string{outcome.SourcePath, status, detail})
			}
			for _, failure := range report.Failures {
				rows = append(rows, []string{failure.Path, "failed", failure.Err.Error()})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"File", "Result", "Detail"}, rows))
			}
			fmt.Fprintf(out, "Scanned %d, organized %d, queued %d, duplicates %d, failed %d (run %s)\n",
				report.Scanned, report.Organized, report.Queued, report.Skipped, len(report.Failures), report.RunID)
			return nil
		},
	}
}
