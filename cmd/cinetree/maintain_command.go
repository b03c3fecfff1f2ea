package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMaintainCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "maintain",
		Short: "Rebalance the link mirror: split oversized buckets, extract prefix groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := ctx.organizer()
			if err != nil {
				return err
			}
			report, err := org.Maintain(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.NoOp() {
				fmt.Fprintln(out, "Mirror already balanced; nothing to do.")
				return nil
			}
			if len(report.CreatedDirs) > 0 {
				fmt.Fprintf(out, "Created: %s\n", strings.Join(report.CreatedDirs, ", "))
			}
			if len(report.RemovedDirs) > 0 {
				fmt.Fprintf(out, "Removed: %s\n", strings.Join(report.RemovedDirs, ", "))
			}
			if len(report.GroupsCreated) > 0 {
				fmt.Fprintf(out, "Groups: %s\n", strings.Join(report.GroupsCreated, ", "))
			}
			fmt.Fprintf(out, "Moved %d links (run %s)\n", report.MovedLinks, report.RunID)
			for _, failure := range report.Failures {
				fmt.Fprintf(out, "Failed: %s: %v\n", failure.Path, failure.Err)
			}
			return nil
		},
	}
}
