package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinetree/internal/contentid"
)

func newConflictCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "conflict <incoming> <existing>",
		Short: "Classify a destination conflict and show both sides",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, existing := args[0], args[1]
			info, err := contentid.Classify(incoming, existing)
			if err != nil {
				return err
			}
			left, err := contentid.Summarize(incoming, nil)
			if err != nil {
				return err
			}
			right, err := contentid.Summarize(existing, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Classification: %s\n", info.Kind)
			fmt.Fprintln(out, renderTable(
				[]string{"", "Incoming", "Existing"},
				[][]string{
					{"Path", left.Path, right.Path},
					{"Files", strconv.Itoa(left.FileCount), strconv.Itoa(right.FileCount)},
					{"Size", left.HumanSize(), right.HumanSize()},
					{"Hash", info.IncomingHash.String(), info.ExistingHash.String()},
				},
			))

			switch info.Kind {
			case contentid.Duplicate:
				fmt.Fprintln(out, "The incoming copy is bit-identical; it is safe to discard.")
			default:
				fmt.Fprintln(out, "Contents differ; keep or rename one side before organizing.")
			}
			return nil
		},
	}
}
