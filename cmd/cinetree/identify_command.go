package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <file>",
		Short: "Rank metadata candidates for a file without moving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := ctx.organizer()
			if err != nil {
				return err
			}
			ident, err := org.Identify(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed: %q", ident.Parsed.Title)
			if ident.Parsed.Year > 0 {
				fmt.Fprintf(out, " (%d)", ident.Parsed.Year)
			}
			fmt.Fprintf(out, " [%s]\n", ident.Parsed.Kind)

			if len(ident.Ranked) == 0 {
				fmt.Fprintln(out, "No candidates found.")
				return nil
			}

			rows := make([][]string, 0, len(ident.Ranked))
			for i, ranked := range ident.Ranked {
				year := ""
				if ranked.Candidate.Year > 0 {
					year = strconv.Itoa(ranked.Candidate.Year)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					ranked.Candidate.ID,
					ranked.Candidate.Title,
					year,
					formatScore(ranked.Score.Total),
					formatScore(ranked.Score.Title),
					formatScore(ranked.Score.Year),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Title", "Year", "Score", "Title score", "Year score"},
				rows,
				0, 3, 4, 5, 6,
			))

			if ident.AutoValidated {
				fmt.Fprintln(out, "Decision: auto-validated")
			} else {
				fmt.Fprintln(out, "Decision: manual review required")
			}
			return nil
		},
	}
}
