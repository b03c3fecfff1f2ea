package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cinetree/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and resolve the manual-review queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueResolveCommand(ctx))
	queueCmd.AddCommand(newQueueRejectCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List review items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			var statuses []queue.Status
			if strings.TrimSpace(statusFlag) != "" {
				status, ok := queue.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				statuses = append(statuses, status)
			}
			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Review queue is empty.")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				year := ""
				if item.ParsedYear > 0 {
					year = strconv.Itoa(item.ParsedYear)
				}
				rows = append(rows, []string{
					item.Token,
					item.ParsedTitle,
					year,
					string(item.Status),
					item.Reason,
					strconv.Itoa(len(item.Candidates)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Token", "Title", "Year", "Status", "Reason", "Candidates"},
				rows,
				2, 5,
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending, validated, rejected)")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <token>",
		Short: "Show one review item with its ranked candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			item, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  (%s)\n", item.Token, item.SourcePath, item.Status)
			fmt.Fprintf(out, "Parsed: %q", item.ParsedTitle)
			if item.ParsedYear > 0 {
				fmt.Fprintf(out, " (%d)", item.ParsedYear)
			}
			fmt.Fprintf(out, "  reason: %s\n", item.Reason)
			if len(item.Candidates) == 0 {
				fmt.Fprintln(out, "No stored candidates.")
				return nil
			}
			rows := make([][]string, 0, len(item.Candidates))
			for i, ranked := range item.Candidates {
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
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Title", "Year", "Score"},
				rows,
				0, 3, 4,
			))
			return nil
		},
	}
}

func newQueueResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <token> <candidate-id>",
		Short: "Validate a review item with the chosen candidate and organize it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if _, err := store.Resolve(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			org, err := ctx.organizer()
			if err != nil {
				return err
			}
			outcome, err := org.ResolveQueued(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case outcome.Organized:
				fmt.Fprintf(out, "Organized into %s\n", outcome.FinalPath)
			case outcome.Skipped:
				fmt.Fprintf(out, "Destination already holds identical content: %s\n", outcome.FinalPath)
			}
			return nil
		},
	}
}

func newQueueRejectCommand(ctx *commandContext) *cobra.Command {
	var noteFlag string
	cmd := &cobra.Command{
		Use:   "reject <token>",
		Short: "Reject every candidate for a review item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			item, err := store.Reject(cmd.Context(), args[0], noteFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rejected %s (%s)\n", item.Token, item.SourcePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&noteFlag, "note", "", "Reason for the rejection")
	return cmd
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every review item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d review items\n", n)
			return nil
		},
	}
}
