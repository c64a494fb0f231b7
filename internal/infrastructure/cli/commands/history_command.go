package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/askcmd/internal/app"
	"github.com/doeshing/askcmd/internal/domain"
)

// NewHistoryCommand creates the history command with all subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past invocations",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryStatsCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Ledger.Tail(limit)
			if err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search history by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !container.Index.Healthy() {
				return fmt.Errorf("history index unavailable")
			}
			entries, err := container.Index.Search(args[0], limit)
			if err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultSearchLimit, "Limit search results")
	return cmd
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show outcome counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !container.Index.Healthy() {
				return fmt.Errorf("history index unavailable")
			}
			stats, err := container.Index.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, status := range []domain.Status{
				domain.StatusExecuted, domain.StatusExplained, domain.StatusCopied,
				domain.StatusBlocked, domain.StatusCancelled,
			} {
				fmt.Fprintf(out, "%-9s %d\n", status, stats[status])
			}
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Ledger.Clear(); err != nil {
				return err
			}
			return container.Index.Clear()
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !container.Index.Healthy() {
				return fmt.Errorf("history index unavailable")
			}
			return container.Index.ExportJSON(args[0])
		},
	}
}

func renderEntries(out io.Writer, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded yet.")
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s  %-9s  %s\n    %s\n",
			entry.Timestamp.Format(domain.HistoryTimestampFormat),
			entry.Status, entry.Query, entry.Command)
	}
}
