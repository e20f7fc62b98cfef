package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"recap/internal/history"
	"recap/internal/textutil"
)

const historyTimeLayout = "2006-01-02 15:04"

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent summary runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read run history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, historyRow(entry))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "When", "Status", "Duration", "Model", "Source", "Saved"},
				rows,
				0, 3,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	return cmd
}

func historyRow(entry history.Entry) []string {
	status := entry.Status
	if entry.Status == history.StatusFailed && entry.Stage != "" {
		status = fmt.Sprintf("%s (%s)", entry.Status, entry.Stage)
	}
	return []string{
		strconv.FormatInt(entry.ID, 10),
		entry.CreatedAt.Local().Format(historyTimeLayout),
		status,
		entry.Duration.Round(time.Second).String(),
		textutil.Ternary(entry.Model != "", entry.Model, "-"),
		textutil.Truncate(entry.Source, 48),
		textutil.Ternary(entry.SummaryPath != "", entry.SummaryPath, "-"),
	}
}
