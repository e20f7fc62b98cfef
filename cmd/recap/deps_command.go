package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recap/internal/deps"
	"recap/internal/services/ytdlp"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	depsCmd := &cobra.Command{
		Use:   "deps",
		Short: "Show the external tools recap depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.YtDlp.Binary, cfg.Whisper.Binary))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				name := status.Name
				if status.Optional {
					name += " (optional)"
				}
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
				}
				rows = append(rows, []string{name, state, detail, status.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Dependency", "Status", "Detail", "Purpose"}, rows))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}

	depsCmd.AddCommand(newDepsUpdateCommand(cmdCtx))
	return depsCmd
}

func newDepsUpdateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Run the downloader's self-updater",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			client := ytdlp.NewClient(ytdlp.Config{Binary: cfg.YtDlp.Binary})
			fmt.Fprintf(cmd.OutOrStdout(), "Updating %s...\n", client.Binary())
			output, err := client.Update(cmd.Context())
			if err != nil {
				return fmt.Errorf("update downloader: %w", err)
			}
			if output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Downloader up to date")
			return nil
		},
	}
}
