package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recap/internal/deps"
	"recap/internal/preflight"
	"recap/internal/textutil"
)

func newCheckCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, credentials, tools, and API reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{
					result.Name,
					textutil.Ternary(result.Passed, "ok", "failed"),
					result.Detail,
				})
			}
			fmt.Fprintln(out, "Environment")
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			statuses := preflight.CheckSystemDeps(cfg)
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				name := status.Name
				if status.Optional {
					name += " (optional)"
				}
				toolRows = append(toolRows, []string{
					name,
					textutil.Ternary(status.Available, "ok", "missing"),
					textutil.Ternary(status.Available, status.Command, status.Detail),
				})
			}
			fmt.Fprintln(out, "Tools")
			fmt.Fprintln(out, renderTable([]string{"Tool", "Status", "Detail"}, toolRows))

			missing := deps.MissingRequired(statuses)
			switch {
			case !preflight.Passed(results) && len(missing) > 0:
				return fmt.Errorf("environment checks failed and required tools are missing: %s", strings.Join(missing, ", "))
			case !preflight.Passed(results):
				return errors.New("one or more environment checks failed")
			case len(missing) > 0:
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}

			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
