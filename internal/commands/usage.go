package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payeeclean/internal/cleanup"
)

func newUsageCommand() *cobra.Command {
	var repoDir string
	var unused bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show when each rule last matched, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}

			report := cleanup.Usage(r.extractors)
			if unused {
				report = report.Unused()
			}
			if len(report) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository root")
	cmd.Flags().BoolVar(&unused, "unused", false, "only list rules that never matched")

	return cmd
}
