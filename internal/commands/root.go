package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payeeclean/internal/buildinfo"
	"github.com/cleared-dev/payeeclean/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "payeeclean",
		Short:   "Rule-based payee cleanup for bank imports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				logLevel = os.Getenv(logger.LevelEnv)
			}
			lvl, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log := logger.NewConsole(cmd.ErrOrStderr()).Level(lvl)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $"+logger.LevelEnv)

	rootCmd.AddCommand(
		newInitCommand(),
		newCleanCommand(),
		newUsageCommand(),
		newTryCommand(),
	)

	return rootCmd
}
