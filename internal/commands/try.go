package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payeeclean/internal/cleanup"
	"github.com/cleared-dev/payeeclean/internal/model"
)

func newTryCommand() *cobra.Command {
	var repoDir string
	var dateStr string

	cmd := &cobra.Command{
		Use:   "try <payee>",
		Short: "Run the rule table over a single payee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC().Truncate(24 * time.Hour)
			if dateStr != "" {
				d, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
				date = d
			}

			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}

			txn := cleanup.Clean(model.NewTransaction(date, args[0]), r.extractors, r.cleanOptions()...)
			return printTransaction(cmd.OutOrStdout(), txn)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository root")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD), defaults to today")

	return cmd
}

func printTransaction(w io.Writer, txn model.Transaction) error {
	fmt.Fprintf(w, "payee: %s\n", txn.Payee)
	if len(txn.Tags) > 0 {
		fmt.Fprintf(w, "tags:  %s\n", txn.Tags)
	}
	if len(txn.Meta) > 0 {
		b, err := json.Marshal(txn.Meta)
		if err != nil {
			return fmt.Errorf("encoding meta: %w", err)
		}
		fmt.Fprintf(w, "meta:  %s\n", b)
	}
	return nil
}
