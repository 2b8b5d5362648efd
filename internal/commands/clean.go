package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payeeclean/internal/cleanup"
	"github.com/cleared-dev/payeeclean/internal/gitops"
	"github.com/cleared-dev/payeeclean/internal/importer"
	"github.com/cleared-dev/payeeclean/internal/ledger"
	"github.com/cleared-dev/payeeclean/internal/logger"
	"github.com/cleared-dev/payeeclean/internal/model"
	"github.com/cleared-dev/payeeclean/internal/usagelog"
)

func newCleanCommand() *cobra.Command {
	var repoDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean payees of pending imports and append them to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), cmd.OutOrStdout(), repoDir, dryRun)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository root")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print cleaned payees without writing anything")

	return cmd
}

func runClean(ctx context.Context, out io.Writer, repoDir string, dryRun bool) error {
	log := logger.FromContext(ctx)

	r, err := openRepo(repoDir)
	if err != nil {
		return err
	}

	files, err := importer.Scan(r.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files to import.")
		return nil
	}

	reg := importer.DefaultRegistry()
	svc := ledger.NewService(r.root)
	opts := r.cleanOptions()

	// usage only advances past files that made it into the ledger.
	usage := cleanup.Usage(r.extractors)
	total, imported := 0, 0
	var importErr error
	for _, f := range files {
		txns, err := reg.ReadFile(r.cfg.Import.Format, f.Path)
		if err != nil {
			importErr = err
			break
		}

		cleaned := make([]model.Transaction, len(txns))
		for i, txn := range txns {
			cleaned[i] = cleanup.Clean(txn, r.extractors, opts...)
			log.Debug().
				Str("file", f.Name).
				Str("from", txn.Payee).
				Str("to", cleaned[i].Payee).
				Msg("cleaned payee")
		}

		if dryRun {
			for i, txn := range cleaned {
				fmt.Fprintf(out, "%s  %s -> %s\n", txn.Date.Format("2006-01-02"), txns[i].Payee, txn.Payee)
			}
			continue
		}

		ids, err := svc.Append(cleaned)
		if err != nil {
			importErr = fmt.Errorf("%s: %w", f.Name, err)
			break
		}
		if err := importer.MarkProcessed(r.root, f.Name); err != nil {
			importErr = err
			break
		}

		usage = cleanup.Usage(r.extractors)
		total += len(ids)
		imported++
		log.Info().Str("file", f.Name).Int("transactions", len(ids)).Msg("imported")
		fmt.Fprintf(out, "%s: %d transactions\n", f.Name, len(ids))
	}

	if dryRun || imported == 0 {
		return importErr
	}

	if err := usagelog.Save(r.cfg.UsagePath(r.root), usage); err != nil {
		return errors.Join(importErr, err)
	}

	if !r.cfg.Git.AutoCommit || !gitops.IsRepo(r.root) {
		return importErr
	}
	msg := fmt.Sprintf("clean: import %d transactions from %d files", total, imported)
	hash, err := gitops.CommitAll(r.root, msg, author(r.cfg))
	if err != nil {
		return errors.Join(importErr, err)
	}
	log.Info().Str("commit", hash).Msg("committed")
	return importErr
}
