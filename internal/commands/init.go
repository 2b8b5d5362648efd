package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payeeclean/internal/config"
	"github.com/cleared-dev/payeeclean/internal/gitops"
	"github.com/cleared-dev/payeeclean/internal/rules"
)

func newInitCommand() *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new payee cleanup repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git init and the initial commit")

	return cmd
}

func runInit(out io.Writer, dir, name string, withGit bool) error {
	cfg := config.Default(name)

	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		filepath.Dir(cfg.Cleanup.RulesFile),
		filepath.Dir(cfg.Usage.LogFile),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return err
	}

	if err := rules.Save(cfg.RulesPath(dir), rules.Default()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	gitignore := "*.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", "processed", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !withGit {
		fmt.Fprintf(out, "Initialized payeeclean repository at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return err
	}

	hash, err := gitops.CommitAll(dir, "init: Initialize "+name, author(cfg))
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized payeeclean repository at %s (%s)\n", dir, hash)
	return nil
}

func author(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
