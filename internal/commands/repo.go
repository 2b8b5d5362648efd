package commands

import (
	"fmt"
	"path/filepath"

	"github.com/cleared-dev/payeeclean/internal/cleanup"
	"github.com/cleared-dev/payeeclean/internal/config"
	"github.com/cleared-dev/payeeclean/internal/rules"
	"github.com/cleared-dev/payeeclean/internal/usagelog"
)

// repo is an opened payeeclean repository: its config and the rule table,
// seeded with the recorded usage dates.
type repo struct {
	root       string
	cfg        *config.Config
	extractors cleanup.Extractors
}

func openRepo(dir string) (*repo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadRepo(root)
	if err != nil {
		return nil, err
	}

	exs, err := rules.Load(cfg.RulesPath(root))
	if err != nil {
		return nil, err
	}

	dates, err := usagelog.Load(cfg.UsagePath(root))
	if err != nil {
		return nil, err
	}
	usagelog.Seed(exs, dates)

	return &repo{root: root, cfg: cfg, extractors: exs}, nil
}

func (r *repo) cleanOptions() []cleanup.CleanOption {
	if r.cfg.Cleanup.PreserveOriginalIn == "" {
		return nil
	}
	return []cleanup.CleanOption{cleanup.PreserveOriginalIn(r.cfg.Cleanup.PreserveOriginalIn)}
}
