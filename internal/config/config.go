package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the repository root.
const FileName = "payeeclean.yaml"

// Config represents the top-level payeeclean.yaml configuration.
type Config struct {
	Name    string        `yaml:"name"`
	Import  ImportConfig  `yaml:"import"`
	Cleanup CleanupConfig `yaml:"cleanup"`
	Usage   UsageConfig   `yaml:"usage"`
	Git     GitConfig     `yaml:"git"`
}

// ImportConfig selects the bank CSV parser.
type ImportConfig struct {
	Format string `yaml:"format"`
}

// CleanupConfig controls the payee cleanup pass.
type CleanupConfig struct {
	RulesFile          string `yaml:"rules_file"`                     // relative to the repo root
	PreserveOriginalIn string `yaml:"preserve_original_in"` // empty disables it
}

// UsageConfig controls where rule usage is persisted.
type UsageConfig struct {
	LogFile string `yaml:"log_file"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a payeeclean.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadRepo reads the config at the root of repoRoot.
func LoadRepo(repoRoot string) (*Config, error) {
	return Load(filepath.Join(repoRoot, FileName))
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(name string) *Config {
	return &Config{
		Name: name,
		Import: ImportConfig{
			Format: "chase",
		},
		Cleanup: CleanupConfig{
			RulesFile:          filepath.Join("rules", "payee-rules.yaml"),
			PreserveOriginalIn: "original-payee",
		},
		Usage: UsageConfig{
			LogFile: filepath.Join("logs", "rule-usage.csv"),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Payee Cleaner",
			AuthorEmail: "payeeclean@localhost",
		},
	}
}

// RulesPath resolves the rules file against repoRoot.
func (c *Config) RulesPath(repoRoot string) string {
	return resolve(repoRoot, c.Cleanup.RulesFile)
}

// UsagePath resolves the usage log against repoRoot.
func (c *Config) UsagePath(repoRoot string) string {
	return resolve(repoRoot, c.Usage.LogFile)
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
