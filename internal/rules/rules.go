package rules

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/payeeclean/internal/cleanup"
)

// File is the on-disk rule table.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Rule describes one extractor.
type Rule struct {
	Description string       `yaml:"description"`
	Pattern     string       `yaml:"pattern"`
	Actions     []ActionSpec `yaml:"actions"`
}

// ActionSpec describes one action. Exactly one of Payee, Tag, Meta or Clear must be set.
type ActionSpec struct {
	Payee       *string           `yaml:"payee,omitempty"`
	Tag         *string           `yaml:"tag,omitempty"`
	Meta        string            `yaml:"meta,omitempty"`
	Clear       bool              `yaml:"clear,omitempty"`
	Value       *string           `yaml:"value,omitempty"` // meta only, defaults to \1
	Transform   []string          `yaml:"transform,omitempty"`
	Translation map[string]string `yaml:"translation,omitempty"`
}

// Load reads a rule file and builds its extractors.
func Load(path string) (cleanup.Extractors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules: %w", err)
	}
	defer f.Close()

	exs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("loading rules %s: %w", path, err)
	}
	return exs, nil
}

// Parse decodes a rule table and builds its extractors.
func Parse(r io.Reader) (cleanup.Extractors, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return Build(file)
}

// Build turns a rule table into extractors, preserving rule order.
func Build(file File) (cleanup.Extractors, error) {
	exs := make(cleanup.Extractors, 0, len(file.Rules))
	for i, rule := range file.Rules {
		e, err := rule.extractor()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		exs.Add(e)
	}
	return exs, nil
}

// Write encodes a rule table as YAML.
func Write(w io.Writer, file File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return enc.Close()
}

// Save writes a rule table to path.
func Save(path string, file File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating rules file: %w", err)
	}
	defer f.Close()
	return Write(f, file)
}

func (r Rule) extractor() (*cleanup.Extractor, error) {
	if r.Pattern == "" {
		return nil, fmt.Errorf("%q: missing pattern", r.Description)
	}
	desc := r.Description
	if desc == "" {
		desc = r.Pattern
	}

	actions := make([]cleanup.Action, 0, len(r.Actions))
	for j, spec := range r.Actions {
		a, err := spec.action()
		if err != nil {
			return nil, fmt.Errorf("%q: action %d: %w", desc, j+1, err)
		}
		actions = append(actions, a)
	}
	return cleanup.NewExtractor(desc, r.Pattern, actions...)
}

func (s ActionSpec) action() (cleanup.Action, error) {
	kinds := 0
	for _, set := range []bool{s.Payee != nil, s.Tag != nil, s.Meta != "", s.Clear} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.New("exactly one of payee, tag, meta or clear must be set")
	}
	if s.Value != nil && s.Meta == "" {
		return nil, errors.New("value only applies to meta actions")
	}
	if (s.Payee != nil || s.Clear) && (len(s.Transform) > 0 || len(s.Translation) > 0) {
		return nil, errors.New("transform and translation only apply to tag and meta actions")
	}

	var opts []cleanup.Option
	if len(s.Transform) > 0 {
		fn, err := Chain(s.Transform...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cleanup.WithTransformer(fn))
	}
	if len(s.Translation) > 0 {
		opts = append(opts, cleanup.WithTranslation(s.Translation))
	}

	switch {
	case s.Clear:
		return cleanup.Clear(), nil
	case s.Payee != nil:
		return cleanup.Payee(cleanup.Template(*s.Payee)), nil
	case s.Tag != nil:
		return cleanup.Tag(cleanup.Template(*s.Tag), opts...), nil
	default:
		if s.Value != nil {
			opts = append(opts, cleanup.WithValue(cleanup.Template(*s.Value)))
		}
		return cleanup.Meta(s.Meta, opts...), nil
	}
}
