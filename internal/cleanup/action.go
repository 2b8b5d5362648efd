package cleanup

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cleared-dev/payeeclean/internal/model"
)

// Action is one effect an Extractor performs after its pattern matches.
// The set of actions is closed: PayeeAction, TagAction and MetaAction.
type Action interface {
	// Execute returns txn with the action applied, using match data m.
	Execute(m Match, txn model.Transaction) model.Transaction

	check(re *regexp.Regexp) error
}

// Option customizes how an action derives its value.
type Option func(*valueSpec)

// WithValue overrides the action's replacement.
func WithValue(r Replacement) Option {
	return func(v *valueSpec) { v.value = r }
}

// WithTransformer sets a function applied to the derived value.
func WithTransformer(fn func(string) string) Option {
	return func(v *valueSpec) { v.transformer = fn }
}

// ErrTranslationConflict is returned when two translation keys differ only
// in case but map to different values.
var ErrTranslationConflict = errors.New("conflicting translation keys")

// WithTranslation sets a lookup table keyed by the lowercased derived value.
// Keys that collide once lowercased must agree on their value; otherwise the
// extractor using the action fails to build with ErrTranslationConflict.
func WithTranslation(table map[string]string) Option {
	return func(v *valueSpec) {
		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		v.translation = make(map[string]string, len(table))
		seen := make(map[string]string, len(table))
		for _, k := range keys {
			lk := strings.ToLower(k)
			if prev, ok := seen[lk]; ok && table[prev] != table[k] {
				v.err = fmt.Errorf("%w: %q and %q", ErrTranslationConflict, prev, k)
				continue
			}
			seen[lk] = k
			v.translation[lk] = table[k]
		}
	}
}

type valueSpec struct {
	value       Replacement
	transformer func(string) string
	translation map[string]string
	err         error
}

func newValueSpec(def Replacement, opts []Option) valueSpec {
	v := valueSpec{value: def}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// Apply derives the action's value from m: expand, trim, transform, translate.
func (v valueSpec) Apply(m Match) string {
	s := strings.TrimSpace(v.value.expand(m))
	if v.transformer != nil {
		s = v.transformer(s)
	}
	if t, ok := v.translation[strings.ToLower(s)]; ok {
		return t
	}
	return s
}

func (v valueSpec) check(re *regexp.Regexp) error {
	if v.err != nil {
		return v.err
	}
	return v.value.check(re)
}

// PayeeAction rewrites the payee by substituting every match of the
// extractor's pattern with its replacement.
type PayeeAction struct {
	valueSpec
}

// Payee returns an action substituting matches in the payee with r.
func Payee(r Replacement, opts ...Option) *PayeeAction {
	return &PayeeAction{valueSpec: newValueSpec(r, opts)}
}

// Clear returns an action deleting the matched text from the payee.
func Clear() *PayeeAction {
	return Payee(Template(""))
}

// Execute implements Action.
func (a *PayeeAction) Execute(m Match, txn model.Transaction) model.Transaction {
	return txn.WithPayee(strings.TrimSpace(replaceAll(m.re, txn.Payee, a.value)))
}

func (a *PayeeAction) String() string {
	return fmt.Sprintf("payee(%q)", a.value)
}

// TagAction adds the derived value to the tag set.
type TagAction struct {
	valueSpec
}

// Tag returns an action adding a tag derived from r.
func Tag(r Replacement, opts ...Option) *TagAction {
	return &TagAction{valueSpec: newValueSpec(r, opts)}
}

// Execute implements Action.
func (a *TagAction) Execute(m Match, txn model.Transaction) model.Transaction {
	return txn.WithTags(txn.Tags.Add(a.Apply(m)))
}

func (a *TagAction) String() string {
	return fmt.Sprintf("tag(%q)", a.value)
}

// MetaAction stores the derived value under a metadata key. A value already
// present is kept and the new one appended after ", ".
type MetaAction struct {
	valueSpec
	name string
}

// Meta returns an action writing to metadata key name. The value defaults to
// the first capture group.
func Meta(name string, opts ...Option) *MetaAction {
	return &MetaAction{valueSpec: newValueSpec(Template(`\1`), opts), name: name}
}

// Name returns the metadata key.
func (a *MetaAction) Name() string {
	return a.name
}

// Execute implements Action.
func (a *MetaAction) Execute(m Match, txn model.Transaction) model.Transaction {
	v := a.Apply(m)
	if old, ok := txn.Meta.Get(a.name); ok {
		v = old + ", " + v
	}
	return txn.WithMeta(txn.Meta.Set(a.name, v))
}

func (a *MetaAction) String() string {
	return fmt.Sprintf("meta(%s=%q)", a.name, a.value)
}
