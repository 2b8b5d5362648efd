package cleanup

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrNilAction is returned when an extractor is given a nil action.
var ErrNilAction = errors.New("nil action")

// AgesAgo is the last-used date of an extractor that never matched.
var AgesAgo = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Extractor pairs a pattern with the actions run when the pattern matches a payee.
//
// An Extractor remembers the date of the most recent transaction it matched,
// so it is long-lived configuration rather than a value. It is not safe for
// concurrent use; a batch of transactions is expected to be cleaned sequentially.
type Extractor struct {
	description string
	re          *regexp.Regexp
	actions     []Action
	lastUsed    time.Time
}

// NewExtractor compiles pattern and validates every action's template against it.
func NewExtractor(description, pattern string, actions ...Action) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("extractor %q: compiling pattern: %w", description, err)
	}
	return NewExtractorFromRegexp(description, re, actions...)
}

// NewExtractorFromRegexp is NewExtractor for an already compiled pattern.
func NewExtractorFromRegexp(description string, re *regexp.Regexp, actions ...Action) (*Extractor, error) {
	if re == nil {
		return nil, fmt.Errorf("extractor %q: nil pattern", description)
	}
	for i, a := range actions {
		if a == nil {
			return nil, fmt.Errorf("extractor %q: action %d: %w", description, i, ErrNilAction)
		}
		if err := a.check(re); err != nil {
			return nil, fmt.Errorf("extractor %q: action %d: %w", description, i, err)
		}
	}
	return &Extractor{
		description: description,
		re:          re,
		actions:     append([]Action(nil), actions...),
		lastUsed:    AgesAgo,
	}, nil
}

// MustExtractor is like NewExtractor but panics on error. Use it for static rule tables.
func MustExtractor(description, pattern string, actions ...Action) *Extractor {
	e, err := NewExtractor(description, pattern, actions...)
	if err != nil {
		panic(err)
	}
	return e
}

// Description returns the human readable rule description.
func (e *Extractor) Description() string { return e.description }

// Pattern returns the compiled pattern.
func (e *Extractor) Pattern() *regexp.Regexp { return e.re }

// Actions returns a copy of the extractor's actions.
func (e *Extractor) Actions() []Action { return append([]Action(nil), e.actions...) }

// LastUsed returns the date of the most recent transaction this extractor matched,
// or AgesAgo.
func (e *Extractor) LastUsed() time.Time { return e.lastUsed }

// Touch records that the extractor matched a transaction dated d.
// LastUsed never moves backwards.
func (e *Extractor) Touch(d time.Time) {
	if d.After(e.lastUsed) {
		e.lastUsed = d
	}
}

// Find searches payee for the first occurrence of the pattern.
func (e *Extractor) Find(payee string) (Match, bool) {
	loc := e.re.FindStringSubmatchIndex(payee)
	if loc == nil {
		return Match{}, false
	}
	return Match{re: e.re, text: payee, loc: loc}, true
}

// Extractors is an ordered rule list. Order matters: each extractor sees the
// payee as rewritten by the ones before it.
type Extractors []*Extractor

// Add appends extractors to the list.
func (x *Extractors) Add(e ...*Extractor) {
	*x = append(*x, e...)
}
