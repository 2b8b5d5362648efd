package rules

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var transformers = map[string]func(string) string{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"title": func(s string) string {
		// A Caser keeps state, so each call gets its own.
		return cases.Title(language.Und).String(strings.ToLower(s))
	},
	"trim":            strings.TrimSpace,
	"collapse-spaces": func(s string) string { return strings.Join(strings.Fields(s), " ") },
	"reverse": func(s string) string {
		r := []rune(s)
		slices.Reverse(r)
		return string(r)
	},
}

// Transformers lists the names usable in a rule's transform list.
func Transformers() []string {
	names := make([]string, 0, len(transformers))
	for name := range transformers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chain composes named transformers, applied left to right.
func Chain(names ...string) (func(string) string, error) {
	fns := make([]func(string) string, 0, len(names))
	for _, name := range names {
		fn, ok := transformers[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown transform %q (known: %s)", name, strings.Join(Transformers(), ", "))
		}
		fns = append(fns, fn)
	}
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}, nil
}
