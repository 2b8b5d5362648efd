package cleanup

import (
	"slices"
	"strings"
	"time"
)

// UsageEntry is the last-used date of one extractor.
type UsageEntry struct {
	Date time.Time
	Rule string
}

func (u UsageEntry) String() string {
	return u.Date.Format("2006-01-02") + ": " + u.Rule
}

// Report lists extractor usage, oldest first.
type Report []UsageEntry

func (r Report) String() string {
	lines := make([]string, len(r))
	for i, u := range r {
		lines[i] = u.String()
	}
	return strings.Join(lines, "\n")
}

// Unused returns the entries of extractors that never matched.
func (r Report) Unused() Report {
	var out Report
	for _, u := range r {
		if !u.Date.After(AgesAgo) {
			out = append(out, u)
		}
	}
	return out
}

// Usage reports when each extractor last matched, sorted by date and then
// by description. Extractors that never matched come first.
func Usage(extractors Extractors) Report {
	r := make(Report, 0, len(extractors))
	for _, e := range extractors {
		r = append(r, UsageEntry{Date: e.LastUsed(), Rule: e.Description()})
	}
	slices.SortFunc(r, func(a, b UsageEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Rule, b.Rule)
	})
	return r
}
