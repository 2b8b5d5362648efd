package cleanup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUsage_Reporting(t *testing.T) {
	exs := testExtractors(t)
	_ = Clean(ttx("ID29381 Grooveshark subscription"), exs)

	want := `1900-01-01: extract '^XY1234', add id=XY1234 to metadata
1900-01-01: match '12.34 ABC@ 0.13 ', extract abc, run it through the lookup table, no replacement
1900-01-01: match '@ 0.13$', replace with ' (0.13 each)', no extraction
1900-01-01: match '^GTS1234', add id=v-1234 to metadata, replace 'GTS1234' with '4321'
2071-03-14: extract '^ID1234', lowercase it, add id=id1234 to metadata`
	assert.Equal(t, want, Usage(exs).String())
}

func TestUsage_KeepsLatestDate(t *testing.T) {
	exs := testExtractors(t)
	late := time.Date(2071, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{testDate, late, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)} {
		txn := ttx("XY90210 Happy Days")
		txn.Date = d
		_ = Clean(txn, exs)
	}

	r := Usage(exs)
	last := r[len(r)-1]
	assert.Equal(t, late, last.Date)
	assert.Equal(t, "extract '^XY1234', add id=XY1234 to metadata", last.Rule)
}

func TestReport_Unused(t *testing.T) {
	exs := testExtractors(t)
	_ = Clean(ttx("GTS1 saver"), exs)
	unused := Usage(exs).Unused()
	assert.Len(t, unused, 4)
	for _, u := range unused {
		assert.Equal(t, AgesAgo, u.Date)
	}
}

func TestUsageEntry_String(t *testing.T) {
	u := UsageEntry{Date: time.Date(2025, 1, 3, 15, 4, 5, 0, time.UTC), Rule: "strip card"}
	assert.Equal(t, "2025-01-03: strip card", u.String())
	assert.Equal(t, "", Report(nil).String())
}
