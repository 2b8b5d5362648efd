// Package usagelog persists the last-used date of each cleanup rule between runs.
package usagelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/payeeclean/internal/cleanup"
)

// Header is the CSV header for rule-usage.csv.
const Header = "rule,last_used"

const (
	numFields   = 2
	dateFormat  = "2006-01-02"
	colRule     = 0
	colLastUsed = 1
)

// Save rewrites the usage log at path from report. Rules that never matched
// are not written, so rules no longer in the table drop out on the next save.
func Save(path string, report cleanup.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating usage log: %w", err)
	}

	if err := write(f, report); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing usage log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing usage log: %w", err)
	}
	return nil
}

func write(w io.Writer, report cleanup.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, u := range report {
		if !u.Date.After(cleanup.AgesAgo) {
			continue
		}
		row := make([]string, numFields)
		row[colRule] = u.Rule
		row[colLastUsed] = u.Date.Format(dateFormat)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load returns the last-used date per rule description from path.
// A missing file yields an empty map.
func Load(path string) (map[string]time.Time, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]time.Time{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening usage log: %w", err)
	}
	defer f.Close()

	return read(f)
}

func read(r io.Reader) (map[string]time.Time, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading usage log CSV: %w", err)
	}

	out := make(map[string]time.Time)
	if len(records) <= 1 {
		return out, nil
	}
	for i, rec := range records[1:] {
		d, err := time.Parse(dateFormat, rec[colLastUsed])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing last_used %q: %w", i+2, rec[colLastUsed], err)
		}
		if prev, ok := out[rec[colRule]]; !ok || d.After(prev) {
			out[rec[colRule]] = d
		}
	}
	return out, nil
}

// Seed touches each extractor with its recorded last-used date.
// It returns how many extractors had a recorded date.
func Seed(extractors cleanup.Extractors, dates map[string]time.Time) int {
	n := 0
	for _, e := range extractors {
		if d, ok := dates[e.Description()]; ok {
			e.Touch(d)
			n++
		}
	}
	return n
}
