package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cleared-dev/payeeclean/internal/id"
	"github.com/cleared-dev/payeeclean/internal/model"
)

// Service appends cleaned transactions to the monthly ledger files.
type Service struct {
	repoRoot string
}

// NewService creates a ledger Service rooted at repoRoot.
func NewService(repoRoot string) *Service {
	return &Service{repoRoot: repoRoot}
}

type monthKey struct{ year, month int }

// Append assigns entry IDs to txns and appends them to the ledger file of
// their month. IDs are returned in input order.
func (s *Service) Append(txns []model.Transaction) ([]string, error) {
	byMonth := make(map[monthKey][]int)
	var months []monthKey
	for i, txn := range txns {
		k := monthKey{txn.Date.Year(), int(txn.Date.Month())}
		if _, ok := byMonth[k]; !ok {
			months = append(months, k)
		}
		byMonth[k] = append(byMonth[k], i)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].year != months[j].year {
			return months[i].year < months[j].year
		}
		return months[i].month < months[j].month
	})

	ids := make([]string, len(txns))
	for _, k := range months {
		seq, err := s.NextEntrySeq(k.year, k.month)
		if err != nil {
			return nil, err
		}

		idx := byMonth[k]
		entries := make([]Entry, len(idx))
		for j, i := range idx {
			ids[i] = id.FormatEntryID(k.year, k.month, seq+j)
			entries[j] = Entry{ID: ids[i], Transaction: txns[i]}
		}

		if err := s.appendMonth(k.year, k.month, entries); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Service) appendMonth(year, month int, entries []Entry) error {
	path := s.MonthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, entries); err != nil {
		return fmt.Errorf("appending entries: %w", err)
	}
	return nil
}

// ReadMonth reads all entries for a given year/month. A missing file yields no entries.
func (s *Service) ReadMonth(year, month int) ([]Entry, error) {
	path := s.MonthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return entries, nil
}

// NextEntrySeq returns the next available sequence number for a month.
func (s *Service) NextEntrySeq(year, month int) (int, error) {
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return id.NextSeq(ids), nil
}

// MonthPath returns <repo>/<YYYY>/<MM>/ledger.csv.
func (s *Service) MonthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "ledger.csv")
}
