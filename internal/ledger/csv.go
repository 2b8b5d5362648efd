package ledger

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/payeeclean/internal/model"
)

// Header is the CSV header for ledger.csv.
const Header = "entry_id,date,payee,narration,amount,tags,meta"

const (
	numFields    = 7
	dateFormat   = "2006-01-02"
	colEntryID   = 0
	colDate      = 1
	colPayee     = 2
	colNarration = 3
	colAmount    = 4
	colTags      = 5
	colMeta      = 6
)

// Entry is a cleaned transaction as stored in the ledger.
type Entry struct {
	ID string
	model.Transaction
}

// ReadEntries reads all entries from a ledger.csv reader.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	var entries []Entry
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ledger CSV: %w", err)
		}
		if row == 1 {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a ledger.csv writer (including header).
func WriteEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeRows(cw, entries, 2); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendEntries appends entries to an existing ledger.csv writer (no header).
func AppendEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := writeRows(cw, entries, 0); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeRows(cw *csv.Writer, entries []Entry, firstRow int) error {
	for i, e := range entries {
		row, err := MarshalEntry(e)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i+firstRow, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+firstRow, err)
		}
	}
	return nil
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) ([]string, error) {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colDate] = e.Date.Format(dateFormat)
	row[colPayee] = e.Payee
	row[colNarration] = e.Narration
	row[colAmount] = e.Amount.StringFixed(2)
	row[colTags] = e.Tags.String()

	if len(e.Meta) > 0 {
		b, err := json.Marshal(e.Meta)
		if err != nil {
			return nil, fmt.Errorf("encoding meta: %w", err)
		}
		row[colMeta] = string(b)
	}
	return row, nil
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var meta model.Meta
	if record[colMeta] != "" {
		if err := json.Unmarshal([]byte(record[colMeta]), &meta); err != nil {
			return Entry{}, fmt.Errorf("parsing meta: %w", err)
		}
	}

	txn := model.NewTransaction(date, record[colPayee])
	txn.Narration = record[colNarration]
	txn.Amount = amount
	txn.Tags = model.ParseTags(record[colTags])
	txn.Meta = meta

	return Entry{ID: record[colEntryID], Transaction: txn}, nil
}
