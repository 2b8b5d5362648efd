package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFlag marks transactions that still need a human look.
const DefaultFlag = "!"

// Transaction is an imported record whose payee gets cleaned up.
// Treat it as a value: the With* methods return modified copies and never
// touch the receiver's tags or metadata.
type Transaction struct {
	Date      time.Time
	Flag      string
	Payee     string
	Narration string
	Amount    decimal.Decimal
	Tags      Tags
	Meta      Meta
}

// NewTransaction returns a Transaction with a trimmed payee and the default flag.
func NewTransaction(date time.Time, payee string) Transaction {
	return Transaction{
		Date:  date,
		Flag:  DefaultFlag,
		Payee: strings.TrimSpace(payee),
	}
}

// WithPayee returns a copy of t with the payee replaced.
func (t Transaction) WithPayee(payee string) Transaction {
	t.Payee = payee
	return t
}

// WithTags returns a copy of t with the tag set replaced.
func (t Transaction) WithTags(tags Tags) Transaction {
	t.Tags = tags
	return t
}

// WithMeta returns a copy of t with the metadata replaced.
func (t Transaction) WithMeta(meta Meta) Transaction {
	t.Meta = meta
	return t
}

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// BankRefKey is the metadata key holding the bank's own reference.
const BankRefKey = "bank-ref"

// ToTransaction converts a bank row into a Transaction ready for cleanup.
func (b BankTransaction) ToTransaction() Transaction {
	txn := NewTransaction(b.Date, b.Description)
	txn.Narration = b.Type
	txn.Amount = b.Amount
	if b.Reference != "" {
		txn.Meta = txn.Meta.Set(BankRefKey, b.Reference)
	}
	return txn
}
