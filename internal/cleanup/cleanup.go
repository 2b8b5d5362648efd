// Package cleanup normalizes transaction payees with an ordered list of
// regular expression extractors, moving what they find into tags and metadata.
package cleanup

import "github.com/cleared-dev/payeeclean/internal/model"

type cleanOptions struct {
	preserveOriginalIn string
}

// CleanOption configures Clean.
type CleanOption func(*cleanOptions)

// PreserveOriginalIn stores the original payee under metadata key when the
// payee was changed. The write happens after all extractors ran and replaces
// any value an extractor put under the same key.
func PreserveOriginalIn(key string) CleanOption {
	return func(o *cleanOptions) { o.preserveOriginalIn = key }
}

// Clean runs one pass of extractors over txn and returns the result.
//
// Extractors are tried in order, each against the payee as left by the
// previous ones. A matching extractor is touched with the transaction date
// and then runs its actions in order. If the metadata changed, the returned
// metadata is sorted by key. txn itself is never modified.
func Clean(txn model.Transaction, extractors Extractors, opts ...CleanOption) model.Transaction {
	if len(extractors) == 0 || txn.Payee == "" {
		return txn
	}

	var o cleanOptions
	for _, opt := range opts {
		opt(&o)
	}

	oldPayee := txn.Payee
	oldMeta := txn.Meta

	for _, e := range extractors {
		m, ok := e.Find(txn.Payee)
		if !ok {
			continue
		}
		e.Touch(txn.Date)
		for _, a := range e.actions {
			txn = a.Execute(m, txn)
		}
	}

	if o.preserveOriginalIn != "" && txn.Payee != oldPayee {
		txn = txn.WithMeta(txn.Meta.Set(o.preserveOriginalIn, oldPayee))
	}
	if !txn.Meta.Equal(oldMeta) {
		txn = txn.WithMeta(txn.Meta.Sorted())
	}
	return txn
}
