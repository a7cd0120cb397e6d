// Package ledger holds the sales ledger entries and is the only place
// running-balance arithmetic happens.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sales-record-engine/internal/domain/ident"
)

// Append returns a new sequence with an entry built from draft added at the end.
// The input slice is never modified.
func Append(entries []Entry, draft Draft) []Entry {
	ids := make(ident.Set, len(entries))
	for _, e := range entries {
		ids[e.ID] = struct{}{}
	}

	entry := Entry{
		ID:          ident.Allocate(ident.PrefixLedger, ids),
		Date:        draft.Date,
		Particulars: draft.Particulars,
		Debit:       draft.Debit,
		Credit:      draft.Credit,
		Balance:     Balance(entries).Add(draft.Debit).Sub(draft.Credit),
		ReferenceID: draft.ReferenceID,
	}

	next := make([]Entry, len(entries), len(entries)+1)
	copy(next, entries)
	return append(next, entry)
}

// Balance returns the running balance after the last entry, or zero for an empty ledger
func Balance(entries []Entry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	return entries[len(entries)-1].Balance
}

// Totals sums every debit and credit in the ledger
func Totals(entries []Entry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// ByReference returns the entries whose ReferenceID equals ref, in ledger order
func ByReference(entries []Entry, ref string) []Entry {
	var matched []Entry
	for _, e := range entries {
		if ref != "" && e.ReferenceID == ref {
			matched = append(matched, e)
		}
	}
	return matched
}

// Find returns the entry with the given ID
func Find(entries []Entry, id string) (Entry, error) {
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

// Verify recomputes the balance chain and returns ErrBalanceMismatch at the
// first entry that breaks it.
func Verify(entries []Entry) error {
	prev := decimal.Zero
	for i, e := range entries {
		want := prev.Add(e.Debit).Sub(e.Credit)
		if !want.Equal(e.Balance) {
			return ErrBalanceMismatch{Index: i, EntryID: e.ID, Want: want, Got: e.Balance}
		}
		prev = e.Balance
	}
	return nil
}
