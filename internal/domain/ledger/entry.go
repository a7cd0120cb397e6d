package ledger

import (
	"github.com/shopspring/decimal"
)

// Entry is one append-only record in the sales ledger.
// Balance is the running balance after Debit and Credit have been applied.
type Entry struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Particulars string          `json:"particulars"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	ReferenceID string          `json:"referenceId,omitempty"` // Booking or payment that caused the entry
}

// Draft carries the caller-supplied fields of a new entry.
// A zero Debit or Credit is treated as 0.
type Draft struct {
	Date        string
	Particulars string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	ReferenceID string
}
