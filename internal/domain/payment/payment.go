// Package payment defines payment records, their derived status, and the pure
// rules for creating them.
package payment

import (
	"github.com/shopspring/decimal"

	"github.com/sales-record-engine/internal/domain/ident"
	"github.com/sales-record-engine/internal/domain/ledger"
)

// Status is derived from the advance paid and the remaining amount
type Status string

const (
	StatusPending       Status = "Pending"
	StatusPartiallyPaid Status = "PartiallyPaid"
	StatusPaid          Status = "Paid"
)

// Record is money received against a total obligation. Records are immutable.
type Record struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	AdvancePaid     decimal.Decimal `json:"advancePaid"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PaymentStatus   Status          `json:"paymentStatus"`
	PaymentDate     string          `json:"paymentDate"`
	Notes           string          `json:"notes,omitempty"`
}

// Draft holds the caller-supplied fields of a new payment record
type Draft struct {
	CustomerName string          `json:"customerName" validate:"required"`
	TotalAmount  decimal.Decimal `json:"totalAmount" validate:"gte=0"`
	AdvancePaid  decimal.Decimal `json:"advancePaid" validate:"gte=0"`
	PaymentDate  string          `json:"paymentDate" validate:"required,datetime=2006-01-02"`
	Notes        string          `json:"notes,omitempty"`
}

// ParticularsPrefix starts the particulars of every payment credit
const ParticularsPrefix = "Payment - "

// Remaining is max(total - advance, 0)
func Remaining(total, advance decimal.Decimal) decimal.Decimal {
	return decimal.Max(total.Sub(advance), decimal.Zero)
}

// DeriveStatus maps the advance paid and remaining amount to a status.
// An advance that is not positive, negative included, means nothing was
// received yet and yields StatusPending whatever the remaining amount.
func DeriveStatus(advance, remaining decimal.Decimal) Status {
	switch {
	case !advance.IsPositive():
		return StatusPending
	case remaining.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusPaid
	}
}

// Create builds the payment record described by draft, allocating the lowest
// free PAY- identifier among existing. It performs no validation.
func Create(existing []Record, draft Draft) Record {
	ids := make(ident.Set, len(existing))
	for _, r := range existing {
		ids[r.ID] = struct{}{}
	}

	remaining := Remaining(draft.TotalAmount, draft.AdvancePaid)

	return Record{
		ID:              ident.Allocate(ident.PrefixPayment, ids),
		CustomerName:    draft.CustomerName,
		TotalAmount:     draft.TotalAmount,
		AdvancePaid:     draft.AdvancePaid,
		RemainingAmount: remaining,
		PaymentStatus:   DeriveStatus(draft.AdvancePaid, remaining),
		PaymentDate:     draft.PaymentDate,
		Notes:           draft.Notes,
	}
}

// LedgerDraft is the credit a payment posts to the ledger.
// It reports false when nothing was paid, in which case no entry is posted.
func LedgerDraft(r Record) (ledger.Draft, bool) {
	if !r.AdvancePaid.IsPositive() {
		return ledger.Draft{}, false
	}
	return ledger.Draft{
		Date:        r.PaymentDate,
		Particulars: ParticularsPrefix + r.CustomerName,
		Credit:      r.AdvancePaid,
		ReferenceID: r.ID,
	}, true
}
