// Package booking defines sales bookings and the pure rules for creating them.
package booking

import (
	"github.com/shopspring/decimal"

	"github.com/sales-record-engine/internal/domain/ident"
	"github.com/sales-record-engine/internal/domain/ledger"
)

// Booking is a commitment to deliver a quantity of product at a rate.
// Bookings are never updated once created.
type Booking struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	BookingDate  string          `json:"bookingDate"`
	DeliveryDate string          `json:"deliveryDate"`
	ProductType  string          `json:"productType"`
	Quantity     int             `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// Draft holds the caller-supplied fields of a new booking.
// TotalAmount overrides Quantity*Rate when set.
type Draft struct {
	CustomerName string           `json:"customerName" validate:"required"`
	BookingDate  string           `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	DeliveryDate string           `json:"deliveryDate" validate:"required,datetime=2006-01-02"`
	ProductType  string           `json:"productType" validate:"required"`
	Quantity     int              `json:"quantity" validate:"gte=0"`
	Rate         decimal.Decimal  `json:"rate" validate:"gte=0"`
	TotalAmount  *decimal.Decimal `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
}

// ParticularsPrefix starts the particulars of every booking debit
const ParticularsPrefix = "Booking - "

// Create builds the booking described by draft, allocating the lowest free
// BKG- identifier among existing. It performs no validation.
func Create(existing []Booking, draft Draft) Booking {
	ids := make(ident.Set, len(existing))
	for _, b := range existing {
		ids[b.ID] = struct{}{}
	}

	total := decimal.NewFromInt(int64(draft.Quantity)).Mul(draft.Rate)
	if draft.TotalAmount != nil {
		total = *draft.TotalAmount
	}

	return Booking{
		ID:           ident.Allocate(ident.PrefixBooking, ids),
		CustomerName: draft.CustomerName,
		BookingDate:  draft.BookingDate,
		DeliveryDate: draft.DeliveryDate,
		ProductType:  draft.ProductType,
		Quantity:     draft.Quantity,
		Rate:         draft.Rate,
		TotalAmount:  total,
	}
}

// LedgerDraft is the debit every booking posts to the ledger
func LedgerDraft(b Booking) ledger.Draft {
	return ledger.Draft{
		Date:        b.BookingDate,
		Particulars: ParticularsPrefix + b.CustomerName,
		Debit:       b.TotalAmount,
		ReferenceID: b.ID,
	}
}
