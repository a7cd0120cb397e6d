// Package sales runs the load, compute and save cycles that keep bookings,
// payments and the ledger consistent with each other.
package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sales-record-engine/internal/domain/booking"
	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/domain/payment"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	// CreateBooking persists a booking and posts its debit to the ledger
	// Returns ErrInvalidDraft if the draft breaks a precondition
	CreateBooking(ctx context.Context, draft booking.Draft) (booking.Booking, ledger.Entry, error)

	// ListBookings returns every booking in creation order
	ListBookings(ctx context.Context) ([]booking.Booking, error)

	// GetBooking retrieves a booking by its ID
	// Returns booking.ErrBookingNotFound if the booking doesn't exist
	GetBooking(ctx context.Context, id string) (booking.Booking, error)
}

// PaymentService defines the interface for payment operations
type PaymentService interface {
	// CreatePayment persists a payment record and, when an advance was paid,
	// posts its credit to the ledger. The entry is nil when nothing was posted.
	// Returns ErrInvalidDraft if the draft breaks a precondition
	CreatePayment(ctx context.Context, draft payment.Draft) (payment.Record, *ledger.Entry, error)

	// ListPayments returns every payment record in creation order
	ListPayments(ctx context.Context) ([]payment.Record, error)

	// GetPayment retrieves a payment record by its ID
	// Returns payment.ErrPaymentNotFound if the record doesn't exist
	GetPayment(ctx context.Context, id string) (payment.Record, error)
}

// LedgerService defines the read side of the ledger
type LedgerService interface {
	ListEntries(ctx context.Context) ([]ledger.Entry, error)
	GetEntry(ctx context.Context, id string) (ledger.Entry, error)
	Balance(ctx context.Context) (Summary, error)
	EntriesFor(ctx context.Context, referenceID string) ([]ledger.Entry, error)
	// Verify returns a ledger.ErrBalanceMismatch at the first broken link of the balance chain
	Verify(ctx context.Context) error
}

// Summary is the current state of the ledger
type Summary struct {
	Balance     decimal.Decimal `json:"balance"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Entries     int             `json:"entries"`
}
