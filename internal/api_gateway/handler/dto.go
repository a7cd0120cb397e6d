package handler

import (
	"github.com/shopspring/decimal"

	"github.com/sales-record-engine/internal/domain/booking"
	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/domain/payment"
)

// CreateBookingRequest represents a request to create a new booking.
// Amounts accept JSON strings or numbers. Range and date rules are enforced
// by the booking service.
type CreateBookingRequest struct {
	CustomerName string           `json:"customerName" binding:"required"`
	BookingDate  string           `json:"bookingDate" binding:"required"`
	DeliveryDate string           `json:"deliveryDate" binding:"required"`
	ProductType  string           `json:"productType" binding:"required"`
	Quantity     int              `json:"quantity"`
	Rate         decimal.Decimal  `json:"rate"`
	TotalAmount  *decimal.Decimal `json:"totalAmount,omitempty"`
}

func (r CreateBookingRequest) draft() booking.Draft {
	return booking.Draft{
		CustomerName: r.CustomerName,
		BookingDate:  r.BookingDate,
		DeliveryDate: r.DeliveryDate,
		ProductType:  r.ProductType,
		Quantity:     r.Quantity,
		Rate:         r.Rate,
		TotalAmount:  r.TotalAmount,
	}
}

// CreateBookingResponse is the booking together with the debit it posted
type CreateBookingResponse struct {
	Booking     booking.Booking `json:"booking"`
	LedgerEntry ledger.Entry    `json:"ledgerEntry"`
}

// CreatePaymentRequest represents a request to record a payment
type CreatePaymentRequest struct {
	CustomerName string          `json:"customerName" binding:"required"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	AdvancePaid  decimal.Decimal `json:"advancePaid"`
	PaymentDate  string          `json:"paymentDate" binding:"required"`
	Notes        string          `json:"notes,omitempty" binding:"max=1000"`
}

func (r CreatePaymentRequest) draft() payment.Draft {
	return payment.Draft{
		CustomerName: r.CustomerName,
		TotalAmount:  r.TotalAmount,
		AdvancePaid:  r.AdvancePaid,
		PaymentDate:  r.PaymentDate,
		Notes:        r.Notes,
	}
}

// CreatePaymentResponse is the payment record and, when an advance was paid,
// the credit it posted
type CreatePaymentResponse struct {
	Payment     payment.Record `json:"payment"`
	LedgerEntry *ledger.Entry  `json:"ledgerEntry,omitempty"`
}

// VerifyResponse reports whether the ledger's balance chain is intact
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=50" binding:"min=1,max=500"`
}

// paginate returns the page of items selected by p. Pages past the end are
// empty, however large the page number.
func paginate[T any](items []T, p PaginationParams) []T {
	pages := (len(items) + p.PerPage - 1) / p.PerPage
	if p.Page-1 >= pages {
		return []T{}
	}
	start := (p.Page - 1) * p.PerPage
	end := min(start+p.PerPage, len(items))
	return items[start:end]
}
