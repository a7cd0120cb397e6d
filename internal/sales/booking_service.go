package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sales-record-engine/internal/domain/booking"
	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/domain/shared"
	"github.com/sales-record-engine/internal/store"
)

// BookingServiceImpl implements the BookingService interface
type BookingServiceImpl struct {
	store     *store.Store
	validator *DraftValidator
	logger    *slog.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(logger *slog.Logger, st *store.Store, validator *DraftValidator) BookingService {
	return &BookingServiceImpl{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// CreateBooking validates draft, saves the new booking and posts its debit.
// If the ledger write fails after the booking was saved the booking stays
// persisted and the error is returned.
func (s *BookingServiceImpl) CreateBooking(ctx context.Context, draft booking.Draft) (booking.Booking, ledger.Entry, error) {
	if err := s.validator.Validate(draft); err != nil {
		s.logger.Warn("Rejected booking draft", "customer_name", draft.CustomerName, "error", err)
		return booking.Booking{}, ledger.Entry{}, err
	}

	var (
		created booking.Booking
		posted  ledger.Entry
	)
	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		bookings, err := store.Load[booking.Booking](ctx, s.store, shared.CollectionBookings, nil)
		if err != nil {
			return err
		}

		created = booking.Create(bookings, draft)
		if err := store.Save(ctx, s.store, shared.CollectionBookings, append(bookings, created)); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}

		posted, err = postEntry(ctx, s.store, booking.LedgerDraft(created))
		if err != nil {
			s.logger.Error("Booking saved without its ledger debit",
				"booking_id", created.ID,
				"error", err,
			)
			return err
		}
		return nil
	})
	if err != nil {
		return booking.Booking{}, ledger.Entry{}, err
	}

	s.logger.Info("Booking created",
		"booking_id", created.ID,
		"customer_name", created.CustomerName,
		"total_amount", created.TotalAmount.String(),
		"ledger_entry_id", posted.ID,
	)
	return created, posted, nil
}

// ListBookings returns every booking in creation order
func (s *BookingServiceImpl) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	return store.Load[booking.Booking](ctx, s.store, shared.CollectionBookings, nil)
}

// GetBooking retrieves a booking by its ID
func (s *BookingServiceImpl) GetBooking(ctx context.Context, id string) (booking.Booking, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return booking.Booking{}, err
	}
	b, err := booking.Find(bookings, id)
	if errors.Is(err, booking.ErrBookingNotFound) {
		s.logger.Info("Booking not found", "booking_id", id)
	}
	return b, err
}
