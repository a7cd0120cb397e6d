package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/domain/payment"
	"github.com/sales-record-engine/internal/domain/shared"
	"github.com/sales-record-engine/internal/store"
)

// PaymentServiceImpl implements the PaymentService interface
type PaymentServiceImpl struct {
	store     *store.Store
	validator *DraftValidator
	logger    *slog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(logger *slog.Logger, st *store.Store, validator *DraftValidator) PaymentService {
	return &PaymentServiceImpl{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// CreatePayment validates draft, saves the new record and posts its credit
// when an advance was paid. The ledger is left untouched otherwise.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, draft payment.Draft) (payment.Record, *ledger.Entry, error) {
	if err := s.validator.Validate(draft); err != nil {
		s.logger.Warn("Rejected payment draft", "customer_name", draft.CustomerName, "error", err)
		return payment.Record{}, nil, err
	}

	var (
		created payment.Record
		posted  *ledger.Entry
	)
	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		records, err := store.Load[payment.Record](ctx, s.store, shared.CollectionPayments, nil)
		if err != nil {
			return err
		}

		created = payment.Create(records, draft)
		if err := store.Save(ctx, s.store, shared.CollectionPayments, append(records, created)); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		ledgerDraft, ok := payment.LedgerDraft(created)
		if !ok {
			return nil
		}
		entry, err := postEntry(ctx, s.store, ledgerDraft)
		if err != nil {
			s.logger.Error("Payment saved without its ledger credit",
				"payment_id", created.ID,
				"error", err,
			)
			return err
		}
		posted = &entry
		return nil
	})
	if err != nil {
		return payment.Record{}, nil, err
	}

	s.logger.Info("Payment recorded",
		"payment_id", created.ID,
		"customer_name", created.CustomerName,
		"advance_paid", created.AdvancePaid.String(),
		"payment_status", string(created.PaymentStatus),
		"ledger_posted", posted != nil,
	)
	return created, posted, nil
}

// ListPayments returns every payment record in creation order
func (s *PaymentServiceImpl) ListPayments(ctx context.Context) ([]payment.Record, error) {
	return store.Load[payment.Record](ctx, s.store, shared.CollectionPayments, nil)
}

// GetPayment retrieves a payment record by its ID
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, id string) (payment.Record, error) {
	records, err := s.ListPayments(ctx)
	if err != nil {
		return payment.Record{}, err
	}
	r, err := payment.Find(records, id)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		s.logger.Info("Payment not found", "payment_id", id)
	}
	return r, err
}
