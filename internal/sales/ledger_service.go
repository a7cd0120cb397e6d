package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/domain/shared"
	"github.com/sales-record-engine/internal/store"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLedgerService creates a new ledger read service
func NewLedgerService(logger *slog.Logger, st *store.Store) LedgerService {
	return &LedgerServiceImpl{
		store:  st,
		logger: logger,
	}
}

// ListEntries returns the whole ledger in posting order
func (s *LedgerServiceImpl) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	return loadLedger(ctx, s.store)
}

// GetEntry retrieves a ledger entry by its ID
func (s *LedgerServiceImpl) GetEntry(ctx context.Context, id string) (ledger.Entry, error) {
	entries, err := loadLedger(ctx, s.store)
	if err != nil {
		return ledger.Entry{}, err
	}
	e, err := ledger.Find(entries, id)
	if errors.Is(err, ledger.ErrEntryNotFound) {
		s.logger.Info("Ledger entry not found", "entry_id", id)
	}
	return e, err
}

// Balance summarizes the ledger
func (s *LedgerServiceImpl) Balance(ctx context.Context) (Summary, error) {
	entries, err := loadLedger(ctx, s.store)
	if err != nil {
		return Summary{}, err
	}
	debit, credit := ledger.Totals(entries)
	return Summary{
		Balance:     ledger.Balance(entries),
		TotalDebit:  debit,
		TotalCredit: credit,
		Entries:     len(entries),
	}, nil
}

// EntriesFor returns the entries posted on behalf of a booking or payment
func (s *LedgerServiceImpl) EntriesFor(ctx context.Context, referenceID string) ([]ledger.Entry, error) {
	entries, err := loadLedger(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return ledger.ByReference(entries, referenceID), nil
}

// Verify recomputes the balance chain of the persisted ledger
func (s *LedgerServiceImpl) Verify(ctx context.Context) error {
	entries, err := loadLedger(ctx, s.store)
	if err != nil {
		return err
	}
	if err := ledger.Verify(entries); err != nil {
		var mismatch ledger.ErrBalanceMismatch
		if errors.As(err, &mismatch) {
			s.logger.Warn("Ledger balance chain is broken",
				"index", mismatch.Index,
				"entry_id", mismatch.EntryID,
				"want", mismatch.Want.String(),
				"got", mismatch.Got.String(),
			)
		}
		return err
	}
	return nil
}

func loadLedger(ctx context.Context, st *store.Store) ([]ledger.Entry, error) {
	return store.Load[ledger.Entry](ctx, st, shared.CollectionLedger, nil)
}

// postEntry appends draft to the persisted ledger and returns the posted entry.
// Callers hold the store's writer lock.
func postEntry(ctx context.Context, st *store.Store, draft ledger.Draft) (ledger.Entry, error) {
	entries, err := loadLedger(ctx, st)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to post ledger entry: %w", err)
	}

	entries = ledger.Append(entries, draft)
	if err := store.Save(ctx, st, shared.CollectionLedger, entries); err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to post ledger entry: %w", err)
	}
	return entries[len(entries)-1], nil
}
