package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrEntryNotFound indicates no ledger entry carries the requested ID
var ErrEntryNotFound = errors.New("ledger: entry not found")

// ErrBalanceMismatch reports the first entry whose stored balance does not
// follow from the previous balance and its own debit and credit.
type ErrBalanceMismatch struct {
	Index   int
	EntryID string
	Want    decimal.Decimal
	Got     decimal.Decimal
}

func (e ErrBalanceMismatch) Error() string {
	return fmt.Sprintf("ledger: balance mismatch at entry %d (%s): want %s, got %s",
		e.Index, e.EntryID, e.Want.String(), e.Got.String())
}

// Is implements the errors.Is interface for ErrBalanceMismatch
func (e ErrBalanceMismatch) Is(target error) bool {
	t, ok := target.(ErrBalanceMismatch)
	if !ok {
		return false
	}
	// An empty target EntryID matches any mismatch
	if t.EntryID == "" {
		return true
	}
	return e.EntryID == t.EntryID
}
