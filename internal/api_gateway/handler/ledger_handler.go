package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/sales"
)

// LedgerHandler serves the read side of the ledger
type LedgerHandler struct {
	ledgerService sales.LedgerService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService sales.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// List returns a page of ledger entries in posting order
func (h *LedgerHandler) List(c *gin.Context) {
	var p PaginationParams
	if err := c.ShouldBindQuery(&p); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list ledger entries", "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, paginate(entries, p), p, len(entries))
}

// GetByID returns one ledger entry, or 404 when no entry has the ID
func (h *LedgerHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			RespondNotFound(c, "Ledger entry not found")
			return
		}
		h.logger.Error("Failed to get ledger entry", "id", id, "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, entry)
}

// Balance returns the running balance and totals
func (h *LedgerHandler) Balance(c *gin.Context) {
	summary, err := h.ledgerService.Balance(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute ledger balance", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, summary)
}

// Verify checks the balance chain, answering 409 at the first broken entry
func (h *LedgerHandler) Verify(c *gin.Context) {
	err := h.ledgerService.Verify(c.Request.Context())
	if err != nil {
		var mismatch ledger.ErrBalanceMismatch
		if errors.As(err, &mismatch) {
			RespondConflict(c, fmt.Sprintf("Balance chain broken at entry %s: expected %s, found %s",
				mismatch.EntryID, mismatch.Want.String(), mismatch.Got.String()))
			return
		}
		h.logger.Error("Failed to verify ledger", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, VerifyResponse{Valid: true})
}

// ByReference returns the entries posted for a booking or payment
func (h *LedgerHandler) ByReference(c *gin.Context) {
	ref := c.Param("id")
	entries, err := h.ledgerService.EntriesFor(c.Request.Context(), ref)
	if err != nil {
		h.logger.Error("Failed to get ledger entries by reference", "reference_id", ref, "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, entries)
}
