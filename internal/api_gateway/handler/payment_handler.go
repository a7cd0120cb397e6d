package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sales-record-engine/internal/domain/payment"
	"github.com/sales-record-engine/internal/sales"
)

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentService sales.PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService sales.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create records a payment and returns it with the credit it posted, if any
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, entry, err := h.paymentService.CreatePayment(c.Request.Context(), req.draft())
	if err != nil {
		respondCreateError(c, h.logger, err)
		return
	}

	RespondCreated(c, CreatePaymentResponse{Payment: record, LedgerEntry: entry})
}

// List returns a page of payment records in creation order
func (h *PaymentHandler) List(c *gin.Context) {
	var p PaginationParams
	if err := c.ShouldBindQuery(&p); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, err := h.paymentService.ListPayments(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list payments", "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, paginate(records, p), p, len(records))
}

// GetByID returns one payment record, or 404 when none has the ID
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	record, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			RespondNotFound(c, "Payment not found")
			return
		}
		h.logger.Error("Failed to get payment", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, record)
}
