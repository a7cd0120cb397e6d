package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sales-record-engine/internal/domain/booking"
	"github.com/sales-record-engine/internal/sales"
)

// BookingHandler handles HTTP requests for booking operations
type BookingHandler struct {
	bookingService sales.BookingService
	logger         *slog.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(logger *slog.Logger, bookingService sales.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// Create records a booking and returns it with the debit it posted
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	b, entry, err := h.bookingService.CreateBooking(c.Request.Context(), req.draft())
	if err != nil {
		respondCreateError(c, h.logger, err)
		return
	}

	RespondCreated(c, CreateBookingResponse{Booking: b, LedgerEntry: entry})
}

// List returns a page of bookings in creation order
func (h *BookingHandler) List(c *gin.Context) {
	var p PaginationParams
	if err := c.ShouldBindQuery(&p); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list bookings", "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, paginate(bookings, p), p, len(bookings))
}

// GetByID returns one booking, or 404 when no booking has the ID
func (h *BookingHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	b, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			RespondNotFound(c, "Booking not found")
			return
		}
		h.logger.Error("Failed to get booking", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, b)
}
