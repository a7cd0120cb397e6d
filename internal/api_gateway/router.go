package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sales-record-engine/internal/api_gateway/handler"
	"github.com/sales-record-engine/internal/api_gateway/middleware"
)

type handlers struct {
	booking *handler.BookingHandler
	payment *handler.PaymentHandler
	ledger  *handler.LedgerHandler
	change  *handler.ChangeHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers) {
	// Correlation ID first so the logger and recovery can both report it
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	v1 := r.Group("/api/v1")
	{
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", h.booking.Create)
			bookings.GET("", h.booking.List)
			bookings.GET("/:id", h.booking.GetByID)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", h.payment.Create)
			payments.GET("", h.payment.List)
			payments.GET("/:id", h.payment.GetByID)
		}

		ledger := v1.Group("/ledger")
		{
			ledger.GET("", h.ledger.List)
			ledger.GET("/balance", h.ledger.Balance)
			ledger.GET("/verify", h.ledger.Verify)
			ledger.GET("/entries/:id", h.ledger.GetByID)
			ledger.GET("/references/:id", h.ledger.ByReference)
		}

		v1.GET("/changes", h.change.Stream)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
