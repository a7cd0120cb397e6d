package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sales-record-engine/internal/domain/booking"
	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/sales"
)

func TestBookingHandler_Create(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(logger, mockService)

		created := booking.Booking{
			ID:           "BKG-001",
			CustomerName: "Acme",
			BookingDate:  "2024-03-01",
			DeliveryDate: "2024-03-10",
			ProductType:  "Cement",
			Quantity:     500,
			Rate:         decimal.NewFromInt(12),
			TotalAmount:  decimal.NewFromInt(6000),
		}
		entry := ledger.Entry{
			ID:          "LDG-001",
			Date:        "2024-03-01",
			Particulars: "Booking - Acme",
			Debit:       decimal.NewFromInt(6000),
			Balance:     decimal.NewFromInt(6000),
			ReferenceID: "BKG-001",
		}
		mockService.On("CreateBooking", mock.Anything, mock.MatchedBy(func(d booking.Draft) bool {
			return d.CustomerName == "Acme" && d.Quantity == 500 &&
				d.Rate.Equal(decimal.NewFromInt(12)) && d.TotalAmount == nil
		})).Return(created, entry, nil)

		router := setupTestRouter()
		router.POST("/bookings", handler.Create)

		body := `{"customerName":"Acme","bookingDate":"2024-03-01","deliveryDate":"2024-03-10","productType":"Cement","quantity":500,"rate":"12"}`
		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got CreateBookingResponse
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "BKG-001", got.Booking.ID)
		assert.True(t, got.Booking.TotalAmount.Equal(decimal.NewFromInt(6000)))
		assert.Equal(t, "LDG-001", got.LedgerEntry.ID)
		assert.Equal(t, "BKG-001", got.LedgerEntry.ReferenceID)
		mockService.AssertExpectations(t)
	})

	t.Run("TotalAmountOverride", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(logger, mockService)

		mockService.On("CreateBooking", mock.Anything, mock.MatchedBy(func(d booking.Draft) bool {
			return d.TotalAmount != nil && d.TotalAmount.Equal(decimal.NewFromInt(5000))
		})).Return(booking.Booking{ID: "BKG-001"}, ledger.Entry{ID: "LDG-001"}, nil)

		router := setupTestRouter()
		router.POST("/bookings", handler.Create)

		body := `{"customerName":"Acme","bookingDate":"2024-03-01","deliveryDate":"2024-03-10","productType":"Cement","quantity":500,"rate":12,"totalAmount":5000}`
		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidRequestBody", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/bookings", handler.Create)

		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{"invalid`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeData(t, rr.Body.Bytes(), nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/bookings", handler.Create)

		body := `{"bookingDate":"2024-03-01","deliveryDate":"2024-03-10","productType":"Cement","quantity":1,"rate":"1"}`
		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(logger, mockService)

		verrs := sales.ValidationErrors{
			{Field: "quantity", Rule: "gte"},
			{Field: "deliveryDate", Rule: "datetime"},
		}
		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(booking.Booking{}, ledger.Entry{}, errors.Join(sales.ErrInvalidDraft, verrs))

		router := setupTestRouter()
		router.POST("/bookings", handler.Create)

		body := `{"customerName":"Acme","bookingDate":"2024-03-01","deliveryDate":"soon","productType":"Cement","quantity":-1,"rate":"1"}`
		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		resp := decodeData(t, rr.Body.Bytes(), nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		assert.ElementsMatch(t, []FieldError{
			{Field: "quantity", Rule: "gte"},
			{Field: "deliveryDate", Rule: "datetime"},
		}, resp.Error.Details)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockBookingService)
		handler := NewBookingHandler(logger, mockService)

		mockService.On("CreateBooking", mock.Anything, mock.Anything).
			Return(booking.Booking{}, ledger.Entry{}, errors.New("backend down"))

		router := setupTestRouter()
		router.POST("/bookings", handler.Create)

		body := `{"customerName":"Acme","bookingDate":"2024-03-01","deliveryDate":"2024-03-10","productType":"Cement","quantity":1,"rate":"1"}`
		req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := decodeData(t, rr.Body.Bytes(), nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
		assert.NotContains(t, rr.Body.String(), "backend down")
	})
}

func TestBookingHandler_List(t *testing.T) {
	logger := testLogger()

	bookings := make([]booking.Booking, 0, 5)
	for _, id := range []string{"BKG-001", "BKG-002", "BKG-003", "BKG-004", "BKG-005"} {
		bookings = append(bookings, booking.Booking{ID: id})
	}

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantIDs   []string
		wantPages int
	}{
		{name: "Defaults", query: "", wantCode: http.StatusOK, wantIDs: []string{"BKG-001", "BKG-002", "BKG-003", "BKG-004", "BKG-005"}, wantPages: 1},
		{name: "SecondPage", query: "?page=2&per_page=2", wantCode: http.StatusOK, wantIDs: []string{"BKG-003", "BKG-004"}, wantPages: 3},
		{name: "PastTheEnd", query: "?page=9&per_page=2", wantCode: http.StatusOK, wantIDs: []string{}, wantPages: 3},
		{name: "HugePage", query: "?page=4611686018427387904&per_page=4", wantCode: http.StatusOK, wantIDs: []string{}, wantPages: 2},
		{name: "PerPageTooLarge", query: "?per_page=501", wantCode: http.StatusBadRequest},
		{name: "PageZero", query: "?page=0", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockBookingService)
			mockService.On("ListBookings", mock.Anything).Return(bookings, nil).Maybe()
			handler := NewBookingHandler(logger, mockService)

			router := setupTestRouter()
			router.GET("/bookings", handler.List)

			req, _ := http.NewRequest(http.MethodGet, "/bookings"+tt.query, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode != http.StatusOK {
				return
			}

			var page []booking.Booking
			resp := decodeData(t, rr.Body.Bytes(), &page)
			ids := make([]string, 0, len(page))
			for _, b := range page {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, 5, resp.Meta.TotalItems)
			assert.Equal(t, tt.wantPages, resp.Meta.TotalPages)
		})
	}

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("ListBookings", mock.Anything).Return(nil, errors.New("boom"))
		handler := NewBookingHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/bookings", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/bookings", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestBookingHandler_GetByID(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetBooking", mock.Anything, "BKG-002").
			Return(booking.Booking{ID: "BKG-002", CustomerName: "Acme"}, nil)
		handler := NewBookingHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/bookings/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/bookings/BKG-002", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got booking.Booking
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "Acme", got.CustomerName)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetBooking", mock.Anything, "BKG-404").
			Return(booking.Booking{}, booking.ErrBookingNotFound)
		handler := NewBookingHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/bookings/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/bookings/BKG-404", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		resp := decodeData(t, rr.Body.Bytes(), nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockBookingService)
		mockService.On("GetBooking", mock.Anything, "BKG-001").
			Return(booking.Booking{}, errors.New("boom"))
		handler := NewBookingHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/bookings/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/bookings/BKG-001", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
