package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sales-record-engine/internal/domain/booking"
	"github.com/sales-record-engine/internal/domain/ledger"
	"github.com/sales-record-engine/internal/domain/payment"
	"github.com/sales-record-engine/internal/sales"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, draft booking.Draft) (booking.Booking, ledger.Entry, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(booking.Booking), args.Get(1).(ledger.Entry), args.Error(2)
}

func (m *MockBookingService) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (booking.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(booking.Booking), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, draft payment.Draft) (payment.Record, *ledger.Entry, error) {
	args := m.Called(ctx, draft)
	var entry *ledger.Entry
	if e := args.Get(1); e != nil {
		entry = e.(*ledger.Entry)
	}
	return args.Get(0).(payment.Record), entry, args.Error(2)
}

func (m *MockPaymentService) ListPayments(ctx context.Context) ([]payment.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Record), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, id string) (payment.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(payment.Record), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockLedgerService) GetEntry(ctx context.Context, id string) (ledger.Entry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.Entry), args.Error(1)
}

func (m *MockLedgerService) Balance(ctx context.Context) (sales.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(sales.Summary), args.Error(1)
}

func (m *MockLedgerService) EntriesFor(ctx context.Context, ref string) ([]ledger.Entry, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockLedgerService) Verify(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// decodeData unmarshals the envelope and then its data field into out
func decodeData(t *testing.T, body []byte, out any) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	if out != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return resp
}
