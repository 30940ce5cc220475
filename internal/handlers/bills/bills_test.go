package bills

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

var testNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

type mockBillService struct {
	mock.Mock
}

func (m *mockBillService) List(ctx context.Context, filter bill.BillFilter) (*bill.BillListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*bill.BillListResult)
	return r, args.Error(1)
}

func (m *mockBillService) Get(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*bill.Bill)
	return b, args.Error(1)
}

func (m *mockBillService) Create(ctx context.Context, create bill.BillCreate) (*bill.Bill, error) {
	args := m.Called(ctx, create)
	b, _ := args.Get(0).(*bill.Bill)
	return b, args.Error(1)
}

func (m *mockBillService) Update(ctx context.Context, id uuid.UUID, update bill.BillUpdate, updatedBy *uuid.UUID) (*bill.Bill, error) {
	args := m.Called(ctx, id, update, updatedBy)
	b, _ := args.Get(0).(*bill.Bill)
	return b, args.Error(1)
}

func (m *mockBillService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBillService) Now() time.Time {
	return testNow
}

func newTestAPI(t *testing.T, svc billService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc, logrus.New()).Register(api)
	return api
}

func testBill(status bill.Status, due time.Time) *bill.Bill {
	fundID := uuid.Must(uuid.NewV4())
	return &bill.Bill{
		ID:        uuid.Must(uuid.NewV4()),
		Vendor:    "City Power",
		Amount:    decimal.RequireFromString("120.40"),
		DueDate:   due,
		Status:    status,
		FundID:    &fundID,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func TestHTTP_ListBills_DerivesOverdue(t *testing.T) {
	late := testBill(bill.StatusPending, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC))
	today := testBill(bill.StatusPending, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	paid := testBill(bill.StatusPaid, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))

	mockSvc := new(mockBillService)
	mockSvc.On("List", mock.Anything, bill.BillFilter{}).Return(&bill.BillListResult{
		Bills: []*bill.Bill{late, today, paid},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/bills")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListBillsOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Bills, 3)
	assert.Equal(t, "overdue", body.Body.Bills[0].Status)
	assert.Equal(t, "pending", body.Body.Bills[1].Status)
	assert.Equal(t, "paid", body.Body.Bills[2].Status)
}

func TestHTTP_ListBills_StatusFilter(t *testing.T) {
	mockSvc := new(mockBillService)
	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f bill.BillFilter) bool {
		return f.Status != nil && *f.Status == bill.StatusOverdue
	})).Return(&bill.BillListResult{}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/bills?status=overdue")

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateBill(t *testing.T) {
	b := testBill(bill.StatusPending, testNow)
	mockSvc := new(mockBillService)
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(c bill.BillCreate) bool {
		return c.Vendor == "City Power" && c.Amount.Equal(decimal.RequireFromString("120.4")) &&
			c.DueDate.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) && c.FundID != nil
	})).Return(b, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/bills", map[string]any{
		"vendor":   "City Power",
		"amount":   "120.40",
		"due_date": "2025-06-30",
		"fund_id":  b.FundID.String(),
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateBill_InvalidDueDate(t *testing.T) {
	mockSvc := new(mockBillService)

	resp := newTestAPI(t, mockSvc).Post("/api/bills", map[string]any{
		"vendor":   "City Power",
		"amount":   10,
		"due_date": "next tuesday",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestHTTP_UpdateBill_MarkPaid(t *testing.T) {
	b := testBill(bill.StatusPaid, testNow)
	mockSvc := new(mockBillService)
	mockSvc.On("Update", mock.Anything, b.ID, mock.MatchedBy(func(u bill.BillUpdate) bool {
		s, ok := u.Status.Get()
		return ok && s == bill.StatusPaid && !u.Amount.IsSet() && !u.FundID.IsSet()
	}), (*uuid.UUID)(nil)).Return(b, nil)

	resp := newTestAPI(t, mockSvc).Put("/api/bills", map[string]any{
		"id":     b.ID.String(),
		"status": "paid",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateBill_ClearFund(t *testing.T) {
	b := testBill(bill.StatusPending, testNow)
	mockSvc := new(mockBillService)
	mockSvc.On("Update", mock.Anything, b.ID, mock.MatchedBy(func(u bill.BillUpdate) bool {
		f, ok := u.FundID.Get()
		return ok && f == nil
	}), mock.Anything).Return(b, nil)

	resp := newTestAPI(t, mockSvc).Put("/api/bills", map[string]any{
		"id":      b.ID.String(),
		"fund_id": "",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateBill_PayWithoutFund(t *testing.T) {
	mockSvc := new(mockBillService)
	mockSvc.On("Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, actions.ErrBillFundRequired)

	resp := newTestAPI(t, mockSvc).Put("/api/bills", map[string]any{
		"id":     uuid.Must(uuid.NewV4()).String(),
		"status": "paid",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_DeleteBill(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockBillService)
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/api/bills?id=" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
}
