package funds

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

type mockFundService struct {
	mock.Mock
}

func (m *mockFundService) List(ctx context.Context, filter *fund.FundFilter) (*fund.FundListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*fund.FundListResult)
	return r, args.Error(1)
}

func (m *mockFundService) Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*fund.Fund)
	return f, args.Error(1)
}

func (m *mockFundService) Create(ctx context.Context, create fund.FundCreate) (*fund.Fund, error) {
	args := m.Called(ctx, create)
	f, _ := args.Get(0).(*fund.Fund)
	return f, args.Error(1)
}

func (m *mockFundService) Update(ctx context.Context, id uuid.UUID, update fund.FundUpdate, balance *decimal.Decimal, updatedBy *uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, id, update, balance, updatedBy)
	f, _ := args.Get(0).(*fund.Fund)
	return f, args.Error(1)
}

func (m *mockFundService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFundService) Transfer(ctx context.Context, req service.TransferRequest) (*actions.TransferResult, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*actions.TransferResult)
	return r, args.Error(1)
}

func (m *mockFundService) Reconcile(ctx context.Context) ([]service.FundReconciliation, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]service.FundReconciliation)
	return r, args.Error(1)
}

func newTestAPI(t *testing.T, svc fundService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc, logrus.New()).Register(api)
	return api
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e apiutil.ErrorBody
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Message
}

func testFund(name, balance string) *fund.Fund {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &fund.Fund{
		ID:              uuid.Must(uuid.NewV4()),
		Name:            name,
		CurrentBalance:  decimal.RequireFromString(balance),
		StartingBalance: decimal.RequireFromString(balance),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func transferResult(from, to *fund.Fund, amount string) *actions.TransferResult {
	ref := uuid.Must(uuid.NewV4())
	refType := transaction.ReferenceTransfer
	amt := decimal.RequireFromString(amount)
	return &actions.TransferResult{
		ReferenceID: ref,
		From:        *from,
		To:          *to,
		Transactions: []*transaction.Transaction{
			{ID: uuid.Must(uuid.NewV4()), Type: transaction.TypeExpense, Amount: amt, FundID: from.ID, ReferenceID: &ref, ReferenceType: &refType},
			{ID: uuid.Must(uuid.NewV4()), Type: transaction.TypeIncome, Amount: amt, FundID: to.ID, ReferenceID: &ref, ReferenceType: &refType},
		},
	}
}

func TestParseTransferInput_CamelCaseAndHeader(t *testing.T) {
	from := uuid.Must(uuid.NewV4())
	to := uuid.Must(uuid.NewV4())
	var amount apiutil.Amount
	require.NoError(t, json.Unmarshal([]byte(`"300"`), &amount))

	req, err := parseTransferInput(&TransferInput{
		IdempotencyKey: "header-key",
		Body: TransferBody{
			FromFundIDCamel: from.String(),
			ToFundIDCamel:   to.String(),
			Amount:          amount,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, from, req.FromFundID)
	assert.Equal(t, to, req.ToFundID)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "header-key", req.IdempotencyKey)
}

func TestParseTransferInput_MissingFields(t *testing.T) {
	_, err := parseTransferInput(&TransferInput{})
	require.Error(t, err)
	body := err.(*apiutil.ErrorBody)
	assert.Equal(t, http.StatusBadRequest, body.GetStatus())
	assert.Len(t, body.Details, 3)
}

func TestHTTP_Transfer_Success(t *testing.T) {
	a := testFund("General", "700")
	b := testFund("Missions", "800")
	result := transferResult(a, b, "300")

	mockSvc := new(mockFundService)
	mockSvc.On("Transfer", mock.Anything, mock.MatchedBy(func(r service.TransferRequest) bool {
		return r.FromFundID == a.ID && r.ToFundID == b.ID &&
			r.Amount.Equal(decimal.NewFromInt(300)) && r.Description == "rent share"
	})).Return(result, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/funds/transfer", map[string]any{
		"from_fund_id": a.ID.String(),
		"to_fund_id":   b.ID.String(),
		"amount":       300,
		"description":  "rent share",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body TransferResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "700.00", body.FromFund.CurrentBalance)
	assert.Equal(t, "800.00", body.ToFund.CurrentBalance)
	require.Len(t, body.Transactions, 2)
	assert.Equal(t, body.ReferenceID, body.Transactions[0].ReferenceID)
	assert.Equal(t, body.ReferenceID, body.Transactions[1].ReferenceID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Transfer_PatchRouteAcceptsCamelCase(t *testing.T) {
	a := testFund("General", "900")
	b := testFund("Youth", "100")

	mockSvc := new(mockFundService)
	mockSvc.On("Transfer", mock.Anything, mock.MatchedBy(func(r service.TransferRequest) bool {
		return r.FromFundID == a.ID && r.Amount.Equal(decimal.RequireFromString("12.5")) && r.IdempotencyKey == "k1"
	})).Return(transferResult(a, b, "12.50"), nil)

	resp := newTestAPI(t, mockSvc).Patch("/api/funds", "Idempotency-Key: k1", map[string]any{
		"fromFundId": a.ID.String(),
		"toFundId":   b.ID.String(),
		"amount":     "12.50",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Transfer_InsufficientFunds(t *testing.T) {
	mockSvc := new(mockFundService)
	mockSvc.On("Transfer", mock.Anything, mock.Anything).Return(nil, actions.ErrInsufficientFunds)

	resp := newTestAPI(t, mockSvc).Post("/api/funds/transfer", map[string]any{
		"from_fund_id": uuid.Must(uuid.NewV4()).String(),
		"to_fund_id":   uuid.Must(uuid.NewV4()).String(),
		"amount":       150,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Insufficient funds", errorMessage(t, resp.Body.Bytes()))
}

func TestHTTP_Transfer_FundNotFound(t *testing.T) {
	mockSvc := new(mockFundService)
	mockSvc.On("Transfer", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("Source fund"))

	resp := newTestAPI(t, mockSvc).Post("/api/funds/transfer", map[string]any{
		"from_fund_id": uuid.Must(uuid.NewV4()).String(),
		"to_fund_id":   uuid.Must(uuid.NewV4()).String(),
		"amount":       1,
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_Transfer_StorageFailure(t *testing.T) {
	mockSvc := new(mockFundService)
	mockSvc.On("Transfer", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	resp := newTestAPI(t, mockSvc).Post("/api/funds/transfer", map[string]any{
		"from_fund_id": uuid.Must(uuid.NewV4()).String(),
		"to_fund_id":   uuid.Must(uuid.NewV4()).String(),
		"amount":       1,
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "connection reset")
}

func TestHTTP_Transfer_GarbageAmount(t *testing.T) {
	mockSvc := new(mockFundService)

	resp := newTestAPI(t, mockSvc).Post("/api/funds/transfer", map[string]any{
		"from_fund_id": uuid.Must(uuid.NewV4()).String(),
		"to_fund_id":   uuid.Must(uuid.NewV4()).String(),
		"amount":       "lots",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Transfer")
}

func TestHTTP_ListFunds_Pagination(t *testing.T) {
	f := testFund("General", "10")
	mockSvc := new(mockFundService)
	mockSvc.On("List", mock.Anything, &fund.FundFilter{Limit: 1, Offset: 0}).Return(&fund.FundListResult{
		Funds:      []*fund.Fund{f},
		NextCursor: &sqlconfig.Cursor{Position: 1, Limit: 1},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/funds?limit=1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListFundsOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Funds, 1)
	assert.Equal(t, "10.00", body.Body.Funds[0].CurrentBalance)
	require.NotNil(t, body.Body.NextCursor)
	assert.Equal(t, 1, body.Body.NextCursor.Position)
}

func TestHTTP_GetFund_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockFundService)
	mockSvc.On("Get", mock.Anything, id).Return(nil, apperr.NotFound("Fund"))

	resp := newTestAPI(t, mockSvc).Get("/api/funds/" + id.String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Fund not found", errorMessage(t, resp.Body.Bytes()))
}

func TestHTTP_CreateFund(t *testing.T) {
	f := testFund("Building", "250")
	mockSvc := new(mockFundService)
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(c fund.FundCreate) bool {
		return c.Name == "Building" && c.StartingBalance.Equal(decimal.NewFromInt(250)) && c.Description == nil
	})).Return(f, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/funds", map[string]any{
		"name":            "Building",
		"current_balance": 250,
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateFund_BalanceAdjustment(t *testing.T) {
	f := testFund("General", "75")
	mockSvc := new(mockFundService)
	mockSvc.On("Update", mock.Anything, f.ID, mock.MatchedBy(func(u fund.FundUpdate) bool {
		v, ok := u.Description.Get()
		return !u.Name.IsSet() && ok && v == nil
	}), mock.MatchedBy(func(b *decimal.Decimal) bool {
		return b != nil && b.Equal(decimal.NewFromInt(75))
	}), (*uuid.UUID)(nil)).Return(f, nil)

	resp := newTestAPI(t, mockSvc).Put("/api/funds", map[string]any{
		"id":              f.ID.String(),
		"description":     "",
		"current_balance": "75",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteFund(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockFundService)
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/api/funds?id=" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Reconcile(t *testing.T) {
	f := testFund("General", "100")
	f.CurrentBalance = decimal.NewFromInt(90)
	mockSvc := new(mockFundService)
	mockSvc.On("Reconcile", mock.Anything).Return([]service.FundReconciliation{{
		Fund:     *f,
		Income:   decimal.Zero,
		Expense:  decimal.Zero,
		Expected: decimal.NewFromInt(100),
		Drift:    decimal.NewFromInt(-10),
	}}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/funds/reconciliation")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ReconcileOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.False(t, body.Body.Balanced)
	assert.Equal(t, "-10.00", body.Body.Funds[0].Drift)
}
