package transactions

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

	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) List(ctx context.Context, query service.TransactionQuery, cursor *service.TransactionCursor) ([]*transaction.Transaction, *service.TransactionCursor, error) {
	args := m.Called(ctx, query, cursor)
	txs, _ := args.Get(0).([]*transaction.Transaction)
	next, _ := args.Get(1).(*service.TransactionCursor)
	return txs, next, args.Error(2)
}

func (m *mockTransactionService) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) Create(ctx context.Context, create transaction.TransactionCreate) (*transaction.Transaction, error) {
	args := m.Called(ctx, create)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) Update(ctx context.Context, id uuid.UUID, update transaction.TransactionUpdate) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, update)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestAPI(t *testing.T, svc transactionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc, logrus.New()).Register(api)
	return api
}

func testTransaction(fundID uuid.UUID, amount string) *transaction.Transaction {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &transaction.Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		Type:            transaction.TypeIncome,
		Amount:          decimal.RequireFromString(amount),
		Description:     "Sunday collection",
		FundID:          fundID,
		TransactionDate: now,
		CreatedAt:       now,
	}
}

// -- parseListTransactionsInput unit tests --

func TestParseListTransactionsInput_NoCursor(t *testing.T) {
	query, cursor, err := parseListTransactionsInput(&ListTransactionsInput{})
	assert.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Nil(t, query.FundID)
	assert.Nil(t, query.Type)
}

func TestParseListTransactionsInput_WithCursorAndFilters(t *testing.T) {
	fundID := uuid.Must(uuid.NewV4())
	query, cursor, err := parseListTransactionsInput(&ListTransactionsInput{
		FundID:          fundID.String(),
		Type:            "expense",
		Position:        40,
		Limit:           10,
		MaxCreationTime: "2025-06-15T08:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, fundID, *query.FundID)
	assert.Equal(t, transaction.TypeExpense, *query.Type)
	require.NotNil(t, cursor)
	assert.Equal(t, 40, cursor.Position)
	assert.Equal(t, 10, cursor.Limit)
	assert.Equal(t, time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC), cursor.MaxCreationTime)
}

func TestParseListTransactionsInput_InvalidMaxCreationTime(t *testing.T) {
	_, _, err := parseListTransactionsInput(&ListTransactionsInput{Limit: 10, MaxCreationTime: "not-a-date"})
	assert.Error(t, err)
}

// -- HTTP tests --

func TestHTTP_ListTransactions_MultiplePages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fundID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionService)
	mockSvc.On("List", mock.Anything, service.TransactionQuery{}, (*service.TransactionCursor)(nil)).
		Return([]*transaction.Transaction{testTransaction(fundID, "5"), testTransaction(fundID, "6")},
			&service.TransactionCursor{Position: 20, Limit: 20, MaxCreationTime: now}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 2)
	assert.Equal(t, "5.00", body.Transactions[0].Amount)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 20, body.NextCursor.Position)
	assert.Equal(t, now.Format(time.RFC3339Nano), body.NextCursor.MaxCreationTime)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, errors.New("database unavailable"))

	resp := newTestAPI(t, mockSvc).Get("/api/transactions")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	fundID := uuid.Must(uuid.NewV4())
	tx := testTransaction(fundID, "12.50")

	mockSvc := new(mockTransactionService)
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(c transaction.TransactionCreate) bool {
		return c.FundID == fundID && c.Type == transaction.TypeIncome &&
			c.Amount.Equal(decimal.RequireFromString("12.50")) &&
			c.TransactionDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	})).Return(tx, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"type":             "income",
		"amount":           12.5,
		"description":      "Sunday collection",
		"fund_id":          fundID.String(),
		"transaction_date": "2025-06-01",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingRequiredFields(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"type": "income",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestHTTP_CreateTransaction_TransferTypeRejected(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, actions.ErrTransferType)

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"type":        "transfer",
		"amount":      "1",
		"description": "x",
		"fund_id":     uuid.Must(uuid.NewV4()).String(),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_UpdateTransaction_PartialBody(t *testing.T) {
	fundID := uuid.Must(uuid.NewV4())
	tx := testTransaction(fundID, "40")

	mockSvc := new(mockTransactionService)
	mockSvc.On("Update", mock.Anything, tx.ID, mock.MatchedBy(func(u transaction.TransactionUpdate) bool {
		amt, ok := u.Amount.Get()
		return ok && amt.Equal(decimal.NewFromInt(40)) && !u.FundID.IsSet() && !u.Type.IsSet()
	})).Return(tx, nil)

	resp := newTestAPI(t, mockSvc).Put("/api/transactions", map[string]any{
		"id":     tx.ID.String(),
		"amount": 40,
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteTransaction(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/api/transactions?id=" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}
