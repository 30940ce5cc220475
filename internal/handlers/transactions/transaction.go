package transactions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string  `json:"id" doc:"Transaction UUID"`
	Type            string  `json:"type" enum:"income,expense,transfer"`
	Amount          string  `json:"amount" doc:"Decimal amount"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	FundID          string  `json:"fund_id"`
	ReferenceID     *string `json:"reference_id"`
	ReferenceType   *string `json:"reference_type"`
	CreatedBy       *string `json:"created_by"`
	TransactionDate string  `json:"transaction_date" doc:"RFC3339 transaction date"`
	CreatedAt       string  `json:"created_at"`
}

func toTransaction(tx *transaction.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID.String(),
		Type:            string(tx.Type),
		Amount:          apiutil.Money(tx.Amount),
		Description:     tx.Description,
		Category:        tx.Category,
		FundID:          tx.FundID.String(),
		ReferenceID:     apiutil.IDPtrString(tx.ReferenceID),
		ReferenceType:   tx.ReferenceType,
		CreatedBy:       apiutil.IDPtrString(tx.CreatedBy),
		TransactionDate: apiutil.FormatTime(tx.TransactionDate),
		CreatedAt:       apiutil.FormatTime(tx.CreatedAt),
	}
}

type transactionService interface {
	List(ctx context.Context, query service.TransactionQuery, cursor *service.TransactionCursor) ([]*transaction.Transaction, *service.TransactionCursor, error)
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	Create(ctx context.Context, create transaction.TransactionCreate) (*transaction.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update transaction.TransactionUpdate) (*transaction.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler serves /api/transactions.
type Handler struct {
	Transactions transactionService
	Logger       logrus.FieldLogger
}

func NewHandler(svc transactionService, logger logrus.FieldLogger) *Handler {
	return &Handler{Transactions: svc, Logger: logger}
}
