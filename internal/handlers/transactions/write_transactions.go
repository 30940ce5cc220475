package transactions

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

type CreateTransactionBody struct {
	Type            string         `json:"type" enum:"income,expense,transfer" doc:"Manual entries are income or expense"`
	Amount          apiutil.Amount `json:"amount"`
	Description     string         `json:"description"`
	Category        string         `json:"category,omitempty"`
	FundID          string         `json:"fund_id" format:"uuid"`
	TransactionDate string         `json:"transaction_date,omitempty" doc:"Date or RFC3339 time, defaults to now"`
}

type CreateTransactionInput struct {
	Body CreateTransactionBody
}

type TransactionOutput struct {
	Status int
	Body   Transaction
}

type UpdateTransactionBody struct {
	ID              string         `json:"id" format:"uuid"`
	Type            *string        `json:"type,omitempty" enum:"income,expense,transfer"`
	Amount          apiutil.Amount `json:"amount,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Category        *string        `json:"category,omitempty"`
	FundID          *string        `json:"fund_id,omitempty" format:"uuid"`
	TransactionDate *string        `json:"transaction_date,omitempty"`
}

type UpdateTransactionInput struct {
	Body UpdateTransactionBody
}

type DeleteTransactionInput struct {
	ID string `query:"id" required:"true" format:"uuid"`
}

func (h *Handler) registerWrites(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/api/transactions",
		Summary:       "Create transaction",
		Description:   "Records income or expense on a fund and adjusts its balance.",
		Tags:          []string{"Transactions"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/api/transactions",
		Summary:     "Update transaction",
		Description: "Reverts the old balance effect and applies the new one.",
		Tags:        []string{"Transactions"},
		Security:    auth.RequireAdmin,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/api/transactions",
		Summary:       "Delete transaction",
		Tags:          []string{"Transactions"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

// Register registers every /api/transactions operation.
func (h *Handler) Register(api huma.API) {
	h.registerList(api)
	h.registerWrites(api)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (transaction.TransactionCreate, error) {
	b := input.Body
	fundID, err := apiutil.ParseID("fund_id", b.FundID)
	if err != nil {
		return transaction.TransactionCreate{}, err
	}
	create := transaction.TransactionCreate{
		Type:        transaction.Type(b.Type),
		Amount:      b.Amount.Decimal,
		Description: b.Description,
		Category:    b.Category,
		FundID:      fundID,
	}
	date, err := apiutil.OptionalDate("transaction_date", b.TransactionDate)
	if err != nil {
		return create, err
	}
	if date != nil {
		create.TransactionDate = *date
	}
	return create, nil
}

func (h *Handler) create(ctx context.Context, input *CreateTransactionInput) (*TransactionOutput, error) {
	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}
	create.CreatedBy = auth.UserFromContext(ctx).ActorID()

	tx, err := h.Transactions.Create(ctx, create)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-transaction", err, "Failed to create transaction")
	}
	logging.AddData(ctx, "transactionID", tx.ID.String())
	return &TransactionOutput{Status: http.StatusCreated, Body: toTransaction(tx)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	b := input.Body
	id, err := apiutil.ParseID("id", b.ID)
	if err != nil {
		return nil, err
	}
	update := transaction.TransactionUpdate{
		Amount:      apiutil.OptAmount(b.Amount),
		Description: apiutil.OptString(b.Description),
		Category:    apiutil.OptString(b.Category),
	}
	if b.Type != nil {
		update.Type.Set(transaction.Type(*b.Type))
	}
	if update.FundID, err = apiutil.OptID("fund_id", b.FundID); err != nil {
		return nil, err
	}
	if update.TransactionDate, err = apiutil.OptDate("transaction_date", b.TransactionDate); err != nil {
		return nil, err
	}

	tx, err := h.Transactions.Update(ctx, id, update)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "update-transaction", err, "Failed to update transaction")
	}
	return &TransactionOutput{Status: http.StatusOK, Body: toTransaction(tx)}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteTransactionInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Transactions.Delete(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-transaction", err, "Failed to delete transaction")
	}
	return nil, nil
}
