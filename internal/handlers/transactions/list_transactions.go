package transactions

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

// ListTransactionsCursor bundles position, limit and maxCreationTime so
// subsequent pages use consistent parameters.
type ListTransactionsCursor struct {
	Position        int    `json:"position" minimum:"0" doc:"Numeric offset position for the next page"`
	Limit           int    `json:"limit" minimum:"1" maximum:"100" doc:"Page size used for this cursor"`
	MaxCreationTime string `json:"maxCreationTime" format:"date-time" doc:"Upper bound on created_at locked in from the first page"`
}

type ListTransactionsInput struct {
	FundID          string `query:"fund_id" doc:"Only transactions of this fund"`
	Type            string `query:"type" enum:"income,expense,transfer" doc:"Only transactions of this type"`
	Limit           int    `query:"limit" minimum:"0" maximum:"100"`
	Position        int    `query:"position" minimum:"0"`
	MaxCreationTime string `query:"maxCreationTime" doc:"From a previous nextCursor"`
}

type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

func (h *Handler) registerList(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions",
		Summary:     "List transactions",
		Description: "Returns a page of transactions, newest first, using cursor-based pagination.",
		Tags:        []string{"Transactions"},
		Security:    auth.RequireSession,
	}, h.list)
}

// parseListTransactionsInput parses and validates the API input.
// Without any paging parameter the service uses its default limit.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionQuery, *service.TransactionCursor, error) {
	var query service.TransactionQuery
	fundID, err := apiutil.ParseOptionalID("fund_id", input.FundID)
	if err != nil {
		return query, nil, err
	}
	query.FundID = fundID
	if input.Type != "" {
		t := transaction.Type(input.Type)
		query.Type = &t
	}

	if input.Limit == 0 && input.Position == 0 && input.MaxCreationTime == "" {
		return query, nil, nil
	}
	cursor := &service.TransactionCursor{Position: input.Position, Limit: input.Limit}
	if input.MaxCreationTime != "" {
		cursor.MaxCreationTime, err = time.Parse(time.RFC3339, input.MaxCreationTime)
		if err != nil {
			return query, nil, apiutil.NewError(http.StatusBadRequest, "Invalid maxCreationTime", err)
		}
	}
	return query, cursor, nil
}

func (h *Handler) list(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	query, requestCursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.Timed(ctx, "listTransactionsMs")
	txs, nextCursor, err := h.Transactions.List(ctx, query, requestCursor)
	stopTimer()
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-transactions", err, "Failed to fetch transactions")
	}
	logging.AddData(ctx, "transactionCount", len(txs))

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(txs)),
	}
	for i, tx := range txs {
		resp.Transactions[i] = toTransaction(tx)
	}
	if nextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position:        nextCursor.Position,
			Limit:           nextCursor.Limit,
			MaxCreationTime: nextCursor.MaxCreationTime.Format(time.RFC3339Nano),
		}
	}
	return &ListTransactionsOutput{Body: resp}, nil
}
