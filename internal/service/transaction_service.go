package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

// TransactionService handles transaction business logic.
type TransactionService struct {
	*deps
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionQuery filters a transaction listing.
type TransactionQuery struct {
	FundID *uuid.UUID
	Type   *transaction.Type
}

// List returns a page of transactions using cursor-based pagination. The
// first page pins maxCreationTime so rows inserted while paging do not shift
// later pages.
func (s *TransactionService) List(ctx context.Context, query TransactionQuery, cursor *TransactionCursor) ([]*transaction.Transaction, *TransactionCursor, error) {
	limit := sqlconfig.DefaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime = &cursor.MaxCreationTime
		}
	}

	filter := &transaction.TransactionFilter{
		FundID:          query.FundID,
		Type:            query.Type,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}

	result, err := retryRead(ctx, s.deps, func() (*transaction.TransactionListResult, error) {
		return s.reader.Transactions.List(ctx, filter)
	})
	if err != nil {
		return nil, nil, err
	}

	if len(result.Transactions) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if result.NextCursor != nil {
		cursorMaxCreationTime := result.Transactions[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}
		nextCursor = &TransactionCursor{
			Position:        result.NextCursor.Position,
			Limit:           result.NextCursor.Limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	return result.Transactions, nextCursor, nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, err := retryRead(ctx, s.deps, func() (*transaction.Transaction, error) {
		return s.reader.Transactions.FindByID(ctx, id)
	})
	return tx, actions.NotFound(err, "Transaction")
}

func validateManualType(t transaction.Type) error {
	if !t.Valid() {
		return apperr.Validation("Type must be income or expense")
	}
	if t == transaction.TypeTransfer {
		return actions.ErrTransferType
	}
	return nil
}

// Create records a manual income or expense against a fund.
func (s *TransactionService) Create(ctx context.Context, create transaction.TransactionCreate) (*transaction.Transaction, error) {
	create.Description = strings.TrimSpace(create.Description)
	var missing []string
	if create.FundID == uuid.Nil {
		missing = append(missing, "fund_id is required")
	}
	if create.Description == "" {
		missing = append(missing, "description is required")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields", missing...)
	}
	if err := validateManualType(create.Type); err != nil {
		return nil, err
	}
	if err := validateAmount("Amount", create.Amount); err != nil {
		return nil, err
	}

	action := &actions.RecordTransaction{Create: create}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, update transaction.TransactionUpdate) (*transaction.Transaction, error) {
	if v, ok := update.Type.Get(); ok {
		if err := validateManualType(v); err != nil {
			return nil, err
		}
	}
	if v, ok := update.Amount.Get(); ok {
		if err := validateAmount("Amount", v); err != nil {
			return nil, err
		}
	}
	action := &actions.UpdateTransaction{ID: id, Update: update}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteTransaction{ID: id})
}
