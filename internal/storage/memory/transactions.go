package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

type transactionTable struct{ view }

func (t transactionTable) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var out *transaction.Transaction
	t.read(func(s *state) {
		if tx, ok := s.transactions[id]; ok {
			out = &tx
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t transactionTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return t.FindByID(ctx, id)
}

func (t transactionTable) List(_ context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	if filter == nil {
		filter = &transaction.TransactionFilter{}
	}
	var rows []*transaction.Transaction
	t.read(func(s *state) {
		for _, tx := range s.transactions {
			if filter.FundID != nil && tx.FundID != *filter.FundID {
				continue
			}
			if filter.Type != nil && tx.Type != *filter.Type {
				continue
			}
			if filter.ReferenceID != nil && (tx.ReferenceID == nil || *tx.ReferenceID != *filter.ReferenceID) {
				continue
			}
			if filter.MaxCreationTime != nil && tx.CreatedAt.After(*filter.MaxCreationTime) {
				continue
			}
			rows = append(rows, ptr(tx))
		}
	})
	sortBy(rows, func(a, b *transaction.Transaction) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return idLess(b.ID, a.ID)
	})
	rows, next := paginate(rows, filter.Limit, filter.Offset)
	return &transaction.TransactionListResult{Transactions: rows, NextCursor: next}, nil
}

func (t transactionTable) ListByReference(_ context.Context, referenceType string, referenceID uuid.UUID) ([]*transaction.Transaction, error) {
	var rows []*transaction.Transaction
	t.read(func(s *state) {
		for _, tx := range s.transactions {
			if tx.ReferenceType != nil && *tx.ReferenceType == referenceType &&
				tx.ReferenceID != nil && *tx.ReferenceID == referenceID {
				rows = append(rows, ptr(tx))
			}
		}
	})
	sortBy(rows, func(a, b *transaction.Transaction) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return idLess(a.ID, b.ID)
	})
	return rows, nil
}

func (t transactionTable) TotalsByFund(context.Context) (map[uuid.UUID]transaction.FundTotals, error) {
	totals := make(map[uuid.UUID]transaction.FundTotals)
	t.read(func(s *state) {
		for _, tx := range s.transactions {
			ft := totals[tx.FundID]
			switch tx.Type {
			case transaction.TypeIncome:
				ft.Income = ft.Income.Add(tx.Amount)
			case transaction.TypeExpense:
				ft.Expense = ft.Expense.Add(tx.Amount)
			default:
				continue
			}
			totals[tx.FundID] = ft
		}
	})
	return totals, nil
}

func (t transactionTable) Insert(_ context.Context, create *transaction.TransactionCreate) (uuid.UUID, error) {
	if _, ok := t.tx.funds[create.FundID]; !ok {
		return uuid.Nil, sqlconfig.ErrNotFound
	}
	now := t.now()
	transactionDate := create.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = now
	}
	tx := transaction.Transaction{
		ID:              newID(),
		Type:            create.Type,
		Amount:          create.Amount,
		Description:     create.Description,
		Category:        create.Category,
		FundID:          create.FundID,
		ReferenceID:     create.ReferenceID,
		ReferenceType:   create.ReferenceType,
		CreatedBy:       create.CreatedBy,
		TransactionDate: transactionDate,
		CreatedAt:       now,
	}
	t.tx.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (t transactionTable) Update(_ context.Context, id uuid.UUID, update *transaction.TransactionUpdate) error {
	tx, ok := t.tx.transactions[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	t.tx.transactions[id] = update.Apply(tx)
	return nil
}

func (t transactionTable) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := t.tx.transactions[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.transactions, id)
	return nil
}

func (t transactionTable) DeleteByReference(_ context.Context, referenceType string, referenceID uuid.UUID) (int64, error) {
	var n int64
	for id, tx := range t.tx.transactions {
		if tx.ReferenceType != nil && *tx.ReferenceType == referenceType &&
			tx.ReferenceID != nil && *tx.ReferenceID == referenceID {
			delete(t.tx.transactions, id)
			n++
		}
	}
	return n, nil
}
