package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type fundTable struct{ view }

func (t fundTable) FindByID(_ context.Context, id uuid.UUID) (*fund.Fund, error) {
	var out *fund.Fund
	t.read(func(s *state) {
		if f, ok := s.funds[id]; ok {
			out = &f
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t fundTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	return t.FindByID(ctx, id)
}

func (t fundTable) ListAll(context.Context) ([]*fund.Fund, error) {
	var rows []*fund.Fund
	t.read(func(s *state) {
		for _, f := range s.funds {
			rows = append(rows, ptr(f))
		}
	})
	sortBy(rows, func(a, b *fund.Fund) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return idLess(a.ID, b.ID)
	})
	return rows, nil
}

func (t fundTable) List(ctx context.Context, filter *fund.FundFilter) (*fund.FundListResult, error) {
	if filter == nil {
		filter = &fund.FundFilter{}
	}
	all, _ := t.ListAll(ctx)
	rows, next := paginate(all, filter.Limit, filter.Offset)
	return &fund.FundListResult{Funds: rows, NextCursor: next}, nil
}

func (t fundTable) Insert(_ context.Context, create *fund.FundCreate) (uuid.UUID, error) {
	now := t.now()
	f := fund.Fund{
		ID:              newID(),
		Name:            create.Name,
		Description:     create.Description,
		FundType:        create.FundType,
		TargetAmount:    create.TargetAmount,
		CurrentBalance:  create.StartingBalance,
		StartingBalance: create.StartingBalance,
		CreatedBy:       create.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	t.tx.funds[f.ID] = f
	return f.ID, nil
}

func (t fundTable) Update(_ context.Context, id uuid.UUID, update *fund.FundUpdate) error {
	f, ok := t.tx.funds[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	f = update.Apply(f)
	f.UpdatedAt = t.now()
	t.tx.funds[id] = f
	return nil
}

// Delete cascades to transactions and offerings and detaches bills.
func (t fundTable) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := t.tx.funds[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.funds, id)
	for txID, tx := range t.tx.transactions {
		if tx.FundID == id {
			delete(t.tx.transactions, txID)
		}
	}
	for oID, o := range t.tx.offerings {
		if o.FundID == id {
			delete(t.tx.offerings, oID)
		}
	}
	for bID, b := range t.tx.bills {
		if b.FundID != nil && *b.FundID == id {
			b.FundID = nil
			t.tx.bills[bID] = b
		}
	}
	return nil
}

func (t fundTable) Debit(_ context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	f, ok := t.tx.funds[id]
	if !ok {
		return decimal.Zero, sqlconfig.ErrNotFound
	}
	if f.CurrentBalance.LessThan(amount) {
		return decimal.Zero, fund.ErrInsufficientBalance
	}
	f.CurrentBalance = f.CurrentBalance.Sub(amount)
	f.UpdatedAt = t.now()
	t.tx.funds[id] = f
	return f.CurrentBalance, nil
}

func (t fundTable) Adjust(_ context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	f, ok := t.tx.funds[id]
	if !ok {
		return decimal.Zero, sqlconfig.ErrNotFound
	}
	f.CurrentBalance = f.CurrentBalance.Add(delta)
	f.UpdatedAt = t.now()
	t.tx.funds[id] = f
	return f.CurrentBalance, nil
}
