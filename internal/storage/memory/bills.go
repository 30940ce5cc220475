package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type billTable struct{ view }

func (t billTable) FindByID(_ context.Context, id uuid.UUID) (*bill.Bill, error) {
	var out *bill.Bill
	t.read(func(s *state) {
		if b, ok := s.bills[id]; ok {
			out = &b
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t billTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	return t.FindByID(ctx, id)
}

func (t billTable) List(_ context.Context, filter *bill.BillFilter) (*bill.BillListResult, error) {
	if filter == nil {
		filter = &bill.BillFilter{}
	}
	var rows []*bill.Bill
	t.read(func(s *state) {
		for _, b := range s.bills {
			if filter.Status != nil {
				if b.Status != filter.Status.Stored() {
					continue
				}
				if *filter.Status == bill.StatusOverdue && filter.DueBefore != nil && !b.DueDate.Before(*filter.DueBefore) {
					continue
				}
			}
			if filter.FundID != nil && (b.FundID == nil || *b.FundID != *filter.FundID) {
				continue
			}
			if filter.LedgerEntryID != nil && (b.LedgerEntryID == nil || *b.LedgerEntryID != *filter.LedgerEntryID) {
				continue
			}
			rows = append(rows, ptr(b))
		}
	})
	sortBy(rows, func(a, b *bill.Bill) bool {
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return idLess(a.ID, b.ID)
	})
	rows, next := paginate(rows, filter.Limit, filter.Offset)
	return &bill.BillListResult{Bills: rows, NextCursor: next}, nil
}

func (t billTable) TotalsByLedgerEntry(_ context.Context, entryID uuid.UUID) (*bill.EntryTotals, error) {
	totals := &bill.EntryTotals{}
	t.read(func(s *state) {
		for _, b := range s.bills {
			if b.LedgerEntryID == nil || *b.LedgerEntryID != entryID {
				continue
			}
			totals.Count++
			totals.Total = totals.Total.Add(b.Amount)
			switch b.Status {
			case bill.StatusPaid:
				totals.Paid = totals.Paid.Add(b.Amount)
			case bill.StatusPending:
				totals.Pending = totals.Pending.Add(b.Amount)
			}
		}
	})
	return totals, nil
}

func (t billTable) Insert(_ context.Context, create *bill.BillCreate) (uuid.UUID, error) {
	now := t.now()
	status := create.Status.Stored()
	if status == "" {
		status = bill.StatusPending
	}
	b := bill.Bill{
		ID:               newID(),
		Vendor:           create.Vendor,
		Description:      create.Description,
		Amount:           create.Amount,
		DueDate:          create.DueDate,
		Status:           status,
		Category:         create.Category,
		FundID:           create.FundID,
		LedgerEntryID:    create.LedgerEntryID,
		LedgerSubgroupID: create.LedgerSubgroupID,
		PaidDate:         create.PaidDate,
		Notes:            create.Notes,
		CreatedBy:        create.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	t.tx.bills[b.ID] = b
	return b.ID, nil
}

func (t billTable) Update(_ context.Context, id uuid.UUID, update *bill.BillUpdate) error {
	b, ok := t.tx.bills[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	b = update.Apply(b)
	b.UpdatedAt = t.now()
	t.tx.bills[id] = b
	return nil
}

func (t billTable) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := t.tx.bills[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.bills, id)
	return nil
}
