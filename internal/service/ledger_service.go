package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
)

// LedgerService handles ledger entries and their subgroups.
type LedgerService struct {
	*deps
}

// EntryDetail is an entry with its subgroups and the totals of its bills.
type EntryDetail struct {
	Entry     *ledger.Entry
	Subgroups []*ledger.Subgroup
	Bills     *bill.EntryTotals
}

func (s *LedgerService) ListEntries(ctx context.Context, filter ledger.EntryFilter) (*ledger.EntryListResult, error) {
	return retryRead(ctx, s.deps, func() (*ledger.EntryListResult, error) {
		return s.reader.Ledger.ListEntries(ctx, &filter)
	})
}

func (s *LedgerService) GetEntry(ctx context.Context, id uuid.UUID) (*EntryDetail, error) {
	entry, err := retryRead(ctx, s.deps, func() (*ledger.Entry, error) {
		return s.reader.Ledger.FindEntry(ctx, id)
	})
	if err != nil {
		return nil, actions.NotFound(err, "Ledger entry")
	}
	subgroups, err := retryRead(ctx, s.deps, func() ([]*ledger.Subgroup, error) {
		return s.reader.Ledger.ListSubgroups(ctx, &id)
	})
	if err != nil {
		return nil, err
	}
	totals, err := retryRead(ctx, s.deps, func() (*bill.EntryTotals, error) {
		return s.reader.Bills.TotalsByLedgerEntry(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &EntryDetail{Entry: entry, Subgroups: subgroups, Bills: totals}, nil
}

func (s *LedgerService) CreateEntry(ctx context.Context, create ledger.EntryCreate) (*ledger.Entry, error) {
	create.Title = strings.TrimSpace(create.Title)
	if create.Title == "" {
		return nil, apperr.Validation("Missing required fields", "title is required")
	}
	if create.EntryDate.IsZero() {
		create.EntryDate = s.now().Truncate(24 * time.Hour)
	}

	var result *ledger.Entry
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		id, err := w.Ledger.InsertEntry(ctx, &create)
		if err != nil {
			return err
		}
		result, err = w.Ledger.FindEntry(ctx, id)
		return err
	}))
	return result, err
}

func (s *LedgerService) UpdateEntry(ctx context.Context, id uuid.UUID, update ledger.EntryUpdate) (*ledger.Entry, error) {
	if v, ok := update.Title.Get(); ok && strings.TrimSpace(v) == "" {
		return nil, apperr.Validation("Title cannot be empty")
	}
	var result *ledger.Entry
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		if err := w.Ledger.UpdateEntry(ctx, id, &update); err != nil {
			return actions.NotFound(err, "Ledger entry")
		}
		var err error
		result, err = w.Ledger.FindEntry(ctx, id)
		return err
	}))
	return result, err
}

// DeleteEntry removes the entry and its subgroups. Bills keep existing
// without a ledger reference.
func (s *LedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		return actions.NotFound(w.Ledger.DeleteEntry(ctx, id), "Ledger entry")
	}))
}

func (s *LedgerService) ListSubgroups(ctx context.Context, entryID *uuid.UUID) ([]*ledger.Subgroup, error) {
	return retryRead(ctx, s.deps, func() ([]*ledger.Subgroup, error) {
		return s.reader.Ledger.ListSubgroups(ctx, entryID)
	})
}

func (s *LedgerService) CreateSubgroup(ctx context.Context, create ledger.SubgroupCreate) (*ledger.Subgroup, error) {
	create.Name = strings.TrimSpace(create.Name)
	var missing []string
	if create.LedgerEntryID == uuid.Nil {
		missing = append(missing, "ledger_entry_id is required")
	}
	if create.Name == "" {
		missing = append(missing, "name is required")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields", missing...)
	}

	var result *ledger.Subgroup
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		if _, err := w.Ledger.FindEntry(ctx, create.LedgerEntryID); err != nil {
			return actions.NotFound(err, "Ledger entry")
		}
		id, err := w.Ledger.InsertSubgroup(ctx, &create)
		if err != nil {
			return err
		}
		result, err = w.Ledger.FindSubgroup(ctx, id)
		return err
	}))
	return result, err
}

func (s *LedgerService) UpdateSubgroup(ctx context.Context, id uuid.UUID, update ledger.SubgroupUpdate) (*ledger.Subgroup, error) {
	if v, ok := update.Name.Get(); ok && strings.TrimSpace(v) == "" {
		return nil, apperr.Validation("Name cannot be empty")
	}
	var result *ledger.Subgroup
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		if err := w.Ledger.UpdateSubgroup(ctx, id, &update); err != nil {
			return actions.NotFound(err, "Ledger subgroup")
		}
		var err error
		result, err = w.Ledger.FindSubgroup(ctx, id)
		return err
	}))
	return result, err
}

func (s *LedgerService) DeleteSubgroup(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		return actions.NotFound(w.Ledger.DeleteSubgroup(ctx, id), "Ledger subgroup")
	}))
}
