package memory

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/ledger"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type ledgerTable struct{ view }

func (t ledgerTable) FindEntry(_ context.Context, id uuid.UUID) (*ledger.Entry, error) {
	var out *ledger.Entry
	t.read(func(s *state) {
		if e, ok := s.entries[id]; ok {
			out = &e
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t ledgerTable) ListEntries(_ context.Context, filter *ledger.EntryFilter) (*ledger.EntryListResult, error) {
	if filter == nil {
		filter = &ledger.EntryFilter{}
	}
	var rows []*ledger.Entry
	t.read(func(s *state) {
		for _, e := range s.entries {
			rows = append(rows, ptr(e))
		}
	})
	sortBy(rows, func(a, b *ledger.Entry) bool {
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		return idLess(b.ID, a.ID)
	})
	rows, next := paginate(rows, filter.Limit, filter.Offset)
	return &ledger.EntryListResult{Entries: rows, NextCursor: next}, nil
}

func (t ledgerTable) FindSubgroup(_ context.Context, id uuid.UUID) (*ledger.Subgroup, error) {
	var out *ledger.Subgroup
	t.read(func(s *state) {
		if g, ok := s.subgroups[id]; ok {
			out = &g
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t ledgerTable) ListSubgroups(_ context.Context, entryID *uuid.UUID) ([]*ledger.Subgroup, error) {
	var rows []*ledger.Subgroup
	t.read(func(s *state) {
		for _, g := range s.subgroups {
			if entryID != nil && g.LedgerEntryID != *entryID {
				continue
			}
			rows = append(rows, ptr(g))
		}
	})
	sortBy(rows, func(a, b *ledger.Subgroup) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return idLess(a.ID, b.ID)
	})
	return rows, nil
}

func (t ledgerTable) InsertEntry(_ context.Context, create *ledger.EntryCreate) (uuid.UUID, error) {
	now := t.now()
	entryDate := create.EntryDate
	if entryDate.IsZero() {
		entryDate = now.Truncate(24 * time.Hour)
	}
	e := ledger.Entry{
		ID:          newID(),
		Title:       create.Title,
		Description: create.Description,
		EntryDate:   entryDate,
		CreatedBy:   create.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.tx.entries[e.ID] = e
	return e.ID, nil
}

func (t ledgerTable) UpdateEntry(_ context.Context, id uuid.UUID, update *ledger.EntryUpdate) error {
	e, ok := t.tx.entries[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	if v, ok := update.Title.Get(); ok {
		e.Title = v
	}
	if v, ok := update.Description.Get(); ok {
		e.Description = v
	}
	if v, ok := update.EntryDate.Get(); ok {
		e.EntryDate = v
	}
	e.UpdatedAt = t.now()
	t.tx.entries[id] = e
	return nil
}

// DeleteEntry cascades to subgroups and detaches bills.
func (t ledgerTable) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.tx.entries[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.entries, id)
	for gID, g := range t.tx.subgroups {
		if g.LedgerEntryID == id {
			_ = t.DeleteSubgroup(ctx, gID)
		}
	}
	for bID, b := range t.tx.bills {
		if b.LedgerEntryID != nil && *b.LedgerEntryID == id {
			b.LedgerEntryID = nil
			t.tx.bills[bID] = b
		}
	}
	return nil
}

func (t ledgerTable) InsertSubgroup(_ context.Context, create *ledger.SubgroupCreate) (uuid.UUID, error) {
	if _, ok := t.tx.entries[create.LedgerEntryID]; !ok {
		return uuid.Nil, sqlconfig.ErrNotFound
	}
	now := t.now()
	g := ledger.Subgroup{
		ID:            newID(),
		LedgerEntryID: create.LedgerEntryID,
		Name:          create.Name,
		Purpose:       create.Purpose,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	t.tx.subgroups[g.ID] = g
	return g.ID, nil
}

func (t ledgerTable) UpdateSubgroup(_ context.Context, id uuid.UUID, update *ledger.SubgroupUpdate) error {
	g, ok := t.tx.subgroups[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	if v, ok := update.Name.Get(); ok {
		g.Name = v
	}
	if v, ok := update.Purpose.Get(); ok {
		g.Purpose = v
	}
	g.UpdatedAt = t.now()
	t.tx.subgroups[id] = g
	return nil
}

func (t ledgerTable) DeleteSubgroup(_ context.Context, id uuid.UUID) error {
	if _, ok := t.tx.subgroups[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.subgroups, id)
	for bID, b := range t.tx.bills {
		if b.LedgerSubgroupID != nil && *b.LedgerSubgroupID == id {
			b.LedgerSubgroupID = nil
			t.tx.bills[bID] = b
		}
	}
	return nil
}
