package ledger

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q := psql.Select(
		sm.Columns(entryColumns...),
		sm.From(EntriesTable),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Entry]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

// ListEntries returns entries, newest entry date first.
func (r *Reader) ListEntries(ctx context.Context, filter *EntryFilter) (*EntryListResult, error) {
	if filter == nil {
		filter = &EntryFilter{}
	}
	limit, offset := sqlconfig.Page(filter.Limit, filter.Offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(entryColumns...),
		sm.From(EntriesTable),
		sm.OrderBy("entry_date").Desc(),
		sm.OrderBy("id").Desc(),
	}
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Entry]())
	if err != nil {
		return nil, err
	}
	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &EntryListResult{Entries: rows, NextCursor: next}, nil
}

func (r *Reader) FindSubgroup(ctx context.Context, id uuid.UUID) (*Subgroup, error) {
	q := psql.Select(
		sm.Columns(subgroupColumns...),
		sm.From(SubgroupsTable),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Subgroup]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

// ListSubgroups returns the subgroups of one entry, or of every entry when
// entryID is nil.
func (r *Reader) ListSubgroups(ctx context.Context, entryID *uuid.UUID) ([]*Subgroup, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(subgroupColumns...),
		sm.From(SubgroupsTable),
	}
	if entryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("ledger_entry_id").EQ(psql.Arg(*entryID))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Subgroup]())
}
