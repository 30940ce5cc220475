package bill

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

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Bill]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

// List returns bills ordered by due date, earliest first.
func (r *Reader) List(ctx context.Context, filter *BillFilter) (*BillListResult, error) {
	if filter == nil {
		filter = &BillFilter{}
	}
	limit, offset := sqlconfig.Page(filter.Limit, filter.Offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
	}
	if filter.Status != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("status").EQ(psql.Arg(string(filter.Status.Stored())))))
		if *filter.Status == StatusOverdue && filter.DueBefore != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("due_date").LT(psql.Arg(*filter.DueBefore))))
		}
	}
	if filter.FundID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("fund_id").EQ(psql.Arg(*filter.FundID))))
	}
	if filter.LedgerEntryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("ledger_entry_id").EQ(psql.Arg(*filter.LedgerEntryID))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("due_date").Asc(),
		sm.OrderBy("id").Asc(),
	)
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Bill]())
	if err != nil {
		return nil, err
	}
	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &BillListResult{Bills: rows, NextCursor: next}, nil
}

// TotalsByLedgerEntry sums the bills attached to a ledger entry.
func (r *Reader) TotalsByLedgerEntry(ctx context.Context, entryID uuid.UUID) (*EntryTotals, error) {
	q := psql.Select(
		sm.Columns(
			"COUNT(*) AS bill_count",
			"COALESCE(SUM(amount), 0) AS total",
			"COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0) AS paid",
			"COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0) AS pending",
		),
		sm.From(TableName),
		sm.Where(psql.Quote("ledger_entry_id").EQ(psql.Arg(entryID))),
	)
	return bob.One(ctx, r.exec, q, scan.StructMapper[*EntryTotals]())
}
