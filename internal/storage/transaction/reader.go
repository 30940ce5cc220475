package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
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

// FindByID retrieves a transaction by primary key.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

// List returns transactions matching the filter, newest first. Nil filter
// returns the first default-sized page.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error) {
	if filter == nil {
		filter = &TransactionFilter{}
	}
	limit, offset := sqlconfig.Page(filter.Limit, filter.Offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
	}
	if filter.FundID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("fund_id").EQ(psql.Arg(*filter.FundID))))
	}
	if filter.Type != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*filter.Type)))))
	}
	if filter.ReferenceID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("reference_id").EQ(psql.Arg(*filter.ReferenceID))))
	}
	if filter.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	)
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &TransactionListResult{}, nil
	}

	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &TransactionListResult{Transactions: rows, NextCursor: next}, nil
}

// ListByReference returns every transaction created by the given workflow
// record, e.g. both halves of a transfer or a bill's payment. Rows written in
// the same transaction share created_at, so expense sorts before income.
func (r *Reader) ListByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]*Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("reference_type").EQ(psql.Arg(referenceType))),
		sm.Where(psql.Quote("reference_id").EQ(psql.Arg(referenceID))),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("type").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, q, scan.StructMapper[*Transaction]())
}

type typeTotal struct {
	FundID uuid.UUID       `db:"fund_id"`
	Type   Type            `db:"type"`
	Total  decimal.Decimal `db:"total"`
}

// TotalsByFund sums income and expense amounts per fund.
func (r *Reader) TotalsByFund(ctx context.Context) (map[uuid.UUID]FundTotals, error) {
	q := psql.Select(
		sm.Columns("fund_id", "type", "COALESCE(SUM(amount), 0) AS total"),
		sm.From(TableName),
		sm.GroupBy("fund_id"),
		sm.GroupBy("type"),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[typeTotal]())
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]FundTotals)
	for _, row := range rows {
		t := totals[row.FundID]
		switch row.Type {
		case TypeIncome:
			t.Income = t.Income.Add(row.Total)
		case TypeExpense:
			t.Expense = t.Expense.Add(row.Total)
		}
		totals[row.FundID] = t
	}
	return totals, nil
}
