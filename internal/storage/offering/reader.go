package offering

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

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Offering, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Offering]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

// List returns offerings, most recent offering date first.
func (r *Reader) List(ctx context.Context, filter *OfferingFilter) (*OfferingListResult, error) {
	if filter == nil {
		filter = &OfferingFilter{}
	}
	limit, offset := sqlconfig.Page(filter.Limit, filter.Offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
	}
	if filter.FundID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("fund_id").EQ(psql.Arg(*filter.FundID))))
	}
	if filter.MemberID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("member_id").EQ(psql.Arg(*filter.MemberID))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("offering_date").Desc(),
		sm.OrderBy("id").Desc(),
	)
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Offering]())
	if err != nil {
		return nil, err
	}
	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &OfferingListResult{Offerings: rows, NextCursor: next}, nil
}
