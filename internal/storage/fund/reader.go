package fund

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

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Fund, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Fund]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

func (r *Reader) List(ctx context.Context, filter *FundFilter) (*FundListResult, error) {
	var limit, offset int
	if filter != nil {
		limit, offset = filter.Limit, filter.Offset
	}
	limit, offset = sqlconfig.Page(limit, offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	}
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Fund]())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &FundListResult{}, nil
	}

	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &FundListResult{Funds: rows, NextCursor: next}, nil
}

// ListAll returns every fund ordered by name.
func (r *Reader) ListAll(ctx context.Context) ([]*Fund, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, q, scan.StructMapper[*Fund]())
}
