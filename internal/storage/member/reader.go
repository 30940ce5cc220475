package member

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

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Member]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

func (r *Reader) List(ctx context.Context, filter *MemberFilter) (*MemberListResult, error) {
	if filter == nil {
		filter = &MemberFilter{}
	}
	limit, offset := sqlconfig.Page(filter.Limit, filter.Offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		queryMods = append(queryMods, sm.Where(psql.Raw(
			"(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)",
			pattern, pattern, pattern,
		)))
	}
	if filter.Status != "" {
		queryMods = append(queryMods, sm.Where(psql.Quote("status").EQ(psql.Arg(filter.Status))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("last_name").Asc(),
		sm.OrderBy("first_name").Asc(),
		sm.OrderBy("id").Asc(),
	)
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Member]())
	if err != nil {
		return nil, err
	}
	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &MemberListResult{Members: rows, NextCursor: next}, nil
}
