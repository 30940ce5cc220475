package notification

import (
	"context"

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

// List returns one user's notifications, newest first.
func (r *Reader) List(ctx context.Context, filter *NotificationFilter) (*NotificationListResult, error) {
	limit, offset := sqlconfig.Page(filter.Limit, filter.Offset)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.UnreadOnly {
		queryMods = append(queryMods, sm.Where(psql.Quote("is_read").EQ(psql.Arg(false))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	)
	queryMods = append(queryMods, sqlconfig.PageMods(limit, offset)...)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[*Notification]())
	if err != nil {
		return nil, err
	}
	rows, next := sqlconfig.Trim(rows, limit, offset)
	return &NotificationListResult{Notifications: rows, NextCursor: next}, nil
}
