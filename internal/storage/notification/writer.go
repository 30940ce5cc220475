package notification

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Writer struct {
	tx bob.Executor
	Reader
}

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// InsertMany writes all notifications in one statement.
func (w *Writer) InsertMany(ctx context.Context, creates []*NotificationCreate) error {
	if len(creates) == 0 {
		return nil
	}
	insertMods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(TableName, "user_id", "kind", "title", "message", "reference_id"),
	}
	for _, c := range creates {
		insertMods = append(insertMods, im.Values(psql.Arg(c.UserID, c.Kind, c.Title, c.Message, c.ReferenceID)))
	}
	_, err := bob.Exec(ctx, w.tx, psql.Insert(insertMods...))
	return err
}

// MarkRead flags the given notifications of userID as read. An empty ids
// slice marks all of the user's notifications. It returns the number of rows
// changed.
func (w *Writer) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(TableName),
		um.SetCol("is_read").ToArg(true),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		um.Where(psql.Quote("is_read").EQ(psql.Arg(false))),
	}
	if len(ids) > 0 {
		args := make([]bob.Expression, len(ids))
		for i, id := range ids {
			args[i] = psql.Arg(id)
		}
		updateMods = append(updateMods, um.Where(psql.Quote("id").In(args...)))
	}
	res, err := bob.Exec(ctx, w.tx, psql.Update(updateMods...))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
