package member

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
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

func (w *Writer) Insert(ctx context.Context, create *MemberCreate) (uuid.UUID, error) {
	status := create.Status
	if status == "" {
		status = StatusActive
	}
	q := psql.Insert(
		im.Into(TableName, "first_name", "last_name", "email", "phone", "address", "status", "membership_date", "notes"),
		im.Values(psql.Arg(
			create.FirstName,
			create.LastName,
			create.Email,
			create.Phone,
			create.Address,
			status,
			create.MembershipDate,
			create.Notes,
		)),
		im.Returning("id"),
	)
	return bob.One(ctx, w.tx, q, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *MemberUpdate) error {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(TableName),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if update != nil {
		if v, ok := update.FirstName.Get(); ok {
			updateMods = append(updateMods, um.SetCol("first_name").ToArg(v))
		}
		if v, ok := update.LastName.Get(); ok {
			updateMods = append(updateMods, um.SetCol("last_name").ToArg(v))
		}
		if v, ok := update.Email.Get(); ok {
			updateMods = append(updateMods, um.SetCol("email").ToArg(v))
		}
		if v, ok := update.Phone.Get(); ok {
			updateMods = append(updateMods, um.SetCol("phone").ToArg(v))
		}
		if v, ok := update.Address.Get(); ok {
			updateMods = append(updateMods, um.SetCol("address").ToArg(v))
		}
		if v, ok := update.Status.Get(); ok {
			updateMods = append(updateMods, um.SetCol("status").ToArg(v))
		}
		if v, ok := update.MembershipDate.Get(); ok {
			updateMods = append(updateMods, um.SetCol("membership_date").ToArg(v))
		}
		if v, ok := update.Notes.Get(); ok {
			updateMods = append(updateMods, um.SetCol("notes").ToArg(v))
		}
	}
	return sqlconfig.RequireAffected(bob.Exec(ctx, w.tx, psql.Update(updateMods...)))
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(TableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return sqlconfig.RequireAffected(bob.Exec(ctx, w.tx, q))
}
