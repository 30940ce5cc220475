package ledger

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

func (w *Writer) InsertEntry(ctx context.Context, create *EntryCreate) (uuid.UUID, error) {
	q := psql.Insert(
		im.Into(EntriesTable, "title", "description", "entry_date", "created_by"),
		im.Values(psql.Arg(create.Title, create.Description, create.EntryDate, create.CreatedBy)),
		im.Returning("id"),
	)
	return bob.One(ctx, w.tx, q, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) UpdateEntry(ctx context.Context, id uuid.UUID, update *EntryUpdate) error {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(EntriesTable),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if update != nil {
		if v, ok := update.Title.Get(); ok {
			updateMods = append(updateMods, um.SetCol("title").ToArg(v))
		}
		if v, ok := update.Description.Get(); ok {
			updateMods = append(updateMods, um.SetCol("description").ToArg(v))
		}
		if v, ok := update.EntryDate.Get(); ok {
			updateMods = append(updateMods, um.SetCol("entry_date").ToArg(v))
		}
	}
	return sqlconfig.RequireAffected(bob.Exec(ctx, w.tx, psql.Update(updateMods...)))
}

// DeleteEntry removes the entry. Its subgroups cascade and attached bills
// lose their ledger references.
func (w *Writer) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(EntriesTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return sqlconfig.RequireAffected(bob.Exec(ctx, w.tx, q))
}

func (w *Writer) InsertSubgroup(ctx context.Context, create *SubgroupCreate) (uuid.UUID, error) {
	q := psql.Insert(
		im.Into(SubgroupsTable, "ledger_entry_id", "name", "purpose"),
		im.Values(psql.Arg(create.LedgerEntryID, create.Name, create.Purpose)),
		im.Returning("id"),
	)
	return bob.One(ctx, w.tx, q, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) UpdateSubgroup(ctx context.Context, id uuid.UUID, update *SubgroupUpdate) error {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(SubgroupsTable),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if update != nil {
		if v, ok := update.Name.Get(); ok {
			updateMods = append(updateMods, um.SetCol("name").ToArg(v))
		}
		if v, ok := update.Purpose.Get(); ok {
			updateMods = append(updateMods, um.SetCol("purpose").ToArg(v))
		}
	}
	return sqlconfig.RequireAffected(bob.Exec(ctx, w.tx, psql.Update(updateMods...)))
}

func (w *Writer) DeleteSubgroup(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(SubgroupsTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return sqlconfig.RequireAffected(bob.Exec(ctx, w.tx, q))
}
