package bill

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
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

// FindByIDForUpdate reads a bill and locks it so concurrent status changes
// serialise.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
		sm.ForUpdate(),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[*Bill]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

func (w *Writer) Insert(ctx context.Context, create *BillCreate) (uuid.UUID, error) {
	status := create.Status.Stored()
	if status == "" {
		status = StatusPending
	}
	q := psql.Insert(
		im.Into(TableName, "vendor", "description", "amount", "due_date", "status", "category",
			"fund_id", "ledger_entry_id", "ledger_subgroup_id", "paid_date", "notes", "created_by"),
		im.Values(psql.Arg(
			create.Vendor,
			create.Description,
			create.Amount,
			create.DueDate,
			string(status),
			create.Category,
			create.FundID,
			create.LedgerEntryID,
			create.LedgerSubgroupID,
			create.PaidDate,
			create.Notes,
			create.CreatedBy,
		)),
		im.Returning("id"),
	)
	return bob.One(ctx, w.tx, q, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *BillUpdate) error {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(TableName),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if update != nil {
		if v, ok := update.Vendor.Get(); ok {
			updateMods = append(updateMods, um.SetCol("vendor").ToArg(v))
		}
		if v, ok := update.Description.Get(); ok {
			updateMods = append(updateMods, um.SetCol("description").ToArg(v))
		}
		if v, ok := update.Amount.Get(); ok {
			updateMods = append(updateMods, um.SetCol("amount").ToArg(v))
		}
		if v, ok := update.DueDate.Get(); ok {
			updateMods = append(updateMods, um.SetCol("due_date").ToArg(v))
		}
		if v, ok := update.Status.Get(); ok {
			updateMods = append(updateMods, um.SetCol("status").ToArg(string(v.Stored())))
		}
		if v, ok := update.Category.Get(); ok {
			updateMods = append(updateMods, um.SetCol("category").ToArg(v))
		}
		if v, ok := update.FundID.Get(); ok {
			updateMods = append(updateMods, um.SetCol("fund_id").ToArg(v))
		}
		if v, ok := update.LedgerEntryID.Get(); ok {
			updateMods = append(updateMods, um.SetCol("ledger_entry_id").ToArg(v))
		}
		if v, ok := update.LedgerSubgroupID.Get(); ok {
			updateMods = append(updateMods, um.SetCol("ledger_subgroup_id").ToArg(v))
		}
		if v, ok := update.PaidDate.Get(); ok {
			updateMods = append(updateMods, um.SetCol("paid_date").ToArg(v))
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
