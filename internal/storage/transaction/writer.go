package transaction

import (
	"context"
	"time"

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

// FindByIDForUpdate reads a transaction and locks the row so concurrent edits
// revert the balance effect the row actually has.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
		sm.ForUpdate(),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

// Insert creates a new transaction and returns its generated ID.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error) {
	transactionDate := create.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = time.Now().UTC()
	}
	q := psql.Insert(
		im.Into(TableName, "type", "amount", "description", "category", "fund_id", "reference_id", "reference_type", "created_by", "transaction_date"),
		im.Values(psql.Arg(
			string(create.Type),
			create.Amount,
			create.Description,
			create.Category,
			create.FundID,
			create.ReferenceID,
			create.ReferenceType,
			create.CreatedBy,
			transactionDate,
		)),
		im.Returning("id"),
	)
	return bob.One(ctx, w.tx, q, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *TransactionUpdate) error {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(TableName),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	set := 0
	if update != nil {
		if v, ok := update.Type.Get(); ok {
			updateMods = append(updateMods, um.SetCol("type").ToArg(string(v)))
			set++
		}
		if v, ok := update.Amount.Get(); ok {
			updateMods = append(updateMods, um.SetCol("amount").ToArg(v))
			set++
		}
		if v, ok := update.Description.Get(); ok {
			updateMods = append(updateMods, um.SetCol("description").ToArg(v))
			set++
		}
		if v, ok := update.Category.Get(); ok {
			updateMods = append(updateMods, um.SetCol("category").ToArg(v))
			set++
		}
		if v, ok := update.FundID.Get(); ok {
			updateMods = append(updateMods, um.SetCol("fund_id").ToArg(v))
			set++
		}
		if v, ok := update.TransactionDate.Get(); ok {
			updateMods = append(updateMods, um.SetCol("transaction_date").ToArg(v))
			set++
		}
	}
	if set == 0 {
		_, err := w.FindByID(ctx, id)
		return err
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

// DeleteByReference removes every transaction created by the given workflow
// record and returns how many were removed.
func (w *Writer) DeleteByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (int64, error) {
	q := psql.Delete(
		dm.From(TableName),
		dm.Where(psql.Quote("reference_type").EQ(psql.Arg(referenceType))),
		dm.Where(psql.Quote("reference_id").EQ(psql.Arg(referenceID))),
	)
	res, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
