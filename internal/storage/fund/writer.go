package fund

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
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

// FindByIDForUpdate reads a fund and holds a row lock until the transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Fund, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sqlconfig.WhereID(id),
		sm.ForUpdate(),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[*Fund]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

func (w *Writer) Insert(ctx context.Context, create *FundCreate) (uuid.UUID, error) {
	q := psql.Insert(
		im.Into(TableName, "name", "description", "fund_type", "target_amount", "current_balance", "starting_balance", "created_by"),
		im.Values(psql.Arg(
			create.Name,
			create.Description,
			create.FundType,
			create.TargetAmount,
			create.StartingBalance,
			create.StartingBalance,
			create.CreatedBy,
		)),
		im.Returning("id"),
	)
	return bob.One(ctx, w.tx, q, scan.SingleColumnMapper[uuid.UUID])
}

func (w *Writer) Update(ctx context.Context, id uuid.UUID, update *FundUpdate) error {
	updateMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(TableName),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if update != nil {
		if v, ok := update.Name.Get(); ok {
			updateMods = append(updateMods, um.SetCol("name").ToArg(v))
		}
		if v, ok := update.Description.Get(); ok {
			updateMods = append(updateMods, um.SetCol("description").ToArg(v))
		}
		if v, ok := update.FundType.Get(); ok {
			updateMods = append(updateMods, um.SetCol("fund_type").ToArg(v))
		}
		if v, ok := update.TargetAmount.Get(); ok {
			updateMods = append(updateMods, um.SetCol("target_amount").ToArg(v))
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

// Debit subtracts amount from the balance only if the balance covers it, in a
// single statement, and returns the new balance.
func (w *Writer) Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("current_balance").To(psql.Raw("current_balance - ?", amount)),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("current_balance").GTE(psql.Arg(amount))),
		um.Returning("current_balance"),
	)
	balance, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[decimal.Decimal])
	if err == nil {
		return balance, nil
	}
	if !errors.Is(sqlconfig.NotFound(err), sqlconfig.ErrNotFound) {
		return decimal.Zero, err
	}

	if _, err := w.FindByID(ctx, id); err != nil {
		return decimal.Zero, err
	}
	return decimal.Zero, ErrInsufficientBalance
}

// Adjust adds delta (which may be negative) to the balance and returns the
// new balance.
func (w *Writer) Adjust(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	q := psql.Update(
		um.Table(TableName),
		um.SetCol("current_balance").To(psql.Raw("current_balance + ?", delta)),
		um.SetCol("updated_at").To(psql.Raw("now()")),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning("current_balance"),
	)
	balance, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, sqlconfig.NotFound(err)
	}
	return balance, nil
}
