// Package transfer stores idempotency keys for fund transfers. A request row
// is written in the same database transaction as the transfer it describes,
// so a key exists only for transfers that committed.
package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "transfer_requests"

var columns = []any{"idempotency_key", "from_fund_id", "to_fund_id", "amount", "description", "reference_id", "created_at"}

type Request struct {
	IdempotencyKey string          `db:"idempotency_key"`
	FromFundID     uuid.UUID       `db:"from_fund_id"`
	ToFundID       uuid.UUID       `db:"to_fund_id"`
	Amount         decimal.Decimal `db:"amount"`
	Description    string          `db:"description"`
	ReferenceID    uuid.UUID       `db:"reference_id"`
	CreatedAt      time.Time       `db:"created_at"`
}

// SameParameters reports whether o asks for the same transfer as r.
func (r *Request) SameParameters(o *Request) bool {
	return r.FromFundID == o.FromFundID &&
		r.ToFundID == o.ToFundID &&
		r.Amount.Equal(o.Amount) &&
		r.Description == o.Description
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) Find(ctx context.Context, key string) (*Request, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(TableName),
		sm.Where(psql.Quote("idempotency_key").EQ(psql.Arg(key))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[*Request]())
	if err != nil {
		return nil, sqlconfig.NotFound(err)
	}
	return row, nil
}

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

// Claim inserts the request unless its key already exists. It reports
// whether this call wrote the row. When another open transaction holds the
// same key, Claim blocks until that transaction ends.
func (w *Writer) Claim(ctx context.Context, req *Request) (bool, error) {
	q := psql.Insert(
		im.Into(TableName, "idempotency_key", "from_fund_id", "to_fund_id", "amount", "description", "reference_id"),
		im.Values(psql.Arg(req.IdempotencyKey, req.FromFundID, req.ToFundID, req.Amount, req.Description, req.ReferenceID)),
		im.OnConflict("idempotency_key").DoNothing(),
		im.Returning("idempotency_key"),
	)
	_, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[string])
	if err == nil {
		return true, nil
	}
	if errors.Is(sqlconfig.NotFound(err), sqlconfig.ErrNotFound) {
		return false, nil
	}
	return false, err
}
