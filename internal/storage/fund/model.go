package fund

import (
	"errors"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "funds"

// ErrInsufficientBalance is returned by Debit when the fund exists but its
// balance is lower than the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

var columns = []any{
	"id", "name", "description", "fund_type", "target_amount",
	"current_balance", "starting_balance", "created_by", "created_at", "updated_at",
}

// Fund represents a funds record.
type Fund struct {
	ID              uuid.UUID        `db:"id"`
	Name            string           `db:"name"`
	Description     *string          `db:"description"`
	FundType        *string          `db:"fund_type"`
	TargetAmount    *decimal.Decimal `db:"target_amount"`
	CurrentBalance  decimal.Decimal  `db:"current_balance"`
	StartingBalance decimal.Decimal  `db:"starting_balance"`
	CreatedBy       *uuid.UUID       `db:"created_by"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at"`
}

// FundCreate is the input for creating a fund. StartingBalance is also the
// initial current balance.
type FundCreate struct {
	Name            string
	Description     *string
	FundType        *string
	TargetAmount    *decimal.Decimal
	StartingBalance decimal.Decimal
	CreatedBy       *uuid.UUID
}

// FundUpdate lists the metadata columns to change. Unset fields are left
// alone. Balances are never written through an update.
type FundUpdate struct {
	Name         omit.Val[string]
	Description  omit.Val[*string]
	FundType     omit.Val[*string]
	TargetAmount omit.Val[*decimal.Decimal]
}

// IsEmpty reports whether no column is set.
func (u *FundUpdate) IsEmpty() bool {
	return u == nil || (!u.Name.IsSet() && !u.Description.IsSet() && !u.FundType.IsSet() && !u.TargetAmount.IsSet())
}

// Apply returns a copy of f with the update's set fields applied.
func (u *FundUpdate) Apply(f Fund) Fund {
	if u == nil {
		return f
	}
	if v, ok := u.Name.Get(); ok {
		f.Name = v
	}
	if v, ok := u.Description.Get(); ok {
		f.Description = v
	}
	if v, ok := u.FundType.Get(); ok {
		f.FundType = v
	}
	if v, ok := u.TargetAmount.Get(); ok {
		f.TargetAmount = v
	}
	return f
}

// FundFilter specifies filters for listing funds.
type FundFilter struct {
	Limit  int
	Offset int
}

// FundListResult contains a page of funds and an optional next cursor.
type FundListResult struct {
	Funds      []*Fund
	NextCursor *sqlconfig.Cursor
}
