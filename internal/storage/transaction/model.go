package transaction

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "transactions"

var columns = []any{
	"id", "type", "amount", "description", "category", "fund_id",
	"reference_id", "reference_type", "created_by", "transaction_date", "created_at",
}

type Type string

const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Reference types tie a transaction to the workflow that created it.
const (
	ReferenceTransfer = "transfer"
	ReferenceBill     = "bill"
	ReferenceOffering = "offering"
)

// Signed returns the effect of a transaction of type t on its fund's
// balance: income adds, expense subtracts, a bare transfer row has no effect
// because transfers are recorded as an expense/income pair.
func Signed(t Type, amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TypeIncome:
		return amount
	case TypeExpense:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// Transaction represents a transactions record.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	Type            Type            `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	Category        string          `db:"category"`
	FundID          uuid.UUID       `db:"fund_id"`
	ReferenceID     *uuid.UUID      `db:"reference_id"`
	ReferenceType   *string         `db:"reference_type"`
	CreatedBy       *uuid.UUID      `db:"created_by"`
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// SignedAmount is the transaction's effect on its fund balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return Signed(t.Type, t.Amount)
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	Type            Type
	Amount          decimal.Decimal
	Description     string
	Category        string
	FundID          uuid.UUID
	ReferenceID     *uuid.UUID
	ReferenceType   *string
	CreatedBy       *uuid.UUID
	TransactionDate time.Time // defaults to now if zero
}

// SignedAmount is the effect the new transaction will have on its fund.
func (c *TransactionCreate) SignedAmount() decimal.Decimal {
	return Signed(c.Type, c.Amount)
}

// TransactionUpdate lists the columns to change. Unset fields are left alone.
type TransactionUpdate struct {
	Type            omit.Val[Type]
	Amount          omit.Val[decimal.Decimal]
	Description     omit.Val[string]
	Category        omit.Val[string]
	FundID          omit.Val[uuid.UUID]
	TransactionDate omit.Val[time.Time]
}

// Apply returns a copy of t with the update's set fields applied.
func (u *TransactionUpdate) Apply(t Transaction) Transaction {
	if u == nil {
		return t
	}
	if v, ok := u.Type.Get(); ok {
		t.Type = v
	}
	if v, ok := u.Amount.Get(); ok {
		t.Amount = v
	}
	if v, ok := u.Description.Get(); ok {
		t.Description = v
	}
	if v, ok := u.Category.Get(); ok {
		t.Category = v
	}
	if v, ok := u.FundID.Get(); ok {
		t.FundID = v
	}
	if v, ok := u.TransactionDate.Get(); ok {
		t.TransactionDate = v
	}
	return t
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	FundID          *uuid.UUID
	Type            *Type
	ReferenceID     *uuid.UUID
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*Transaction
	NextCursor   *sqlconfig.Cursor
}

// FundTotals are the per-type sums of a fund's transactions.
type FundTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (t FundTotals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}
