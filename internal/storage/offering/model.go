package offering

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "offerings"

var columns = []any{
	"id", "amount", "fund_id", "member_id", "offering_type", "offering_date",
	"notes", "created_by", "created_at",
}

// Offering represents an offerings record. Each offering owns exactly one
// income transaction referencing it.
type Offering struct {
	ID           uuid.UUID       `db:"id"`
	Amount       decimal.Decimal `db:"amount"`
	FundID       uuid.UUID       `db:"fund_id"`
	MemberID     *uuid.UUID      `db:"member_id"`
	OfferingType string          `db:"offering_type"`
	OfferingDate time.Time       `db:"offering_date"`
	Notes        *string         `db:"notes"`
	CreatedBy    *uuid.UUID      `db:"created_by"`
	CreatedAt    time.Time       `db:"created_at"`
}

type OfferingCreate struct {
	Amount       decimal.Decimal
	FundID       uuid.UUID
	MemberID     *uuid.UUID
	OfferingType string
	OfferingDate time.Time
	Notes        *string
	CreatedBy    *uuid.UUID
}

type OfferingFilter struct {
	FundID   *uuid.UUID
	MemberID *uuid.UUID
	Limit    int
	Offset   int
}

type OfferingListResult struct {
	Offerings  []*Offering
	NextCursor *sqlconfig.Cursor
}
