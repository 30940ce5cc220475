package bill

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "bills"

var columns = []any{
	"id", "vendor", "description", "amount", "due_date", "status", "category",
	"fund_id", "ledger_entry_id", "ledger_subgroup_id", "paid_date", "notes",
	"created_by", "created_at", "updated_at",
}

// Status is the stored bill status. Overdue is never stored; it is derived
// from the due date when a pending bill is read.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Stored folds the derived overdue label back to pending.
func (s Status) Stored() Status {
	if s == StatusOverdue {
		return StatusPending
	}
	return s
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Bill represents a bills record.
type Bill struct {
	ID               uuid.UUID       `db:"id"`
	Vendor           string          `db:"vendor"`
	Description      *string         `db:"description"`
	Amount           decimal.Decimal `db:"amount"`
	DueDate          time.Time       `db:"due_date"`
	Status           Status          `db:"status"`
	Category         *string         `db:"category"`
	FundID           *uuid.UUID      `db:"fund_id"`
	LedgerEntryID    *uuid.UUID      `db:"ledger_entry_id"`
	LedgerSubgroupID *uuid.UUID      `db:"ledger_subgroup_id"`
	PaidDate         *time.Time      `db:"paid_date"`
	Notes            *string         `db:"notes"`
	CreatedBy        *uuid.UUID      `db:"created_by"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// DisplayStatus is the status shown to callers: a pending bill whose due
// date is before the start of now's UTC day is overdue.
func (b *Bill) DisplayStatus(now time.Time) Status {
	if b.Status != StatusPending {
		return b.Status
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if b.DueDate.UTC().Before(today) {
		return StatusOverdue
	}
	return StatusPending
}

type BillCreate struct {
	Vendor           string
	Description      *string
	Amount           decimal.Decimal
	DueDate          time.Time
	Status           Status
	Category         *string
	FundID           *uuid.UUID
	LedgerEntryID    *uuid.UUID
	LedgerSubgroupID *uuid.UUID
	PaidDate         *time.Time
	Notes            *string
	CreatedBy        *uuid.UUID
}

// BillUpdate lists the columns to change. Unset fields are left alone.
type BillUpdate struct {
	Vendor           omit.Val[string]
	Description      omit.Val[*string]
	Amount           omit.Val[decimal.Decimal]
	DueDate          omit.Val[time.Time]
	Status           omit.Val[Status]
	Category         omit.Val[*string]
	FundID           omit.Val[*uuid.UUID]
	LedgerEntryID    omit.Val[*uuid.UUID]
	LedgerSubgroupID omit.Val[*uuid.UUID]
	PaidDate         omit.Val[*time.Time]
	Notes            omit.Val[*string]
}

// Apply returns a copy of b with the update's set fields applied.
func (u *BillUpdate) Apply(b Bill) Bill {
	if u == nil {
		return b
	}
	if v, ok := u.Vendor.Get(); ok {
		b.Vendor = v
	}
	if v, ok := u.Description.Get(); ok {
		b.Description = v
	}
	if v, ok := u.Amount.Get(); ok {
		b.Amount = v
	}
	if v, ok := u.DueDate.Get(); ok {
		b.DueDate = v
	}
	if v, ok := u.Status.Get(); ok {
		b.Status = v.Stored()
	}
	if v, ok := u.Category.Get(); ok {
		b.Category = v
	}
	if v, ok := u.FundID.Get(); ok {
		b.FundID = v
	}
	if v, ok := u.LedgerEntryID.Get(); ok {
		b.LedgerEntryID = v
	}
	if v, ok := u.LedgerSubgroupID.Get(); ok {
		b.LedgerSubgroupID = v
	}
	if v, ok := u.PaidDate.Get(); ok {
		b.PaidDate = v
	}
	if v, ok := u.Notes.Get(); ok {
		b.Notes = v
	}
	return b
}

// BillFilter specifies filters for listing bills. Status overdue selects
// pending bills due before DueBefore.
type BillFilter struct {
	Status        *Status
	FundID        *uuid.UUID
	LedgerEntryID *uuid.UUID
	DueBefore     *time.Time
	Limit         int
	Offset        int
}

type BillListResult struct {
	Bills      []*Bill
	NextCursor *sqlconfig.Cursor
}

// EntryTotals summarises the bills attached to a ledger entry.
type EntryTotals struct {
	Count   int             `db:"bill_count"`
	Total   decimal.Decimal `db:"total"`
	Paid    decimal.Decimal `db:"paid"`
	Pending decimal.Decimal `db:"pending"`
}
