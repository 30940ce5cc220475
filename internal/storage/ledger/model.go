package ledger

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const (
	EntriesTable   = "ledger_entries"
	SubgroupsTable = "ledger_subgroups"
)

var entryColumns = []any{"id", "title", "description", "entry_date", "created_by", "created_at", "updated_at"}

var subgroupColumns = []any{"id", "ledger_entry_id", "name", "purpose", "created_at", "updated_at"}

// Entry is a top-level grouping of bills used for reporting.
type Entry struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	EntryDate   time.Time  `db:"entry_date"`
	CreatedBy   *uuid.UUID `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type EntryCreate struct {
	Title       string
	Description *string
	EntryDate   time.Time
	CreatedBy   *uuid.UUID
}

type EntryUpdate struct {
	Title       omit.Val[string]
	Description omit.Val[*string]
	EntryDate   omit.Val[time.Time]
}

type EntryFilter struct {
	Limit  int
	Offset int
}

type EntryListResult struct {
	Entries    []*Entry
	NextCursor *sqlconfig.Cursor
}

// Subgroup belongs to one entry and is removed with it.
type Subgroup struct {
	ID            uuid.UUID `db:"id"`
	LedgerEntryID uuid.UUID `db:"ledger_entry_id"`
	Name          string    `db:"name"`
	Purpose       *string   `db:"purpose"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type SubgroupCreate struct {
	LedgerEntryID uuid.UUID
	Name          string
	Purpose       *string
}

type SubgroupUpdate struct {
	Name    omit.Val[string]
	Purpose omit.Val[*string]
}
