package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
	"github.com/carson-networks/church-finance/internal/storage/member"
	"github.com/carson-networks/church-finance/internal/storage/notification"
	"github.com/carson-networks/church-finance/internal/storage/offering"
	"github.com/carson-networks/church-finance/internal/storage/profile"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
	"github.com/carson-networks/church-finance/internal/storage/transfer"
)

type FundReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error)
	List(ctx context.Context, filter *fund.FundFilter) (*fund.FundListResult, error)
	ListAll(ctx context.Context) ([]*fund.Fund, error)
}

type TransactionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	List(ctx context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error)
	ListByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]*transaction.Transaction, error)
	TotalsByFund(ctx context.Context) (map[uuid.UUID]transaction.FundTotals, error)
}

type BillReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*bill.Bill, error)
	List(ctx context.Context, filter *bill.BillFilter) (*bill.BillListResult, error)
	TotalsByLedgerEntry(ctx context.Context, entryID uuid.UUID) (*bill.EntryTotals, error)
}

type OfferingReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*offering.Offering, error)
	List(ctx context.Context, filter *offering.OfferingFilter) (*offering.OfferingListResult, error)
}

type MemberReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error)
	List(ctx context.Context, filter *member.MemberFilter) (*member.MemberListResult, error)
}

type LedgerReader interface {
	FindEntry(ctx context.Context, id uuid.UUID) (*ledger.Entry, error)
	ListEntries(ctx context.Context, filter *ledger.EntryFilter) (*ledger.EntryListResult, error)
	FindSubgroup(ctx context.Context, id uuid.UUID) (*ledger.Subgroup, error)
	ListSubgroups(ctx context.Context, entryID *uuid.UUID) ([]*ledger.Subgroup, error)
}

type NotificationReader interface {
	List(ctx context.Context, filter *notification.NotificationFilter) (*notification.NotificationListResult, error)
}

type ProfileReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	ListByRole(ctx context.Context, role string) ([]*profile.Profile, error)
}

type TransferReader interface {
	Find(ctx context.Context, key string) (*transfer.Request, error)
}

// Reader groups the read side of every table. Outside a Writer each call
// runs on its own connection.
type Reader struct {
	Funds         FundReader
	Transactions  TransactionReader
	Bills         BillReader
	Offerings     OfferingReader
	Members       MemberReader
	Ledger        LedgerReader
	Notifications NotificationReader
	Profiles      ProfileReader
	Transfers     TransferReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Funds:         fund.NewReader(exec),
		Transactions:  transaction.NewReader(exec),
		Bills:         bill.NewReader(exec),
		Offerings:     offering.NewReader(exec),
		Members:       member.NewReader(exec),
		Ledger:        ledger.NewReader(exec),
		Notifications: notification.NewReader(exec),
		Profiles:      profile.NewReader(exec),
		Transfers:     transfer.NewReader(exec),
	}
}
