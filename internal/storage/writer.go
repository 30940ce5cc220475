package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
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

type FundWriter interface {
	FundReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*fund.Fund, error)
	Insert(ctx context.Context, create *fund.FundCreate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *fund.FundUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Adjust(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

type TransactionWriter interface {
	TransactionReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	Insert(ctx context.Context, create *transaction.TransactionCreate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *transaction.TransactionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (int64, error)
}

type BillWriter interface {
	BillReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*bill.Bill, error)
	Insert(ctx context.Context, create *bill.BillCreate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *bill.BillUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OfferingWriter interface {
	OfferingReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*offering.Offering, error)
	Insert(ctx context.Context, create *offering.OfferingCreate) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberWriter interface {
	MemberReader
	Insert(ctx context.Context, create *member.MemberCreate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *member.MemberUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LedgerWriter interface {
	LedgerReader
	InsertEntry(ctx context.Context, create *ledger.EntryCreate) (uuid.UUID, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, update *ledger.EntryUpdate) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	InsertSubgroup(ctx context.Context, create *ledger.SubgroupCreate) (uuid.UUID, error)
	UpdateSubgroup(ctx context.Context, id uuid.UUID, update *ledger.SubgroupUpdate) error
	DeleteSubgroup(ctx context.Context, id uuid.UUID) error
}

type NotificationWriter interface {
	NotificationReader
	InsertMany(ctx context.Context, creates []*notification.NotificationCreate) error
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type TransferWriter interface {
	TransferReader
	Claim(ctx context.Context, req *transfer.Request) (bool, error)
}

// Writer groups the write side of every table inside one database
// transaction. Exactly one of Commit or Rollback must be called.
type Writer struct {
	Funds         FundWriter
	Transactions  TransactionWriter
	Bills         BillWriter
	Offerings     OfferingWriter
	Members       MemberWriter
	Ledger        LedgerWriter
	Notifications NotificationWriter
	Profiles      ProfileReader
	Transfers     TransferWriter

	commit   func(ctx context.Context) error
	rollback func(ctx context.Context) error
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		Funds:         fund.NewWriter(tx),
		Transactions:  transaction.NewWriter(tx),
		Bills:         bill.NewWriter(tx),
		Offerings:     offering.NewWriter(tx),
		Members:       member.NewWriter(tx),
		Ledger:        ledger.NewWriter(tx),
		Notifications: notification.NewWriter(tx),
		Profiles:      profile.NewReader(tx),
		Transfers:     transfer.NewWriter(tx),
		commit:        tx.Commit,
		rollback:      tx.Rollback,
	}
}

// WithTxFuncs sets the functions that end the transaction. Backends other
// than Postgres build a Writer from their own table types and use this to
// attach their commit and rollback.
func (w *Writer) WithTxFuncs(commit, rollback func(ctx context.Context) error) *Writer {
	w.commit = commit
	w.rollback = rollback
	return w
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.rollback(ctx)
}
