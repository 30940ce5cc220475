// Package memory is a map-backed storage backend with the same semantics as
// the Postgres one, including foreign-key cascades. A Writer holds an
// exclusive lock on a copy of the data and Commit swaps the copy in, so a
// rolled back Writer leaves no trace.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
	"github.com/carson-networks/church-finance/internal/storage/member"
	"github.com/carson-networks/church-finance/internal/storage/notification"
	"github.com/carson-networks/church-finance/internal/storage/offering"
	"github.com/carson-networks/church-finance/internal/storage/profile"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
	"github.com/carson-networks/church-finance/internal/storage/transfer"
)

var errTxDone = errors.New("memory: transaction already committed or rolled back")

type state struct {
	funds         map[uuid.UUID]fund.Fund
	transactions  map[uuid.UUID]transaction.Transaction
	bills         map[uuid.UUID]bill.Bill
	offerings     map[uuid.UUID]offering.Offering
	members       map[uuid.UUID]member.Member
	entries       map[uuid.UUID]ledger.Entry
	subgroups     map[uuid.UUID]ledger.Subgroup
	notifications map[uuid.UUID]notification.Notification
	profiles      map[uuid.UUID]profile.Profile
	transfers     map[string]transfer.Request
}

func newState() *state {
	return &state{
		funds:         map[uuid.UUID]fund.Fund{},
		transactions:  map[uuid.UUID]transaction.Transaction{},
		bills:         map[uuid.UUID]bill.Bill{},
		offerings:     map[uuid.UUID]offering.Offering{},
		members:       map[uuid.UUID]member.Member{},
		entries:       map[uuid.UUID]ledger.Entry{},
		subgroups:     map[uuid.UUID]ledger.Subgroup{},
		notifications: map[uuid.UUID]notification.Notification{},
		profiles:      map[uuid.UUID]profile.Profile{},
		transfers:     map[string]transfer.Request{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		funds:         cloneMap(s.funds),
		transactions:  cloneMap(s.transactions),
		bills:         cloneMap(s.bills),
		offerings:     cloneMap(s.offerings),
		members:       cloneMap(s.members),
		entries:       cloneMap(s.entries),
		subgroups:     cloneMap(s.subgroups),
		notifications: cloneMap(s.notifications),
		profiles:      cloneMap(s.profiles),
		transfers:     cloneMap(s.transfers),
	}
}

// DB owns the committed state.
type DB struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

func NewDB() *DB {
	return &DB{
		st: newState(),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// New returns a Storage backed by a fresh DB.
func New() *storage.Storage {
	return NewDB().Storage()
}

// Storage wraps the DB in the storage API.
func (db *DB) Storage() *storage.Storage {
	v := view{db: db}
	reader := &storage.Reader{
		Funds:         fundTable{v},
		Transactions:  transactionTable{v},
		Bills:         billTable{v},
		Offerings:     offeringTable{v},
		Members:       memberTable{v},
		Ledger:        ledgerTable{v},
		Notifications: notificationTable{v},
		Profiles:      profileTable{v},
		Transfers:     transferTable{v},
	}
	ping := func(context.Context) error { return nil }
	closeFn := func() error { return nil }
	return storage.New(reader, db.begin, ping, closeFn)
}

// PutProfile seeds a user profile, standing in for the identity provider.
func (db *DB) PutProfile(p profile.Profile) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = db.now()
	}
	db.st.profiles[p.ID] = p
}

func (db *DB) begin(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.mu.Lock()
	v := view{db: db, tx: db.st.clone()}

	var once sync.Once
	end := func(apply bool) error {
		err := errTxDone
		once.Do(func() {
			if apply {
				db.st = v.tx
			}
			db.mu.Unlock()
			err = nil
		})
		return err
	}

	w := &storage.Writer{
		Funds:         fundTable{v},
		Transactions:  transactionTable{v},
		Bills:         billTable{v},
		Offerings:     offeringTable{v},
		Members:       memberTable{v},
		Ledger:        ledgerTable{v},
		Notifications: notificationTable{v},
		Profiles:      profileTable{v},
		Transfers:     transferTable{v},
	}
	return w.WithTxFuncs(
		func(context.Context) error { return end(true) },
		func(context.Context) error { return end(false) },
	), nil
}

// view is either the committed state under a read lock or a writer's copy.
type view struct {
	db *DB
	tx *state
}

func (v view) read(fn func(s *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	fn(v.db.st)
}

func (v view) now() time.Time {
	return v.db.now()
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// paginate applies the same limit/offset/next-cursor rules as the SQL readers.
func paginate[T any](rows []T, limit, offset int) ([]T, *sqlconfig.Cursor) {
	limit, offset = sqlconfig.Page(limit, offset)
	if offset >= len(rows) {
		return nil, nil
	}
	end := offset + limit + 1
	if end > len(rows) {
		end = len(rows)
	}
	return sqlconfig.Trim(rows[offset:end], limit, offset)
}

func sortBy[T any](rows []T, less func(a, b T) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func ptr[T any](v T) *T {
	return &v
}

func idLess(a, b uuid.UUID) bool {
	return a.String() < b.String()
}
