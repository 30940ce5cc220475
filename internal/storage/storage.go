package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = sqlconfig.ErrNotFound

// Storage is the entry point to persistence. Reads go through the embedded
// Reader; every mutation goes through a Writer obtained from Write.
type Storage struct {
	*Reader

	begin func(ctx context.Context) (*Writer, error)
	ping  func(ctx context.Context) error
	close func() error
}

// New assembles a Storage from backend functions.
func New(reader *Reader, begin func(ctx context.Context) (*Writer, error), ping func(ctx context.Context) error, closeFn func() error) *Storage {
	return &Storage{
		Reader: reader,
		begin:  begin,
		ping:   ping,
		close:  closeFn,
	}
}

// NewPostgres opens a lib/pq connection pool. Nothing is sent to the server
// until the first query or Ping.
func NewPostgres(connStr string) (*Storage, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db := bob.NewDB(sqlDB)

	begin := func(ctx context.Context) (*Writer, error) {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		return NewWriter(tx), nil
	}
	return New(NewReader(db), begin, sqlDB.PingContext, sqlDB.Close), nil
}

// Write starts a database transaction.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	return s.close()
}
