package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/storage"
)

// IAction is a unit of work run inside one database transaction.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// Func adapts a plain function to IAction for single-table writes that need
// no state of their own.
type Func func(ctx context.Context, writer *storage.Writer) error

func (f Func) Perform(ctx context.Context, writer *storage.Writer) error {
	return f(ctx, writer)
}

// ErrInsufficientFunds rejects a debit larger than the fund balance.
var ErrInsufficientFunds = apperr.Validation("Insufficient funds")

// NotFound converts storage.ErrNotFound into a caller-facing not-found error
// naming resource.
func NotFound(err error, resource string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}
