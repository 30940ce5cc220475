package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage"
)

// Processor runs an action inside a database transaction. The operator
// delegator is the production implementation.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Fund         *FundService
	Transaction  *TransactionService
	Bill         *BillService
	Offering     *OfferingService
	Member       *MemberService
	Ledger       *LedgerService
	Notification *NotificationService
}

// NewService wires every service to the same storage, processor and
// publisher. A nil publisher drops events.
func NewService(store *storage.Storage, processor Processor, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	d := &deps{
		reader:    store.Reader,
		processor: processor,
		publisher: publisher,
		logger:    logrus.StandardLogger(),
		now:       func() time.Time { return time.Now().UTC() },
		backoff:   defaultReadBackoff,
	}
	return &Service{
		Fund:         &FundService{d},
		Transaction:  &TransactionService{d},
		Bill:         &BillService{d},
		Offering:     &OfferingService{d},
		Member:       &MemberService{d},
		Ledger:       &LedgerService{d},
		Notification: &NotificationService{d},
	}
}

type deps struct {
	reader    *storage.Reader
	processor Processor
	publisher events.Publisher
	logger    logrus.FieldLogger
	now       func() time.Time
	backoff   func() backoff.BackOff
}

// publish sends e after a commit. A failure is logged and never reaches the
// caller, whose write already succeeded.
func (d *deps) publish(ctx context.Context, e *events.Event) {
	if err := d.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"eventID":     e.ID.String(),
			"kind":        e.Kind,
			"referenceID": e.ReferenceID.String(),
		}).Warn("Service.publish failed")
	}
}

func defaultReadBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return backoff.WithMaxRetries(b, 3)
}

// retryRead retries a read on transient storage errors. Not-found and
// caller-facing errors are returned at once. Writes are never retried here;
// they go through the processor exactly once.
func retryRead[T any](ctx context.Context, d *deps, read func() (T, error)) (T, error) {
	op := func() (T, error) {
		v, err := read()
		if err == nil {
			return v, nil
		}
		if errors.Is(err, storage.ErrNotFound) || apperr.KindOf(err) != apperr.KindPersistence || ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	return backoff.RetryWithData(op, backoff.WithContext(d.backoff(), ctx))
}

// validateAmount requires a positive amount with at most two decimal places.
func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.Validationf("%s must be greater than zero", field)
	}
	if !isCents(amount) {
		return apperr.Validationf("%s cannot have more than two decimal places", field)
	}
	return nil
}

// isCents reports whether amount fits NUMERIC(14,2) without rounding.
func isCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}
