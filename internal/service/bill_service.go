package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

// BillService handles bills and their payment state machine.
type BillService struct {
	*deps
}

// List returns bills. Filtering by overdue selects pending bills due before
// today.
func (s *BillService) List(ctx context.Context, filter bill.BillFilter) (*bill.BillListResult, error) {
	if filter.Status != nil && *filter.Status == bill.StatusOverdue {
		today := s.now().Truncate(24 * time.Hour)
		filter.DueBefore = &today
	}
	return retryRead(ctx, s.deps, func() (*bill.BillListResult, error) {
		return s.reader.Bills.List(ctx, &filter)
	})
}

func (s *BillService) Get(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	b, err := retryRead(ctx, s.deps, func() (*bill.Bill, error) {
		return s.reader.Bills.FindByID(ctx, id)
	})
	return b, actions.NotFound(err, "Bill")
}

// Now is the clock used to derive the overdue status.
func (s *BillService) Now() time.Time {
	return s.now()
}

func (s *BillService) Create(ctx context.Context, create bill.BillCreate) (*bill.Bill, error) {
	create.Vendor = strings.TrimSpace(create.Vendor)
	var missing []string
	if create.Vendor == "" {
		missing = append(missing, "vendor is required")
	}
	if create.DueDate.IsZero() {
		missing = append(missing, "due_date is required")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields", missing...)
	}
	if create.Status != "" && !create.Status.Valid() {
		return nil, apperr.Validation("Status must be pending, paid or overdue")
	}
	if err := validateAmount("Amount", create.Amount); err != nil {
		return nil, err
	}

	action := &actions.CreateBill{Create: create}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.publishTransition(ctx, action.Result, action.Transition, create.CreatedBy)
	return action.Result, nil
}

// Update edits a bill. A status change to or from paid moves money.
func (s *BillService) Update(ctx context.Context, id uuid.UUID, update bill.BillUpdate, updatedBy *uuid.UUID) (*bill.Bill, error) {
	if v, ok := update.Status.Get(); ok && !v.Valid() {
		return nil, apperr.Validation("Status must be pending, paid or overdue")
	}
	if v, ok := update.Amount.Get(); ok {
		if err := validateAmount("Amount", v); err != nil {
			return nil, err
		}
	}
	if v, ok := update.Vendor.Get(); ok && strings.TrimSpace(v) == "" {
		return nil, apperr.Validation("Vendor cannot be empty")
	}

	action := &actions.UpdateBill{ID: id, Update: update, UpdatedBy: updatedBy}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.publishTransition(ctx, action.Result, action.Transition, updatedBy)
	return action.Result, nil
}

func (s *BillService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteBill{ID: id})
}

func (s *BillService) publishTransition(ctx context.Context, b *bill.Bill, transition string, actor *uuid.UUID) {
	var e *events.Event
	switch transition {
	case actions.TransitionPaid:
		e = events.New(events.KindBillPaid, b.ID, "Bill paid",
			fmt.Sprintf("%s bill of %s marked paid", b.Vendor, b.Amount.StringFixed(2)))
	case actions.TransitionUnpaid:
		e = events.New(events.KindBillUnpaid, b.ID, "Bill payment reverted",
			fmt.Sprintf("%s bill of %s returned to pending", b.Vendor, b.Amount.StringFixed(2)))
	default:
		return
	}
	e.Amount = b.Amount.StringFixed(2)
	e.ActorID = actor
	s.publish(ctx, e)
}
