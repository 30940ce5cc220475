package actions

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

// UpdateBill applies an edit to a bill and runs the payment state machine:
//
//	pending -> paid     debit the fund, record the expense
//	paid    -> pending  credit the fund, delete the expense
//	paid    -> paid     with a new amount or fund: revert, then reapply
type UpdateBill struct {
	ID        uuid.UUID
	Update    bill.BillUpdate
	UpdatedBy *uuid.UUID

	Result     *bill.Bill
	Transition string
}

func (u *UpdateBill) Perform(ctx context.Context, writer *storage.Writer) error {
	old, err := writer.Bills.FindByIDForUpdate(ctx, u.ID)
	if err != nil {
		return NotFound(err, "Bill")
	}

	update := u.Update
	next := update.Apply(*old)
	wasPaid := old.Status == bill.StatusPaid
	nowPaid := next.Status == bill.StatusPaid

	if nowPaid && next.FundID == nil {
		return ErrBillFundRequired
	}
	var fundID, entryID, subgroupID *uuid.UUID
	if v, ok := update.FundID.Get(); ok {
		fundID = v
	}
	if v, ok := update.LedgerEntryID.Get(); ok {
		entryID = v
	}
	if v, ok := update.LedgerSubgroupID.Get(); ok {
		subgroupID = v
	}
	if err := checkBillRefs(ctx, writer, fundID, entryID, subgroupID); err != nil {
		return err
	}

	switch {
	case wasPaid && !nowPaid:
		if err := revertPayment(ctx, writer, old); err != nil {
			return err
		}
		update.PaidDate = omit.From[*time.Time](nil)
		u.Transition = TransitionUnpaid

	case !wasPaid && nowPaid:
		if next.PaidDate == nil {
			now := time.Now().UTC()
			next.PaidDate = &now
			update.PaidDate = omit.From(next.PaidDate)
		}
		if err := applyPayment(ctx, writer, &next, u.UpdatedBy); err != nil {
			return err
		}
		u.Transition = TransitionPaid

	case wasPaid && nowPaid && (!old.Amount.Equal(next.Amount) || !sameFund(old.FundID, next.FundID)):
		if err := revertPayment(ctx, writer, old); err != nil {
			return err
		}
		if err := applyPayment(ctx, writer, &next, u.UpdatedBy); err != nil {
			return err
		}
	}

	if err := writer.Bills.Update(ctx, u.ID, &update); err != nil {
		return NotFound(err, "Bill")
	}
	result, err := writer.Bills.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Result = result
	return nil
}
