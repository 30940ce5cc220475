package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

// CreateBill inserts a bill. A bill created as paid is paid immediately.
type CreateBill struct {
	Create bill.BillCreate

	Result     *bill.Bill
	Transition string
}

func (c *CreateBill) Perform(ctx context.Context, writer *storage.Writer) error {
	create := c.Create
	create.Status = create.Status.Stored()
	if create.Status == "" {
		create.Status = bill.StatusPending
	}
	if create.Status == bill.StatusPaid {
		if create.FundID == nil {
			return ErrBillFundRequired
		}
		if create.PaidDate == nil {
			now := time.Now().UTC()
			create.PaidDate = &now
		}
	} else {
		create.PaidDate = nil
	}

	if err := checkBillRefs(ctx, writer, create.FundID, create.LedgerEntryID, create.LedgerSubgroupID); err != nil {
		return err
	}

	id, err := writer.Bills.Insert(ctx, &create)
	if err != nil {
		return err
	}
	b, err := writer.Bills.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if b.Status == bill.StatusPaid {
		if err := applyPayment(ctx, writer, b, create.CreatedBy); err != nil {
			return err
		}
		c.Transition = TransitionPaid
	}
	c.Result = b
	return nil
}

// checkBillRefs turns dangling references into not-found errors instead of
// foreign-key failures.
func checkBillRefs(ctx context.Context, writer *storage.Writer, fundID, entryID, subgroupID *uuid.UUID) error {
	if fundID != nil {
		if _, err := writer.Funds.FindByID(ctx, *fundID); err != nil {
			return NotFound(err, "Fund")
		}
	}
	if entryID != nil {
		if _, err := writer.Ledger.FindEntry(ctx, *entryID); err != nil {
			return NotFound(err, "Ledger entry")
		}
	}
	if subgroupID != nil {
		if _, err := writer.Ledger.FindSubgroup(ctx, *subgroupID); err != nil {
			return NotFound(err, "Ledger subgroup")
		}
	}
	return nil
}
