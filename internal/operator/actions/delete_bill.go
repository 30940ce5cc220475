package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

// DeleteBill removes a bill, reverting its payment first when it is paid.
type DeleteBill struct {
	ID uuid.UUID

	Deleted *bill.Bill
}

func (d *DeleteBill) Perform(ctx context.Context, writer *storage.Writer) error {
	b, err := writer.Bills.FindByIDForUpdate(ctx, d.ID)
	if err != nil {
		return NotFound(err, "Bill")
	}
	if b.Status == bill.StatusPaid {
		if err := revertPayment(ctx, writer, b); err != nil {
			return err
		}
	}
	if err := writer.Bills.Delete(ctx, d.ID); err != nil {
		return NotFound(err, "Bill")
	}
	d.Deleted = b
	return nil
}
