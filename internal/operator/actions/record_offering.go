package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/offering"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

const OfferingCategory = "Offering"

// RecordOffering stores an offering, credits its fund and records the
// matching income transaction.
type RecordOffering struct {
	Create offering.OfferingCreate

	Result *offering.Offering
}

func (r *RecordOffering) Perform(ctx context.Context, writer *storage.Writer) error {
	if r.Create.MemberID != nil {
		if _, err := writer.Members.FindByID(ctx, *r.Create.MemberID); err != nil {
			return NotFound(err, "Member")
		}
	}
	if _, err := writer.Funds.Adjust(ctx, r.Create.FundID, r.Create.Amount); err != nil {
		return NotFound(err, "Fund")
	}

	id, err := writer.Offerings.Insert(ctx, &r.Create)
	if err != nil {
		return fmt.Errorf("insert offering: %w", err)
	}

	refType := transaction.ReferenceOffering
	_, err = writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		Type:            transaction.TypeIncome,
		Amount:          r.Create.Amount,
		Description:     "Offering: " + r.Create.OfferingType,
		Category:        OfferingCategory,
		FundID:          r.Create.FundID,
		ReferenceID:     &id,
		ReferenceType:   &refType,
		CreatedBy:       r.Create.CreatedBy,
		TransactionDate: r.Create.OfferingDate,
	})
	if err != nil {
		return fmt.Errorf("insert offering transaction: %w", err)
	}

	result, err := writer.Offerings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	r.Result = result
	return nil
}

// DeleteOffering removes an offering and reverses its income.
type DeleteOffering struct {
	ID uuid.UUID
}

func (d *DeleteOffering) Perform(ctx context.Context, writer *storage.Writer) error {
	o, err := writer.Offerings.FindByIDForUpdate(ctx, d.ID)
	if err != nil {
		return NotFound(err, "Offering")
	}
	if _, err := writer.Funds.Adjust(ctx, o.FundID, o.Amount.Neg()); err != nil {
		return NotFound(err, "Fund")
	}
	if _, err := writer.Transactions.DeleteByReference(ctx, transaction.ReferenceOffering, o.ID); err != nil {
		return fmt.Errorf("delete offering transactions: %w", err)
	}
	return NotFound(writer.Offerings.Delete(ctx, d.ID), "Offering")
}
