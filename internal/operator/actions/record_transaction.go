package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

// ErrTransferType rejects manual transfer rows; transfers go through
// TransferFunds so both halves exist.
var ErrTransferType = apperr.Validation("Transfers must be made through the fund transfer endpoint")

func managedError(tx *transaction.Transaction) error {
	return apperr.Validationf("Transaction is managed by a %s and cannot be changed directly", *tx.ReferenceType)
}

// RecordTransaction inserts a manual income or expense and applies it to the
// fund balance.
type RecordTransaction struct {
	Create transaction.TransactionCreate

	Result *transaction.Transaction
}

func (r *RecordTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if r.Create.Type == transaction.TypeTransfer {
		return ErrTransferType
	}
	create := r.Create
	create.ReferenceID = nil
	create.ReferenceType = nil

	if _, err := writer.Funds.Adjust(ctx, create.FundID, create.SignedAmount()); err != nil {
		return NotFound(err, "Fund")
	}
	id, err := writer.Transactions.Insert(ctx, &create)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	tx, err := writer.Transactions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	r.Result = tx
	return nil
}

// UpdateTransaction edits a manual transaction by reverting its old balance
// effect and applying the new one.
type UpdateTransaction struct {
	ID     uuid.UUID
	Update transaction.TransactionUpdate

	Result *transaction.Transaction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	old, err := writer.Transactions.FindByIDForUpdate(ctx, u.ID)
	if err != nil {
		return NotFound(err, "Transaction")
	}
	if old.ReferenceType != nil {
		return managedError(old)
	}
	next := u.Update.Apply(*old)
	if next.Type == transaction.TypeTransfer {
		return ErrTransferType
	}

	if _, err := writer.Funds.Adjust(ctx, old.FundID, old.SignedAmount().Neg()); err != nil {
		return NotFound(err, "Fund")
	}
	if _, err := writer.Funds.Adjust(ctx, next.FundID, next.SignedAmount()); err != nil {
		return NotFound(err, "Fund")
	}
	if err := writer.Transactions.Update(ctx, u.ID, &u.Update); err != nil {
		return NotFound(err, "Transaction")
	}
	result, err := writer.Transactions.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Result = result
	return nil
}

// DeleteTransaction removes a manual transaction and reverses its balance
// effect.
type DeleteTransaction struct {
	ID uuid.UUID
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := writer.Transactions.FindByIDForUpdate(ctx, d.ID)
	if err != nil {
		return NotFound(err, "Transaction")
	}
	if tx.ReferenceType != nil {
		return managedError(tx)
	}
	if _, err := writer.Funds.Adjust(ctx, tx.FundID, tx.SignedAmount().Neg()); err != nil {
		return NotFound(err, "Fund")
	}
	return NotFound(writer.Transactions.Delete(ctx, d.ID), "Transaction")
}
