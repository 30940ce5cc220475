package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

const BillPaymentCategory = "Bill Payment"

// ErrBillFundRequired rejects paying a bill that has no fund to pay from.
var ErrBillFundRequired = apperr.Validation("A fund is required to pay a bill")

// Bill transitions reported to callers for event publishing.
const (
	TransitionNone   = ""
	TransitionPaid   = "paid"
	TransitionUnpaid = "unpaid"
)

// applyPayment debits the bill's fund and records the expense tagged to the
// bill.
func applyPayment(ctx context.Context, writer *storage.Writer, b *bill.Bill, createdBy *uuid.UUID) error {
	if b.FundID == nil {
		return ErrBillFundRequired
	}
	if _, err := writer.Funds.Adjust(ctx, *b.FundID, b.Amount.Neg()); err != nil {
		return NotFound(err, "Fund")
	}

	refType := transaction.ReferenceBill
	transactionDate := time.Time{}
	if b.PaidDate != nil {
		transactionDate = *b.PaidDate
	}
	_, err := writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		Type:            transaction.TypeExpense,
		Amount:          b.Amount,
		Description:     "Bill payment: " + b.Vendor,
		Category:        BillPaymentCategory,
		FundID:          *b.FundID,
		ReferenceID:     &b.ID,
		ReferenceType:   &refType,
		CreatedBy:       createdBy,
		TransactionDate: transactionDate,
	})
	if err != nil {
		return fmt.Errorf("insert bill transaction: %w", err)
	}
	return nil
}

// revertPayment credits the amount back to the bill's fund and removes the
// bill's transactions. A fund deleted since payment took its transactions
// with it, so there is nothing left to credit.
func revertPayment(ctx context.Context, writer *storage.Writer, b *bill.Bill) error {
	if b.FundID != nil {
		_, err := writer.Funds.Adjust(ctx, *b.FundID, b.Amount)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("credit bill fund: %w", err)
		}
	}
	if _, err := writer.Transactions.DeleteByReference(ctx, transaction.ReferenceBill, b.ID); err != nil {
		return fmt.Errorf("delete bill transactions: %w", err)
	}
	return nil
}

func sameFund(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
