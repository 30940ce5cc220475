package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

const BalanceAdjustmentCategory = "Balance Adjustment"

type CreateFund struct {
	Create fund.FundCreate

	Result *fund.Fund
}

func (c *CreateFund) Perform(ctx context.Context, writer *storage.Writer) error {
	id, err := writer.Funds.Insert(ctx, &c.Create)
	if err != nil {
		return fmt.Errorf("insert fund: %w", err)
	}
	f, err := writer.Funds.FindByID(ctx, id)
	if err != nil {
		return err
	}
	c.Result = f
	return nil
}

// UpdateFund edits fund metadata. Setting Balance is an administrative
// correction: the difference is recorded as a Balance Adjustment
// transaction so the balance still equals the signed sum of the fund's
// transactions and starting balance.
type UpdateFund struct {
	ID        uuid.UUID
	Update    fund.FundUpdate
	Balance   *decimal.Decimal
	UpdatedBy *uuid.UUID

	Result *fund.Fund
}

func (u *UpdateFund) Perform(ctx context.Context, writer *storage.Writer) error {
	current, err := writer.Funds.FindByIDForUpdate(ctx, u.ID)
	if err != nil {
		return NotFound(err, "Fund")
	}

	if !u.Update.IsEmpty() {
		if err := writer.Funds.Update(ctx, u.ID, &u.Update); err != nil {
			return NotFound(err, "Fund")
		}
	}

	if u.Balance != nil && !u.Balance.Equal(current.CurrentBalance) {
		delta := u.Balance.Sub(current.CurrentBalance)
		if _, err := writer.Funds.Adjust(ctx, u.ID, delta); err != nil {
			return err
		}
		txType := transaction.TypeIncome
		if delta.IsNegative() {
			txType = transaction.TypeExpense
		}
		_, err := writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
			Type:        txType,
			Amount:      delta.Abs(),
			Description: fmt.Sprintf("Balance adjusted from %s to %s", current.CurrentBalance.StringFixed(2), u.Balance.StringFixed(2)),
			Category:    BalanceAdjustmentCategory,
			FundID:      u.ID,
			CreatedBy:   u.UpdatedBy,
		})
		if err != nil {
			return fmt.Errorf("insert balance adjustment: %w", err)
		}
	}

	result, err := writer.Funds.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Result = result
	return nil
}

// DeleteFund removes a fund together with its transactions and offerings.
// Bills paid from it keep their status but lose the fund reference.
type DeleteFund struct {
	ID uuid.UUID
}

func (d *DeleteFund) Perform(ctx context.Context, writer *storage.Writer) error {
	return NotFound(writer.Funds.Delete(ctx, d.ID), "Fund")
}
