package service

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

func (e *testEnv) billTransactions(t *testing.T, fundID uuid.UUID) []*transaction.Transaction {
	t.Helper()
	txs, _, err := e.svc.Transaction.List(context.Background(), TransactionQuery{FundID: &fundID}, nil)
	require.NoError(t, err)
	var out []*transaction.Transaction
	for _, tx := range txs {
		if tx.ReferenceType != nil && *tx.ReferenceType == transaction.ReferenceBill {
			out = append(out, tx)
		}
	}
	return out
}

func TestBillService_PaymentRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.createFund(t, "Operations", 1000)

	b, err := env.svc.Bill.Create(ctx, bill.BillCreate{
		Vendor:  "Power Co",
		Amount:  dec("250"),
		DueDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		FundID:  &f.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPending, b.Status)
	assert.True(t, dec("1000").Equal(env.balance(t, f.ID)))

	paid, err := env.svc.Bill.Update(ctx, b.ID, bill.BillUpdate{Status: omit.From(bill.StatusPaid)}, nil)
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.True(t, dec("750").Equal(env.balance(t, f.ID)))
	txs := env.billTransactions(t, f.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, b.ID, *txs[0].ReferenceID)
	assert.Equal(t, actions.BillPaymentCategory, txs[0].Category)

	// Saving a paid bill again with no money fields changed moves nothing.
	_, err = env.svc.Bill.Update(ctx, b.ID, bill.BillUpdate{Status: omit.From(bill.StatusPaid)}, nil)
	require.NoError(t, err)
	assert.True(t, dec("750").Equal(env.balance(t, f.ID)))

	pending, err := env.svc.Bill.Update(ctx, b.ID, bill.BillUpdate{Status: omit.From(bill.StatusPending)}, nil)
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPending, pending.Status)
	assert.Nil(t, pending.PaidDate)
	assert.True(t, dec("1000").Equal(env.balance(t, f.ID)))
	assert.Empty(t, env.billTransactions(t, f.ID))

	assert.Equal(t, []string{events.KindBillPaid, events.KindBillUnpaid}, env.publisher.kinds())
}

func TestBillService_PaidAmountChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.createFund(t, "Operations", 1000)
	b, err := env.svc.Bill.Create(ctx, bill.BillCreate{
		Vendor: "Print shop", Amount: dec("100"), DueDate: time.Now(), FundID: &f.ID, Status: bill.StatusPaid,
	})
	require.NoError(t, err)
	assert.True(t, dec("900").Equal(env.balance(t, f.ID)))

	_, err = env.svc.Bill.Update(ctx, b.ID, bill.BillUpdate{Amount: omit.From(dec("140"))}, nil)
	require.NoError(t, err)

	assert.True(t, dec("860").Equal(env.balance(t, f.ID)))
	txs := env.billTransactions(t, f.ID)
	require.Len(t, txs, 1)
	assert.True(t, dec("140").Equal(txs[0].Amount))
}

func TestBillService_PaidFundChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createFund(t, "A", 500)
	bFund := env.createFund(t, "B", 500)
	b, err := env.svc.Bill.Create(ctx, bill.BillCreate{
		Vendor: "Vendor", Amount: dec("50"), DueDate: time.Now(), FundID: &a.ID, Status: bill.StatusPaid,
	})
	require.NoError(t, err)

	_, err = env.svc.Bill.Update(ctx, b.ID, bill.BillUpdate{FundID: omit.From(&bFund.ID)}, nil)
	require.NoError(t, err)

	assert.True(t, dec("500").Equal(env.balance(t, a.ID)))
	assert.True(t, dec("450").Equal(env.balance(t, bFund.ID)))
}

func TestBillService_PayWithoutFund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	b, err := env.svc.Bill.Create(ctx, bill.BillCreate{Vendor: "Vendor", Amount: dec("10"), DueDate: time.Now()})
	require.NoError(t, err)

	_, err = env.svc.Bill.Update(ctx, b.ID, bill.BillUpdate{Status: omit.From(bill.StatusPaid)}, nil)

	require.ErrorIs(t, err, actions.ErrBillFundRequired)
	got, err := env.svc.Bill.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPending, got.Status)
}

func TestBillService_DeletePaidRefunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.createFund(t, "Operations", 300)
	b, err := env.svc.Bill.Create(ctx, bill.BillCreate{
		Vendor: "Vendor", Amount: dec("75.50"), DueDate: time.Now(), FundID: &f.ID, Status: bill.StatusPaid,
	})
	require.NoError(t, err)
	assert.True(t, dec("224.50").Equal(env.balance(t, f.ID)))

	require.NoError(t, env.svc.Bill.Delete(ctx, b.ID))

	assert.True(t, dec("300").Equal(env.balance(t, f.ID)))
	assert.Empty(t, env.billTransactions(t, f.ID))
	_, err = env.svc.Bill.Get(ctx, b.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBillService_ListOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	env.svc.Bill.now = func() time.Time { return now }

	late, err := env.svc.Bill.Create(ctx, bill.BillCreate{Vendor: "Late", Amount: dec("1"), DueDate: now.AddDate(0, 0, -3)})
	require.NoError(t, err)
	_, err = env.svc.Bill.Create(ctx, bill.BillCreate{Vendor: "Upcoming", Amount: dec("1"), DueDate: now.AddDate(0, 0, 3)})
	require.NoError(t, err)

	overdue := bill.StatusOverdue
	result, err := env.svc.Bill.List(ctx, bill.BillFilter{Status: &overdue})
	require.NoError(t, err)
	require.Len(t, result.Bills, 1)
	assert.Equal(t, late.ID, result.Bills[0].ID)
	assert.Equal(t, bill.StatusOverdue, result.Bills[0].DisplayStatus(now))
}

func TestBillService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Bill.Create(ctx, bill.BillCreate{Amount: dec("1")})
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.ElementsMatch(t, []string{"vendor is required", "due_date is required"}, ae.Details)

	_, err = env.svc.Bill.Create(ctx, bill.BillCreate{Vendor: "V", DueDate: time.Now(), Amount: dec("0")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	missing := uuid.Must(uuid.NewV4())
	_, err = env.svc.Bill.Create(ctx, bill.BillCreate{Vendor: "V", DueDate: time.Now(), Amount: dec("5"), FundID: &missing})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
