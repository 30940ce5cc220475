//go:build integration

package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/church-finance/internal/operator"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

func startPostgres(t *testing.T) *storage.Storage {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("church"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpassword"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, storage.RunMigrations(connStr))
	// A second run is a no-op.
	require.NoError(t, storage.RunMigrations(connStr))

	store, err := storage.NewPostgres(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Ping(ctx))
	return store
}

func newPostgresService(t *testing.T) *service.Service {
	t.Helper()
	store := startPostgres(t)
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	delegator := operator.NewOperatorDelegator(store, 4, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)
	return service.NewService(store, delegator, nil)
}

func TestPostgres_TransferWorkflow(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	a, err := svc.Fund.Create(ctx, fund.FundCreate{Name: "General", StartingBalance: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	b, err := svc.Fund.Create(ctx, fund.FundCreate{Name: "Missions", StartingBalance: decimal.NewFromInt(500)})
	require.NoError(t, err)

	result, err := svc.Fund.Transfer(ctx, service.TransferRequest{
		FromFundID: a.ID, ToFundID: b.ID, Amount: decimal.NewFromInt(300), IdempotencyKey: "pg-1",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(result.From.CurrentBalance))
	assert.True(t, decimal.NewFromInt(800).Equal(result.To.CurrentBalance))
	require.Len(t, result.Transactions, 2)

	replay, err := svc.Fund.Transfer(ctx, service.TransferRequest{
		FromFundID: a.ID, ToFundID: b.ID, Amount: decimal.NewFromInt(300), IdempotencyKey: "pg-1",
	})
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.Equal(t, result.ReferenceID, replay.ReferenceID)

	_, err = svc.Fund.Transfer(ctx, service.TransferRequest{FromFundID: a.ID, ToFundID: b.ID, Amount: decimal.NewFromInt(5000)})
	require.ErrorIs(t, err, actions.ErrInsufficientFunds)

	got, err := svc.Fund.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(got.CurrentBalance))
}

func TestPostgres_ConcurrentTransfers(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	a, err := svc.Fund.Create(ctx, fund.FundCreate{Name: "A", StartingBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)
	b, err := svc.Fund.Create(ctx, fund.FundCreate{Name: "B", StartingBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		from, to := a.ID, b.ID
		if i%2 == 1 {
			from, to = b.ID, a.ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Fund.Transfer(ctx, service.TransferRequest{FromFundID: from, ToFundID: to, Amount: decimal.NewFromInt(40)})
			if err != nil {
				assert.ErrorIs(t, err, actions.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	report, err := svc.Fund.Reconcile(ctx)
	require.NoError(t, err)
	total := decimal.Zero
	for _, r := range report {
		assert.False(t, r.Fund.CurrentBalance.IsNegative())
		assert.True(t, r.Balanced(), "fund %s drifted by %s", r.Fund.Name, r.Drift)
		total = total.Add(r.Fund.CurrentBalance)
	}
	assert.True(t, decimal.NewFromInt(200).Equal(total))
}

func TestPostgres_ConcurrentTransactionEdits(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	f, err := svc.Fund.Create(ctx, fund.FundCreate{Name: "General", StartingBalance: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	created, err := svc.Transaction.Create(ctx, transaction.TransactionCreate{
		Type: transaction.TypeIncome, Amount: decimal.NewFromInt(100), Description: "Gift", FundID: f.ID,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		amount := decimal.NewFromInt(int64(100 + i*10))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transaction.Update(ctx, created.ID, transaction.TransactionUpdate{Amount: omit.From(amount)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := svc.Transaction.Get(ctx, created.ID)
	require.NoError(t, err)
	got, err := svc.Fund.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Add(final.Amount).Equal(got.CurrentBalance),
		"balance %s does not match last edit %s", got.CurrentBalance, final.Amount)

	report, err := svc.Fund.Reconcile(ctx)
	require.NoError(t, err)
	for _, r := range report {
		assert.True(t, r.Balanced(), "fund %s drifted by %s", r.Fund.Name, r.Drift)
	}
}

func TestPostgres_BillPaymentRoundTrip(t *testing.T) {
	svc := newPostgresService(t)
	ctx := context.Background()

	f, err := svc.Fund.Create(ctx, fund.FundCreate{Name: "Operations", StartingBalance: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	created, err := svc.Bill.Create(ctx, bill.BillCreate{
		Vendor: "Power Co", Amount: decimal.RequireFromString("250.50"), DueDate: time.Now(), FundID: &f.ID,
	})
	require.NoError(t, err)

	_, err = svc.Bill.Update(ctx, created.ID, bill.BillUpdate{Status: omit.From(bill.StatusPaid)}, nil)
	require.NoError(t, err)
	got, err := svc.Fund.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("749.50").Equal(got.CurrentBalance))

	_, err = svc.Bill.Update(ctx, created.ID, bill.BillUpdate{Status: omit.From(bill.StatusPending)}, nil)
	require.NoError(t, err)
	got, err = svc.Fund.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(got.CurrentBalance))

	require.NoError(t, svc.Fund.Delete(ctx, f.ID))
	after, err := svc.Bill.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, after.FundID)
}
