package service

import (
	"context"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type testEnv struct {
	db        *memory.DB
	svc       *Service
	publisher *recordingPublisher
}

// newTestEnv wires the services to an in-memory store through a running
// operator pool, the same path production requests take.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memory.NewDB()
	store := db.Storage()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	delegator := operator.NewOperatorDelegator(store, 2, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	pub := &recordingPublisher{}
	return &testEnv{db: db, svc: NewService(store, delegator, pub), publisher: pub}
}

func (e *testEnv) createFund(t *testing.T, name string, balance int64) *fund.Fund {
	t.Helper()
	f, err := e.svc.Fund.Create(context.Background(), fund.FundCreate{
		Name:            name,
		StartingBalance: decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return f
}

func (e *testEnv) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	f, err := e.svc.Fund.Get(context.Background(), id)
	require.NoError(t, err)
	return f.CurrentBalance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
