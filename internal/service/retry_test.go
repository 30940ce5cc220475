package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/fund"
)

type mockFundReader struct {
	mock.Mock
}

func (m *mockFundReader) FindByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*fund.Fund)
	return f, args.Error(1)
}

func (m *mockFundReader) List(ctx context.Context, filter *fund.FundFilter) (*fund.FundListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*fund.FundListResult)
	return r, args.Error(1)
}

func (m *mockFundReader) ListAll(ctx context.Context) ([]*fund.Fund, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]*fund.Fund)
	return r, args.Error(1)
}

func newMockFundService(reader storage.FundReader) *FundService {
	return &FundService{&deps{
		reader:    &storage.Reader{Funds: reader},
		publisher: &recordingPublisher{},
		logger:    logrus.New(),
		now:       time.Now,
		backoff: func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
		},
	}}
}

func TestGet_RetriesTransientErrors(t *testing.T) {
	reader := new(mockFundReader)
	id := uuid.Must(uuid.NewV4())
	want := &fund.Fund{ID: id, Name: "General"}
	reader.On("FindByID", mock.Anything, id).Return(nil, errors.New("connection reset")).Once()
	reader.On("FindByID", mock.Anything, id).Return(want, nil).Once()

	got, err := newMockFundService(reader).Get(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	reader.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestGet_NotFoundIsNotRetried(t *testing.T) {
	reader := new(mockFundReader)
	id := uuid.Must(uuid.NewV4())
	reader.On("FindByID", mock.Anything, id).Return(nil, storage.ErrNotFound).Once()

	_, err := newMockFundService(reader).Get(context.Background(), id)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Fund not found", err.Error())
	reader.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	reader := new(mockFundReader)
	id := uuid.Must(uuid.NewV4())
	reader.On("FindByID", mock.Anything, id).Return(nil, errors.New("connection refused"))

	_, err := newMockFundService(reader).Get(context.Background(), id)

	assert.EqualError(t, err, "connection refused")
	reader.AssertNumberOfCalls(t, "FindByID", 3)
}
