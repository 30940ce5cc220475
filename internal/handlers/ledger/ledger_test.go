package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/bill"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
)

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) ListEntries(ctx context.Context, filter ledger.EntryFilter) (*ledger.EntryListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*ledger.EntryListResult)
	return r, args.Error(1)
}

func (m *mockLedgerService) GetEntry(ctx context.Context, id uuid.UUID) (*service.EntryDetail, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*service.EntryDetail)
	return r, args.Error(1)
}

func (m *mockLedgerService) CreateEntry(ctx context.Context, create ledger.EntryCreate) (*ledger.Entry, error) {
	args := m.Called(ctx, create)
	r, _ := args.Get(0).(*ledger.Entry)
	return r, args.Error(1)
}

func (m *mockLedgerService) UpdateEntry(ctx context.Context, id uuid.UUID, update ledger.EntryUpdate) (*ledger.Entry, error) {
	args := m.Called(ctx, id, update)
	r, _ := args.Get(0).(*ledger.Entry)
	return r, args.Error(1)
}

func (m *mockLedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLedgerService) ListSubgroups(ctx context.Context, entryID *uuid.UUID) ([]*ledger.Subgroup, error) {
	args := m.Called(ctx, entryID)
	r, _ := args.Get(0).([]*ledger.Subgroup)
	return r, args.Error(1)
}

func (m *mockLedgerService) CreateSubgroup(ctx context.Context, create ledger.SubgroupCreate) (*ledger.Subgroup, error) {
	args := m.Called(ctx, create)
	r, _ := args.Get(0).(*ledger.Subgroup)
	return r, args.Error(1)
}

func (m *mockLedgerService) UpdateSubgroup(ctx context.Context, id uuid.UUID, update ledger.SubgroupUpdate) (*ledger.Subgroup, error) {
	args := m.Called(ctx, id, update)
	r, _ := args.Get(0).(*ledger.Subgroup)
	return r, args.Error(1)
}

func (m *mockLedgerService) DeleteSubgroup(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestAPI(t *testing.T, svc ledgerService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc, logrus.New()).Register(api)
	return api
}

func testEntry() *ledger.Entry {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return &ledger.Entry{ID: uuid.Must(uuid.NewV4()), Title: "Spring retreat", EntryDate: now, CreatedAt: now, UpdatedAt: now}
}

func TestHTTP_GetEntry_Detail(t *testing.T) {
	e := testEntry()
	sub := &ledger.Subgroup{ID: uuid.Must(uuid.NewV4()), LedgerEntryID: e.ID, Name: "Catering"}
	mockSvc := new(mockLedgerService)
	mockSvc.On("GetEntry", mock.Anything, e.ID).Return(&service.EntryDetail{
		Entry:     e,
		Subgroups: []*ledger.Subgroup{sub},
		Bills: &bill.EntryTotals{
			Count:   2,
			Total:   decimal.NewFromInt(300),
			Paid:    decimal.NewFromInt(100),
			Pending: decimal.NewFromInt(200),
		},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/ledger-entries/" + e.ID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	var body EntryDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Spring retreat", body.Title)
	require.Len(t, body.Subgroups, 1)
	assert.Equal(t, "Catering", body.Subgroups[0].Name)
	assert.Equal(t, 2, body.Bills.Count)
	assert.Equal(t, "200.00", body.Bills.Pending)
}

func TestHTTP_GetEntry_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockLedgerService)
	mockSvc.On("GetEntry", mock.Anything, id).Return(nil, apperr.NotFound("Ledger entry"))

	resp := newTestAPI(t, mockSvc).Get("/api/ledger-entries/" + id.String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_CreateEntry(t *testing.T) {
	e := testEntry()
	mockSvc := new(mockLedgerService)
	mockSvc.On("CreateEntry", mock.Anything, mock.MatchedBy(func(c ledger.EntryCreate) bool {
		return c.Title == "Spring retreat" && c.EntryDate.Equal(e.EntryDate)
	})).Return(e, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/ledger-entries", map[string]any{
		"title":      "Spring retreat",
		"entry_date": "2025-04-01",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListSubgroups_ByEntry(t *testing.T) {
	entryID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockLedgerService)
	mockSvc.On("ListSubgroups", mock.Anything, &entryID).Return([]*ledger.Subgroup{}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/ledger-subgroups?ledger_entry_id=" + entryID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateSubgroup_UnknownEntry(t *testing.T) {
	mockSvc := new(mockLedgerService)
	mockSvc.On("CreateSubgroup", mock.Anything, mock.Anything).Return(nil, apperr.NotFound("Ledger entry"))

	resp := newTestAPI(t, mockSvc).Post("/api/ledger-subgroups", map[string]any{
		"ledger_entry_id": uuid.Must(uuid.NewV4()).String(),
		"name":            "Travel",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_DeleteSubgroup(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockLedgerService)
	mockSvc.On("DeleteSubgroup", mock.Anything, id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/api/ledger-subgroups?id=" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
}
