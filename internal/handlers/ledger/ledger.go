package ledger

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
)

type Entry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EntryDate   string  `json:"entry_date"`
	CreatedBy   *string `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toEntry(e *ledger.Entry) Entry {
	return Entry{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		EntryDate:   apiutil.FormatDate(e.EntryDate),
		CreatedBy:   apiutil.IDPtrString(e.CreatedBy),
		CreatedAt:   apiutil.FormatTime(e.CreatedAt),
		UpdatedAt:   apiutil.FormatTime(e.UpdatedAt),
	}
}

type Subgroup struct {
	ID            string  `json:"id"`
	LedgerEntryID string  `json:"ledger_entry_id"`
	Name          string  `json:"name"`
	Purpose       *string `json:"purpose"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toSubgroup(s *ledger.Subgroup) Subgroup {
	return Subgroup{
		ID:            s.ID.String(),
		LedgerEntryID: s.LedgerEntryID.String(),
		Name:          s.Name,
		Purpose:       s.Purpose,
		CreatedAt:     apiutil.FormatTime(s.CreatedAt),
		UpdatedAt:     apiutil.FormatTime(s.UpdatedAt),
	}
}

func toSubgroups(in []*ledger.Subgroup) []Subgroup {
	out := make([]Subgroup, len(in))
	for i, s := range in {
		out[i] = toSubgroup(s)
	}
	return out
}

type BillTotals struct {
	Count   int    `json:"count"`
	Total   string `json:"total"`
	Paid    string `json:"paid"`
	Pending string `json:"pending"`
}

type ledgerService interface {
	ListEntries(ctx context.Context, filter ledger.EntryFilter) (*ledger.EntryListResult, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*service.EntryDetail, error)
	CreateEntry(ctx context.Context, create ledger.EntryCreate) (*ledger.Entry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, update ledger.EntryUpdate) (*ledger.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListSubgroups(ctx context.Context, entryID *uuid.UUID) ([]*ledger.Subgroup, error)
	CreateSubgroup(ctx context.Context, create ledger.SubgroupCreate) (*ledger.Subgroup, error)
	UpdateSubgroup(ctx context.Context, id uuid.UUID, update ledger.SubgroupUpdate) (*ledger.Subgroup, error)
	DeleteSubgroup(ctx context.Context, id uuid.UUID) error
}

// Handler serves /api/ledger-entries and /api/ledger-subgroups.
type Handler struct {
	Ledger ledgerService
	Logger logrus.FieldLogger
}

func NewHandler(svc ledgerService, logger logrus.FieldLogger) *Handler {
	return &Handler{Ledger: svc, Logger: logger}
}
