package bills

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

// Bill is the API response model. Status is the displayed status, so a
// pending bill past its due date reads as overdue.
type Bill struct {
	ID               string  `json:"id"`
	Vendor           string  `json:"vendor"`
	Description      *string `json:"description"`
	Amount           string  `json:"amount"`
	DueDate          string  `json:"due_date" doc:"YYYY-MM-DD"`
	Status           string  `json:"status" enum:"pending,paid,overdue"`
	Category         *string `json:"category"`
	FundID           *string `json:"fund_id"`
	LedgerEntryID    *string `json:"ledger_entry_id"`
	LedgerSubgroupID *string `json:"ledger_subgroup_id"`
	PaidDate         *string `json:"paid_date"`
	Notes            *string `json:"notes"`
	CreatedBy        *string `json:"created_by"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toBill(b *bill.Bill, now time.Time) Bill {
	return Bill{
		ID:               b.ID.String(),
		Vendor:           b.Vendor,
		Description:      b.Description,
		Amount:           apiutil.Money(b.Amount),
		DueDate:          apiutil.FormatDate(b.DueDate),
		Status:           string(b.DisplayStatus(now)),
		Category:         b.Category,
		FundID:           apiutil.IDPtrString(b.FundID),
		LedgerEntryID:    apiutil.IDPtrString(b.LedgerEntryID),
		LedgerSubgroupID: apiutil.IDPtrString(b.LedgerSubgroupID),
		PaidDate:         apiutil.FormatDatePtr(b.PaidDate),
		Notes:            b.Notes,
		CreatedBy:        apiutil.IDPtrString(b.CreatedBy),
		CreatedAt:        apiutil.FormatTime(b.CreatedAt),
		UpdatedAt:        apiutil.FormatTime(b.UpdatedAt),
	}
}

type billService interface {
	List(ctx context.Context, filter bill.BillFilter) (*bill.BillListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*bill.Bill, error)
	Create(ctx context.Context, create bill.BillCreate) (*bill.Bill, error)
	Update(ctx context.Context, id uuid.UUID, update bill.BillUpdate, updatedBy *uuid.UUID) (*bill.Bill, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Now() time.Time
}

// Handler serves /api/bills.
type Handler struct {
	Bills  billService
	Logger logrus.FieldLogger
}

func NewHandler(svc billService, logger logrus.FieldLogger) *Handler {
	return &Handler{Bills: svc, Logger: logger}
}
