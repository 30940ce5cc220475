package funds

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

// Fund is the API response model for a fund.
type Fund struct {
	ID              string  `json:"id" doc:"Fund UUID"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	FundType        *string `json:"fund_type"`
	TargetAmount    *string `json:"target_amount"`
	CurrentBalance  string  `json:"current_balance" doc:"Decimal balance"`
	StartingBalance string  `json:"starting_balance"`
	CreatedBy       *string `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toFund(f *fund.Fund) Fund {
	return Fund{
		ID:              f.ID.String(),
		Name:            f.Name,
		Description:     f.Description,
		FundType:        f.FundType,
		TargetAmount:    apiutil.MoneyPtr(f.TargetAmount),
		CurrentBalance:  apiutil.Money(f.CurrentBalance),
		StartingBalance: apiutil.Money(f.StartingBalance),
		CreatedBy:       apiutil.IDPtrString(f.CreatedBy),
		CreatedAt:       apiutil.FormatTime(f.CreatedAt),
		UpdatedAt:       apiutil.FormatTime(f.UpdatedAt),
	}
}

// FundBalance is the short form returned by transfers.
type FundBalance struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CurrentBalance string `json:"current_balance"`
}

// AuditTransaction is one half of a transfer's audit pair.
type AuditTransaction struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	FundID      string `json:"fund_id"`
	ReferenceID string `json:"reference_id"`
}

func toAuditTransaction(tx *transaction.Transaction) AuditTransaction {
	ref := ""
	if tx.ReferenceID != nil {
		ref = tx.ReferenceID.String()
	}
	return AuditTransaction{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Amount:      apiutil.Money(tx.Amount),
		Description: tx.Description,
		Category:    tx.Category,
		FundID:      tx.FundID.String(),
		ReferenceID: ref,
	}
}

// fundService is the subset of service.FundService the handlers use.
type fundService interface {
	List(ctx context.Context, filter *fund.FundFilter) (*fund.FundListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error)
	Create(ctx context.Context, create fund.FundCreate) (*fund.Fund, error)
	Update(ctx context.Context, id uuid.UUID, update fund.FundUpdate, balance *decimal.Decimal, updatedBy *uuid.UUID) (*fund.Fund, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Transfer(ctx context.Context, req service.TransferRequest) (*actions.TransferResult, error)
	Reconcile(ctx context.Context) ([]service.FundReconciliation, error)
}

// Handler serves /api/funds.
type Handler struct {
	Funds  fundService
	Logger logrus.FieldLogger
}

func NewHandler(svc fundService, logger logrus.FieldLogger) *Handler {
	return &Handler{Funds: svc, Logger: logger}
}
