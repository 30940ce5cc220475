package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
)

// DefaultTransferDescription is used when a transfer request has none.
const DefaultTransferDescription = "Fund transfer"

// FundService handles funds, transfers and reconciliation.
type FundService struct {
	*deps
}

func (s *FundService) List(ctx context.Context, filter *fund.FundFilter) (*fund.FundListResult, error) {
	return retryRead(ctx, s.deps, func() (*fund.FundListResult, error) {
		return s.reader.Funds.List(ctx, filter)
	})
}

func (s *FundService) Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	f, err := retryRead(ctx, s.deps, func() (*fund.Fund, error) {
		return s.reader.Funds.FindByID(ctx, id)
	})
	return f, actions.NotFound(err, "Fund")
}

func (s *FundService) Create(ctx context.Context, create fund.FundCreate) (*fund.Fund, error) {
	create.Name = strings.TrimSpace(create.Name)
	if create.Name == "" {
		return nil, apperr.Validation("Missing required fields", "name is required")
	}
	if create.StartingBalance.IsNegative() {
		return nil, apperr.Validation("Initial balance cannot be negative")
	}
	if !isCents(create.StartingBalance) {
		return nil, apperr.Validation("Balance cannot have more than two decimal places")
	}
	if err := validateTarget(create.TargetAmount); err != nil {
		return nil, err
	}
	action := &actions.CreateFund{Create: create}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

// Update edits metadata and, when balance is set, records an adjustment.
func (s *FundService) Update(ctx context.Context, id uuid.UUID, update fund.FundUpdate, balance *decimal.Decimal, updatedBy *uuid.UUID) (*fund.Fund, error) {
	if v, ok := update.Name.Get(); ok && strings.TrimSpace(v) == "" {
		return nil, apperr.Validation("Fund name cannot be empty")
	}
	if balance != nil && !isCents(*balance) {
		return nil, apperr.Validation("Balance cannot have more than two decimal places")
	}
	if target, ok := update.TargetAmount.Get(); ok {
		if err := validateTarget(target); err != nil {
			return nil, err
		}
	}
	action := &actions.UpdateFund{ID: id, Update: update, Balance: balance, UpdatedBy: updatedBy}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

func validateTarget(target *decimal.Decimal) error {
	if target == nil {
		return nil
	}
	if target.IsNegative() {
		return apperr.Validation("Target amount cannot be negative")
	}
	if !isCents(*target) {
		return apperr.Validation("Target amount cannot have more than two decimal places")
	}
	return nil
}

func (s *FundService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteFund{ID: id})
}

// TransferRequest is the single input shape shared by every transfer entry
// point.
type TransferRequest struct {
	FromFundID     uuid.UUID
	ToFundID       uuid.UUID
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
	RequestedBy    *uuid.UUID
}

// Normalize trims strings and applies the default description.
func (r *TransferRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		r.Description = DefaultTransferDescription
	}
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)
}

// Validate checks the request shape. Balance checks happen under lock in
// the transfer action.
func (r *TransferRequest) Validate() error {
	var missing []string
	if r.FromFundID == uuid.Nil {
		missing = append(missing, "from_fund_id is required")
	}
	if r.ToFundID == uuid.Nil {
		missing = append(missing, "to_fund_id is required")
	}
	if len(missing) > 0 {
		return apperr.Validation("Missing required fields", missing...)
	}
	if r.FromFundID == r.ToFundID {
		return apperr.Validation("Cannot transfer to the same fund")
	}
	if err := validateAmount("Amount", r.Amount); err != nil {
		return err
	}
	if len(r.IdempotencyKey) > 255 {
		return apperr.Validation("Idempotency key must be at most 255 characters")
	}
	return nil
}

// Transfer moves money between two funds atomically. A request carrying an
// idempotency key that was already used returns the original result.
func (s *FundService) Transfer(ctx context.Context, req TransferRequest) (*actions.TransferResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	action := &actions.TransferFunds{
		FromFundID:     req.FromFundID,
		ToFundID:       req.ToFundID,
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
		CreatedBy:      req.RequestedBy,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	result := action.Result
	if !result.Replayed {
		e := events.New(events.KindTransferCompleted, result.ReferenceID, "Fund transfer completed",
			fmt.Sprintf("%s moved from %s to %s: %s", req.Amount.StringFixed(2), result.From.Name, result.To.Name, req.Description))
		e.Amount = req.Amount.StringFixed(2)
		e.ActorID = req.RequestedBy
		s.publish(ctx, e)
	}
	return result, nil
}

// FundReconciliation compares a fund's cached balance with the balance
// implied by its transactions.
type FundReconciliation struct {
	Fund     fund.Fund
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Expected decimal.Decimal
	Drift    decimal.Decimal
}

func (r FundReconciliation) Balanced() bool {
	return r.Drift.IsZero()
}

// Reconcile reports expected = starting + income - expense for every fund.
// It never repairs anything.
func (s *FundService) Reconcile(ctx context.Context) ([]FundReconciliation, error) {
	funds, err := retryRead(ctx, s.deps, func() ([]*fund.Fund, error) {
		return s.reader.Funds.ListAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	totals, err := retryRead(ctx, s.deps, func() (map[uuid.UUID]transaction.FundTotals, error) {
		return s.reader.Transactions.TotalsByFund(ctx)
	})
	if err != nil {
		return nil, err
	}

	report := make([]FundReconciliation, 0, len(funds))
	for _, f := range funds {
		t := totals[f.ID]
		expected := f.StartingBalance.Add(t.Net())
		report = append(report, FundReconciliation{
			Fund:     *f,
			Income:   t.Income,
			Expense:  t.Expense,
			Expected: expected,
			Drift:    f.CurrentBalance.Sub(expected),
		})
	}
	return report, nil
}
