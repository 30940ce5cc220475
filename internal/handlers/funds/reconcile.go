package funds

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
)

type Reconciliation struct {
	FundID          string `json:"fund_id"`
	Name            string `json:"name"`
	StartingBalance string `json:"starting_balance"`
	Income          string `json:"income"`
	Expense         string `json:"expense"`
	Expected        string `json:"expected_balance"`
	CurrentBalance  string `json:"current_balance"`
	Drift           string `json:"drift" doc:"current_balance minus expected_balance"`
	Balanced        bool   `json:"balanced"`
}

type ReconcileOutput struct {
	Body struct {
		Funds    []Reconciliation `json:"funds"`
		Balanced bool             `json:"balanced" doc:"True when no fund drifts"`
	}
}

func (h *Handler) registerReconcile(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "reconcile-funds",
		Method:      http.MethodGet,
		Path:        "/api/funds/reconciliation",
		Summary:     "Reconcile fund balances",
		Description: "Compares every fund's balance with starting balance plus income minus expense. Nothing is repaired.",
		Tags:        []string{"Funds"},
		Security:    auth.RequireAdmin,
	}, h.reconcile)
}

func (h *Handler) reconcile(ctx context.Context, _ *struct{}) (*ReconcileOutput, error) {
	report, err := h.Funds.Reconcile(ctx)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "reconcile-funds", err, "Failed to reconcile funds")
	}
	out := &ReconcileOutput{}
	out.Body.Balanced = true
	out.Body.Funds = make([]Reconciliation, len(report))
	for i, r := range report {
		out.Body.Funds[i] = Reconciliation{
			FundID:          r.Fund.ID.String(),
			Name:            r.Fund.Name,
			StartingBalance: apiutil.Money(r.Fund.StartingBalance),
			Income:          apiutil.Money(r.Income),
			Expense:         apiutil.Money(r.Expense),
			Expected:        apiutil.Money(r.Expected),
			CurrentBalance:  apiutil.Money(r.Fund.CurrentBalance),
			Drift:           apiutil.Money(r.Drift),
			Balanced:        r.Balanced(),
		}
		if !r.Balanced() {
			out.Body.Balanced = false
		}
	}
	return out, nil
}

// Register registers every /api/funds operation.
func (h *Handler) Register(api huma.API) {
	h.registerReconcile(api)
	h.registerCRUD(api)
	h.registerTransfer(api)
}
