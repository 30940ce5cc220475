package funds

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/storage/fund"
)

type ListFundsInput struct {
	apiutil.PageQuery
}

type ListFundsOutput struct {
	Body struct {
		Funds      []Fund          `json:"funds"`
		NextCursor *apiutil.Cursor `json:"nextCursor,omitempty" doc:"Absent on the last page"`
	}
}

type GetFundInput struct {
	ID string `path:"id" format:"uuid"`
}

type FundOutput struct {
	Body Fund
}

type CreateFundBody struct {
	Name           string         `json:"name" doc:"Fund name"`
	Description    string         `json:"description,omitempty"`
	FundType       string         `json:"fund_type,omitempty"`
	TargetAmount   apiutil.Amount `json:"target_amount,omitempty"`
	CurrentBalance apiutil.Amount `json:"current_balance,omitempty" doc:"Initial balance, defaults to 0"`
}

type CreateFundInput struct {
	Body CreateFundBody
}

type CreateFundOutput struct {
	Status int
	Body   Fund
}

type UpdateFundBody struct {
	ID             string         `json:"id" format:"uuid"`
	Name           *string        `json:"name,omitempty"`
	Description    *string        `json:"description,omitempty" doc:"Empty string clears"`
	FundType       *string        `json:"fund_type,omitempty" doc:"Empty string clears"`
	TargetAmount   apiutil.Amount `json:"target_amount,omitempty"`
	CurrentBalance apiutil.Amount `json:"current_balance,omitempty" doc:"Recorded as a balance adjustment transaction"`
}

type UpdateFundInput struct {
	Body UpdateFundBody
}

type DeleteFundInput struct {
	ID string `query:"id" required:"true" format:"uuid"`
}

func (h *Handler) registerCRUD(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-funds",
		Method:      http.MethodGet,
		Path:        "/api/funds",
		Summary:     "List funds",
		Tags:        []string{"Funds"},
		Security:    auth.RequireSession,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-fund",
		Method:      http.MethodGet,
		Path:        "/api/funds/{id}",
		Summary:     "Get fund",
		Tags:        []string{"Funds"},
		Security:    auth.RequireSession,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-fund",
		Method:        http.MethodPost,
		Path:          "/api/funds",
		Summary:       "Create fund",
		Description:   "The initial balance becomes both the starting and the current balance.",
		Tags:          []string{"Funds"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "update-fund",
		Method:      http.MethodPut,
		Path:        "/api/funds",
		Summary:     "Update fund",
		Tags:        []string{"Funds"},
		Security:    auth.RequireAdmin,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-fund",
		Method:        http.MethodDelete,
		Path:          "/api/funds",
		Summary:       "Delete fund",
		Description:   "Deletes the fund with its transactions and offerings. Bills keep existing without a fund.",
		Tags:          []string{"Funds"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) list(ctx context.Context, input *ListFundsInput) (*ListFundsOutput, error) {
	stopTimer := logging.Timed(ctx, "listFundsMs")
	result, err := h.Funds.List(ctx, &fund.FundFilter{Limit: input.Limit, Offset: input.Position})
	stopTimer()
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-funds", err, "Failed to fetch funds")
	}
	logging.AddData(ctx, "fundCount", len(result.Funds))

	out := &ListFundsOutput{}
	out.Body.Funds = make([]Fund, len(result.Funds))
	for i, f := range result.Funds {
		out.Body.Funds[i] = toFund(f)
	}
	if result.NextCursor != nil {
		out.Body.NextCursor = &apiutil.Cursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return out, nil
}

func (h *Handler) get(ctx context.Context, input *GetFundInput) (*FundOutput, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	f, err := h.Funds.Get(ctx, id)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "get-fund", err, "Failed to fetch fund")
	}
	return &FundOutput{Body: toFund(f)}, nil
}

func (h *Handler) create(ctx context.Context, input *CreateFundInput) (*CreateFundOutput, error) {
	b := input.Body
	f, err := h.Funds.Create(ctx, fund.FundCreate{
		Name:            b.Name,
		Description:     apiutil.NullIfEmpty(b.Description),
		FundType:        apiutil.NullIfEmpty(b.FundType),
		TargetAmount:    b.TargetAmount.Ptr(),
		StartingBalance: b.CurrentBalance.Decimal,
		CreatedBy:       auth.UserFromContext(ctx).ActorID(),
	})
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-fund", err, "Failed to create fund")
	}
	logging.AddData(ctx, "fundID", f.ID.String())
	return &CreateFundOutput{Status: http.StatusCreated, Body: toFund(f)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateFundInput) (*FundOutput, error) {
	b := input.Body
	id, err := apiutil.ParseID("id", b.ID)
	if err != nil {
		return nil, err
	}
	update := fund.FundUpdate{
		Name:         apiutil.OptString(b.Name),
		Description:  apiutil.OptNullString(b.Description),
		FundType:     apiutil.OptNullString(b.FundType),
		TargetAmount: apiutil.OptNullAmount(b.TargetAmount),
	}
	f, err := h.Funds.Update(ctx, id, update, b.CurrentBalance.Ptr(), auth.UserFromContext(ctx).ActorID())
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "update-fund", err, "Failed to update fund")
	}
	return &FundOutput{Body: toFund(f)}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteFundInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Funds.Delete(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-fund", err, "Failed to delete fund")
	}
	return nil, nil
}
