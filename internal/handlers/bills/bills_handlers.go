package bills

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/storage/bill"
)

type ListBillsInput struct {
	Status        string `query:"status" enum:"pending,paid,overdue"`
	FundID        string `query:"fund_id"`
	LedgerEntryID string `query:"ledger_entry_id"`
	apiutil.PageQuery
}

type ListBillsOutput struct {
	Body struct {
		Bills      []Bill          `json:"bills"`
		NextCursor *apiutil.Cursor `json:"nextCursor,omitempty"`
	}
}

type GetBillInput struct {
	ID string `path:"id" format:"uuid"`
}

type BillOutput struct {
	Status int
	Body   Bill
}

type CreateBillBody struct {
	Vendor           string         `json:"vendor"`
	Description      string         `json:"description,omitempty"`
	Amount           apiutil.Amount `json:"amount"`
	DueDate          string         `json:"due_date" doc:"YYYY-MM-DD"`
	Status           string         `json:"status,omitempty" enum:"pending,paid,overdue" doc:"Defaults to pending. Creating a paid bill pays it."`
	Category         string         `json:"category,omitempty"`
	FundID           string         `json:"fund_id,omitempty"`
	LedgerEntryID    string         `json:"ledger_entry_id,omitempty"`
	LedgerSubgroupID string         `json:"ledger_subgroup_id,omitempty"`
	PaidDate         string         `json:"paid_date,omitempty"`
	Notes            string         `json:"notes,omitempty"`
}

type CreateBillInput struct {
	Body CreateBillBody
}

// UpdateBillBody is a partial update. A status change to or from paid moves
// money between the bill's fund and its expense transaction.
type UpdateBillBody struct {
	ID               string         `json:"id" format:"uuid"`
	Vendor           *string        `json:"vendor,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Amount           apiutil.Amount `json:"amount,omitempty"`
	DueDate          *string        `json:"due_date,omitempty"`
	Status           *string        `json:"status,omitempty" enum:"pending,paid,overdue"`
	Category         *string        `json:"category,omitempty"`
	FundID           *string        `json:"fund_id,omitempty" doc:"Empty string clears"`
	LedgerEntryID    *string        `json:"ledger_entry_id,omitempty"`
	LedgerSubgroupID *string        `json:"ledger_subgroup_id,omitempty"`
	PaidDate         *string        `json:"paid_date,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
}

type UpdateBillInput struct {
	Body UpdateBillBody
}

type DeleteBillInput struct {
	ID string `query:"id" required:"true" format:"uuid"`
}

// Register registers every /api/bills operation.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-bills",
		Method:      http.MethodGet,
		Path:        "/api/bills",
		Summary:     "List bills",
		Tags:        []string{"Bills"},
		Security:    auth.RequireSession,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-bill",
		Method:      http.MethodGet,
		Path:        "/api/bills/{id}",
		Summary:     "Get bill",
		Tags:        []string{"Bills"},
		Security:    auth.RequireSession,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-bill",
		Method:        http.MethodPost,
		Path:          "/api/bills",
		Summary:       "Create bill",
		Tags:          []string{"Bills"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "update-bill",
		Method:      http.MethodPut,
		Path:        "/api/bills",
		Summary:     "Update bill",
		Description: "Marking a bill paid debits its fund and records an expense; moving it back to pending reverses both.",
		Tags:        []string{"Bills"},
		Security:    auth.RequireAdmin,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-bill",
		Method:        http.MethodDelete,
		Path:          "/api/bills",
		Summary:       "Delete bill",
		Description:   "A paid bill's payment is reverted first.",
		Tags:          []string{"Bills"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) list(ctx context.Context, input *ListBillsInput) (*ListBillsOutput, error) {
	filter := bill.BillFilter{Limit: input.Limit, Offset: input.Position}
	if input.Status != "" {
		s := bill.Status(input.Status)
		filter.Status = &s
	}
	var err error
	if filter.FundID, err = apiutil.ParseOptionalID("fund_id", input.FundID); err != nil {
		return nil, err
	}
	if filter.LedgerEntryID, err = apiutil.ParseOptionalID("ledger_entry_id", input.LedgerEntryID); err != nil {
		return nil, err
	}

	stopTimer := logging.Timed(ctx, "listBillsMs")
	result, err := h.Bills.List(ctx, filter)
	stopTimer()
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-bills", err, "Failed to fetch bills")
	}

	now := h.Bills.Now()
	out := &ListBillsOutput{}
	out.Body.Bills = make([]Bill, len(result.Bills))
	for i, b := range result.Bills {
		out.Body.Bills[i] = toBill(b, now)
	}
	if result.NextCursor != nil {
		out.Body.NextCursor = &apiutil.Cursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return out, nil
}

func (h *Handler) get(ctx context.Context, input *GetBillInput) (*BillOutput, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	b, err := h.Bills.Get(ctx, id)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "get-bill", err, "Failed to fetch bill")
	}
	return &BillOutput{Status: http.StatusOK, Body: toBill(b, h.Bills.Now())}, nil
}

func parseCreateBillInput(input *CreateBillInput) (bill.BillCreate, error) {
	b := input.Body
	create := bill.BillCreate{
		Vendor:      b.Vendor,
		Description: apiutil.NullIfEmpty(b.Description),
		Amount:      b.Amount.Decimal,
		Status:      bill.Status(b.Status),
		Category:    apiutil.NullIfEmpty(b.Category),
		Notes:       apiutil.NullIfEmpty(b.Notes),
	}
	var err error
	if b.DueDate != "" {
		if create.DueDate, err = apiutil.ParseDate(b.DueDate); err != nil {
			return create, apiutil.NewError(http.StatusBadRequest, "Invalid due_date", err)
		}
	}
	if create.FundID, err = apiutil.ParseOptionalID("fund_id", b.FundID); err != nil {
		return create, err
	}
	if create.LedgerEntryID, err = apiutil.ParseOptionalID("ledger_entry_id", b.LedgerEntryID); err != nil {
		return create, err
	}
	if create.LedgerSubgroupID, err = apiutil.ParseOptionalID("ledger_subgroup_id", b.LedgerSubgroupID); err != nil {
		return create, err
	}
	if create.PaidDate, err = apiutil.OptionalDate("paid_date", b.PaidDate); err != nil {
		return create, err
	}
	return create, nil
}

func (h *Handler) create(ctx context.Context, input *CreateBillInput) (*BillOutput, error) {
	create, err := parseCreateBillInput(input)
	if err != nil {
		return nil, err
	}
	create.CreatedBy = auth.UserFromContext(ctx).ActorID()

	b, err := h.Bills.Create(ctx, create)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-bill", err, "Failed to create bill")
	}
	logging.AddData(ctx, "billID", b.ID.String())
	return &BillOutput{Status: http.StatusCreated, Body: toBill(b, h.Bills.Now())}, nil
}

func parseUpdateBillInput(input *UpdateBillInput) (bill.BillUpdate, error) {
	b := input.Body
	update := bill.BillUpdate{
		Vendor:      apiutil.OptString(b.Vendor),
		Description: apiutil.OptNullString(b.Description),
		Amount:      apiutil.OptAmount(b.Amount),
		Category:    apiutil.OptNullString(b.Category),
		Notes:       apiutil.OptNullString(b.Notes),
	}
	if b.Status != nil {
		update.Status.Set(bill.Status(*b.Status))
	}
	var err error
	if update.DueDate, err = apiutil.OptDate("due_date", b.DueDate); err != nil {
		return update, err
	}
	if update.FundID, err = apiutil.OptNullID("fund_id", b.FundID); err != nil {
		return update, err
	}
	if update.LedgerEntryID, err = apiutil.OptNullID("ledger_entry_id", b.LedgerEntryID); err != nil {
		return update, err
	}
	if update.LedgerSubgroupID, err = apiutil.OptNullID("ledger_subgroup_id", b.LedgerSubgroupID); err != nil {
		return update, err
	}
	if update.PaidDate, err = apiutil.OptNullDate("paid_date", b.PaidDate); err != nil {
		return update, err
	}
	return update, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateBillInput) (*BillOutput, error) {
	id, err := apiutil.ParseID("id", input.Body.ID)
	if err != nil {
		return nil, err
	}
	update, err := parseUpdateBillInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.Timed(ctx, "updateBillMs")
	b, err := h.Bills.Update(ctx, id, update, auth.UserFromContext(ctx).ActorID())
	stopTimer()
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "update-bill", err, "Failed to update bill")
	}
	return &BillOutput{Status: http.StatusOK, Body: toBill(b, h.Bills.Now())}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteBillInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Bills.Delete(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-bill", err, "Failed to delete bill")
	}
	return nil, nil
}
