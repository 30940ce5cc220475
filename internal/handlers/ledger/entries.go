package ledger

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
)

type ListEntriesInput struct {
	apiutil.PageQuery
}

type ListEntriesOutput struct {
	Body struct {
		Entries    []Entry         `json:"ledger_entries"`
		NextCursor *apiutil.Cursor `json:"nextCursor,omitempty"`
	}
}

type GetEntryInput struct {
	ID string `path:"id" format:"uuid"`
}

type EntryDetail struct {
	Entry
	Subgroups []Subgroup `json:"subgroups"`
	Bills     BillTotals `json:"bills"`
}

type EntryDetailOutput struct {
	Body EntryDetail
}

type CreateEntryBody struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EntryDate   string `json:"entry_date,omitempty" doc:"Defaults to today"`
}

type CreateEntryInput struct {
	Body CreateEntryBody
}

type EntryOutput struct {
	Status int
	Body   Entry
}

type UpdateEntryBody struct {
	ID          string  `json:"id" format:"uuid"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	EntryDate   *string `json:"entry_date,omitempty"`
}

type UpdateEntryInput struct {
	Body UpdateEntryBody
}

type DeleteInput struct {
	ID string `query:"id" required:"true" format:"uuid"`
}

func (h *Handler) registerEntries(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-ledger-entries",
		Method:      http.MethodGet,
		Path:        "/api/ledger-entries",
		Summary:     "List ledger entries",
		Tags:        []string{"Ledger"},
		Security:    auth.RequireSession,
	}, h.listEntries)

	huma.Register(api, huma.Operation{
		OperationID: "get-ledger-entry",
		Method:      http.MethodGet,
		Path:        "/api/ledger-entries/{id}",
		Summary:     "Get ledger entry",
		Description: "Returns the entry with its subgroups and the totals of its bills.",
		Tags:        []string{"Ledger"},
		Security:    auth.RequireSession,
	}, h.getEntry)

	huma.Register(api, huma.Operation{
		OperationID:   "create-ledger-entry",
		Method:        http.MethodPost,
		Path:          "/api/ledger-entries",
		Summary:       "Create ledger entry",
		Tags:          []string{"Ledger"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.createEntry)

	huma.Register(api, huma.Operation{
		OperationID: "update-ledger-entry",
		Method:      http.MethodPut,
		Path:        "/api/ledger-entries",
		Summary:     "Update ledger entry",
		Tags:        []string{"Ledger"},
		Security:    auth.RequireAdmin,
	}, h.updateEntry)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-ledger-entry",
		Method:        http.MethodDelete,
		Path:          "/api/ledger-entries",
		Summary:       "Delete ledger entry",
		Description:   "Deletes the entry and its subgroups. Bills lose their ledger reference.",
		Tags:          []string{"Ledger"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.deleteEntry)
}

// Register registers the ledger entry and subgroup operations.
func (h *Handler) Register(api huma.API) {
	h.registerEntries(api)
	h.registerSubgroups(api)
}

func (h *Handler) listEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	result, err := h.Ledger.ListEntries(ctx, ledger.EntryFilter{Limit: input.Limit, Offset: input.Position})
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-ledger-entries", err, "Failed to fetch ledger entries")
	}
	out := &ListEntriesOutput{}
	out.Body.Entries = make([]Entry, len(result.Entries))
	for i, e := range result.Entries {
		out.Body.Entries[i] = toEntry(e)
	}
	if result.NextCursor != nil {
		out.Body.NextCursor = &apiutil.Cursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return out, nil
}

func (h *Handler) getEntry(ctx context.Context, input *GetEntryInput) (*EntryDetailOutput, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	detail, err := h.Ledger.GetEntry(ctx, id)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "get-ledger-entry", err, "Failed to fetch ledger entry")
	}
	return &EntryDetailOutput{Body: EntryDetail{
		Entry:     toEntry(detail.Entry),
		Subgroups: toSubgroups(detail.Subgroups),
		Bills: BillTotals{
			Count:   detail.Bills.Count,
			Total:   apiutil.Money(detail.Bills.Total),
			Paid:    apiutil.Money(detail.Bills.Paid),
			Pending: apiutil.Money(detail.Bills.Pending),
		},
	}}, nil
}

func (h *Handler) createEntry(ctx context.Context, input *CreateEntryInput) (*EntryOutput, error) {
	b := input.Body
	create := ledger.EntryCreate{
		Title:       b.Title,
		Description: apiutil.NullIfEmpty(b.Description),
		CreatedBy:   auth.UserFromContext(ctx).ActorID(),
	}
	date, err := apiutil.OptionalDate("entry_date", b.EntryDate)
	if err != nil {
		return nil, err
	}
	if date != nil {
		create.EntryDate = *date
	}

	e, err := h.Ledger.CreateEntry(ctx, create)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-ledger-entry", err, "Failed to create ledger entry")
	}
	return &EntryOutput{Status: http.StatusCreated, Body: toEntry(e)}, nil
}

func (h *Handler) updateEntry(ctx context.Context, input *UpdateEntryInput) (*EntryOutput, error) {
	b := input.Body
	id, err := apiutil.ParseID("id", b.ID)
	if err != nil {
		return nil, err
	}
	update := ledger.EntryUpdate{
		Title:       apiutil.OptString(b.Title),
		Description: apiutil.OptNullString(b.Description),
	}
	if update.EntryDate, err = apiutil.OptDate("entry_date", b.EntryDate); err != nil {
		return nil, err
	}

	e, err := h.Ledger.UpdateEntry(ctx, id, update)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "update-ledger-entry", err, "Failed to update ledger entry")
	}
	return &EntryOutput{Status: http.StatusOK, Body: toEntry(e)}, nil
}

func (h *Handler) deleteEntry(ctx context.Context, input *DeleteInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Ledger.DeleteEntry(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-ledger-entry", err, "Failed to delete ledger entry")
	}
	return nil, nil
}
