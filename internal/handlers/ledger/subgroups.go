package ledger

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/storage/ledger"
)

type ListSubgroupsInput struct {
	LedgerEntryID string `query:"ledger_entry_id" doc:"Only subgroups of this entry"`
}

type ListSubgroupsOutput struct {
	Body struct {
		Subgroups []Subgroup `json:"ledger_subgroups"`
	}
}

type CreateSubgroupBody struct {
	LedgerEntryID string `json:"ledger_entry_id" format:"uuid"`
	Name          string `json:"name"`
	Purpose       string `json:"purpose,omitempty"`
}

type CreateSubgroupInput struct {
	Body CreateSubgroupBody
}

type SubgroupOutput struct {
	Status int
	Body   Subgroup
}

type UpdateSubgroupBody struct {
	ID      string  `json:"id" format:"uuid"`
	Name    *string `json:"name,omitempty"`
	Purpose *string `json:"purpose,omitempty"`
}

type UpdateSubgroupInput struct {
	Body UpdateSubgroupBody
}

func (h *Handler) registerSubgroups(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-ledger-subgroups",
		Method:      http.MethodGet,
		Path:        "/api/ledger-subgroups",
		Summary:     "List ledger subgroups",
		Tags:        []string{"Ledger"},
		Security:    auth.RequireSession,
	}, h.listSubgroups)

	huma.Register(api, huma.Operation{
		OperationID:   "create-ledger-subgroup",
		Method:        http.MethodPost,
		Path:          "/api/ledger-subgroups",
		Summary:       "Create ledger subgroup",
		Tags:          []string{"Ledger"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.createSubgroup)

	huma.Register(api, huma.Operation{
		OperationID: "update-ledger-subgroup",
		Method:      http.MethodPut,
		Path:        "/api/ledger-subgroups",
		Summary:     "Update ledger subgroup",
		Tags:        []string{"Ledger"},
		Security:    auth.RequireAdmin,
	}, h.updateSubgroup)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-ledger-subgroup",
		Method:        http.MethodDelete,
		Path:          "/api/ledger-subgroups",
		Summary:       "Delete ledger subgroup",
		Tags:          []string{"Ledger"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.deleteSubgroup)
}

func (h *Handler) listSubgroups(ctx context.Context, input *ListSubgroupsInput) (*ListSubgroupsOutput, error) {
	entryID, err := apiutil.ParseOptionalID("ledger_entry_id", input.LedgerEntryID)
	if err != nil {
		return nil, err
	}
	subgroups, err := h.Ledger.ListSubgroups(ctx, entryID)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-ledger-subgroups", err, "Failed to fetch ledger subgroups")
	}
	out := &ListSubgroupsOutput{}
	out.Body.Subgroups = toSubgroups(subgroups)
	return out, nil
}

func (h *Handler) createSubgroup(ctx context.Context, input *CreateSubgroupInput) (*SubgroupOutput, error) {
	b := input.Body
	entryID, err := apiutil.ParseID("ledger_entry_id", b.LedgerEntryID)
	if err != nil {
		return nil, err
	}
	s, err := h.Ledger.CreateSubgroup(ctx, ledger.SubgroupCreate{
		LedgerEntryID: entryID,
		Name:          b.Name,
		Purpose:       apiutil.NullIfEmpty(b.Purpose),
	})
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-ledger-subgroup", err, "Failed to create ledger subgroup")
	}
	return &SubgroupOutput{Status: http.StatusCreated, Body: toSubgroup(s)}, nil
}

func (h *Handler) updateSubgroup(ctx context.Context, input *UpdateSubgroupInput) (*SubgroupOutput, error) {
	b := input.Body
	id, err := apiutil.ParseID("id", b.ID)
	if err != nil {
		return nil, err
	}
	s, err := h.Ledger.UpdateSubgroup(ctx, id, ledger.SubgroupUpdate{
		Name:    apiutil.OptString(b.Name),
		Purpose: apiutil.OptNullString(b.Purpose),
	})
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "update-ledger-subgroup", err, "Failed to update ledger subgroup")
	}
	return &SubgroupOutput{Status: http.StatusOK, Body: toSubgroup(s)}, nil
}

func (h *Handler) deleteSubgroup(ctx context.Context, input *DeleteInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Ledger.DeleteSubgroup(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-ledger-subgroup", err, "Failed to delete ledger subgroup")
	}
	return nil, nil
}
