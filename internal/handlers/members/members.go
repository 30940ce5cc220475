package members

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/storage/member"
)

type Member struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	Status         string  `json:"status" enum:"active,inactive,visitor"`
	MembershipDate *string `json:"membership_date"`
	Notes          *string `json:"notes"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toMember(m *member.Member) Member {
	return Member{
		ID:             m.ID.String(),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		Address:        m.Address,
		Status:         m.Status,
		MembershipDate: apiutil.FormatDatePtr(m.MembershipDate),
		Notes:          m.Notes,
		CreatedAt:      apiutil.FormatTime(m.CreatedAt),
		UpdatedAt:      apiutil.FormatTime(m.UpdatedAt),
	}
}

type memberService interface {
	List(ctx context.Context, filter member.MemberFilter) (*member.MemberListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*member.Member, error)
	Create(ctx context.Context, create member.MemberCreate) (*member.Member, error)
	Update(ctx context.Context, id uuid.UUID, update member.MemberUpdate) (*member.Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler serves /api/members.
type Handler struct {
	Members memberService
	Logger  logrus.FieldLogger
}

func NewHandler(svc memberService, logger logrus.FieldLogger) *Handler {
	return &Handler{Members: svc, Logger: logger}
}

type ListMembersInput struct {
	Query  string `query:"q" doc:"Matches first name, last name or email"`
	Status string `query:"status" enum:"active,inactive,visitor"`
	apiutil.PageQuery
}

type ListMembersOutput struct {
	Body struct {
		Members    []Member        `json:"members"`
		NextCursor *apiutil.Cursor `json:"nextCursor,omitempty"`
	}
}

type GetMemberInput struct {
	ID string `path:"id" format:"uuid"`
}

type MemberOutput struct {
	Status int
	Body   Member
}

type CreateMemberBody struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Status         string `json:"status,omitempty" enum:"active,inactive,visitor" doc:"Defaults to active"`
	MembershipDate string `json:"membership_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type CreateMemberInput struct {
	Body CreateMemberBody
}

type UpdateMemberBody struct {
	ID             string  `json:"id" format:"uuid"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Status         *string `json:"status,omitempty" enum:"active,inactive,visitor"`
	MembershipDate *string `json:"membership_date,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type UpdateMemberInput struct {
	Body UpdateMemberBody
}

type DeleteMemberInput struct {
	ID string `query:"id" required:"true" format:"uuid"`
}

// Register registers every /api/members operation.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/api/members",
		Summary:     "List members",
		Tags:        []string{"Members"},
		Security:    auth.RequireSession,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-member",
		Method:      http.MethodGet,
		Path:        "/api/members/{id}",
		Summary:     "Get member",
		Tags:        []string{"Members"},
		Security:    auth.RequireSession,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-member",
		Method:        http.MethodPost,
		Path:          "/api/members",
		Summary:       "Create member",
		Tags:          []string{"Members"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "update-member",
		Method:      http.MethodPut,
		Path:        "/api/members",
		Summary:     "Update member",
		Tags:        []string{"Members"},
		Security:    auth.RequireAdmin,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-member",
		Method:        http.MethodDelete,
		Path:          "/api/members",
		Summary:       "Delete member",
		Description:   "Offerings keep existing without a member.",
		Tags:          []string{"Members"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) list(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	result, err := h.Members.List(ctx, member.MemberFilter{
		Query:  input.Query,
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Position,
	})
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-members", err, "Failed to fetch members")
	}
	out := &ListMembersOutput{}
	out.Body.Members = make([]Member, len(result.Members))
	for i, m := range result.Members {
		out.Body.Members[i] = toMember(m)
	}
	if result.NextCursor != nil {
		out.Body.NextCursor = &apiutil.Cursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return out, nil
}

func (h *Handler) get(ctx context.Context, input *GetMemberInput) (*MemberOutput, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	m, err := h.Members.Get(ctx, id)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "get-member", err, "Failed to fetch member")
	}
	return &MemberOutput{Status: http.StatusOK, Body: toMember(m)}, nil
}

func (h *Handler) create(ctx context.Context, input *CreateMemberInput) (*MemberOutput, error) {
	b := input.Body
	create := member.MemberCreate{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     apiutil.NullIfEmpty(b.Email),
		Phone:     apiutil.NullIfEmpty(b.Phone),
		Address:   apiutil.NullIfEmpty(b.Address),
		Status:    b.Status,
		Notes:     apiutil.NullIfEmpty(b.Notes),
	}
	var err error
	if create.MembershipDate, err = apiutil.OptionalDate("membership_date", b.MembershipDate); err != nil {
		return nil, err
	}

	m, err := h.Members.Create(ctx, create)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-member", err, "Failed to create member")
	}
	return &MemberOutput{Status: http.StatusCreated, Body: toMember(m)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateMemberInput) (*MemberOutput, error) {
	b := input.Body
	id, err := apiutil.ParseID("id", b.ID)
	if err != nil {
		return nil, err
	}
	update := member.MemberUpdate{
		FirstName: apiutil.OptString(b.FirstName),
		LastName:  apiutil.OptString(b.LastName),
		Email:     apiutil.OptNullString(b.Email),
		Phone:     apiutil.OptNullString(b.Phone),
		Address:   apiutil.OptNullString(b.Address),
		Status:    apiutil.OptString(b.Status),
		Notes:     apiutil.OptNullString(b.Notes),
	}
	if update.MembershipDate, err = apiutil.OptNullDate("membership_date", b.MembershipDate); err != nil {
		return nil, err
	}

	m, err := h.Members.Update(ctx, id, update)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "update-member", err, "Failed to update member")
	}
	return &MemberOutput{Status: http.StatusOK, Body: toMember(m)}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteMemberInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Members.Delete(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-member", err, "Failed to delete member")
	}
	return nil, nil
}
