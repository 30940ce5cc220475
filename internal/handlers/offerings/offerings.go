package offerings

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/storage/offering"
)

type Offering struct {
	ID           string  `json:"id"`
	Amount       string  `json:"amount"`
	FundID       string  `json:"fund_id"`
	MemberID     *string `json:"member_id"`
	OfferingType string  `json:"offering_type"`
	OfferingDate string  `json:"offering_date"`
	Notes        *string `json:"notes"`
	CreatedBy    *string `json:"created_by"`
	CreatedAt    string  `json:"created_at"`
}

func toOffering(o *offering.Offering) Offering {
	return Offering{
		ID:           o.ID.String(),
		Amount:       apiutil.Money(o.Amount),
		FundID:       o.FundID.String(),
		MemberID:     apiutil.IDPtrString(o.MemberID),
		OfferingType: o.OfferingType,
		OfferingDate: apiutil.FormatDate(o.OfferingDate),
		Notes:        o.Notes,
		CreatedBy:    apiutil.IDPtrString(o.CreatedBy),
		CreatedAt:    apiutil.FormatTime(o.CreatedAt),
	}
}

type offeringService interface {
	List(ctx context.Context, filter offering.OfferingFilter) (*offering.OfferingListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*offering.Offering, error)
	Record(ctx context.Context, create offering.OfferingCreate) (*offering.Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler serves /api/offerings.
type Handler struct {
	Offerings offeringService
	Logger    logrus.FieldLogger
}

func NewHandler(svc offeringService, logger logrus.FieldLogger) *Handler {
	return &Handler{Offerings: svc, Logger: logger}
}

type ListOfferingsInput struct {
	FundID   string `query:"fund_id"`
	MemberID string `query:"member_id"`
	apiutil.PageQuery
}

type ListOfferingsOutput struct {
	Body struct {
		Offerings  []Offering      `json:"offerings"`
		NextCursor *apiutil.Cursor `json:"nextCursor,omitempty"`
	}
}

type GetOfferingInput struct {
	ID string `path:"id" format:"uuid"`
}

type OfferingOutput struct {
	Status int
	Body   Offering
}

type CreateOfferingBody struct {
	Amount       apiutil.Amount `json:"amount"`
	FundID       string         `json:"fund_id" format:"uuid"`
	MemberID     string         `json:"member_id,omitempty"`
	OfferingType string         `json:"offering_type,omitempty" doc:"Defaults to general"`
	OfferingDate string         `json:"offering_date,omitempty" doc:"Defaults to today"`
	Notes        string         `json:"notes,omitempty"`
}

type CreateOfferingInput struct {
	Body CreateOfferingBody
}

type DeleteOfferingInput struct {
	ID string `query:"id" required:"true" format:"uuid"`
}

// Register registers every /api/offerings operation.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-offerings",
		Method:      http.MethodGet,
		Path:        "/api/offerings",
		Summary:     "List offerings",
		Tags:        []string{"Offerings"},
		Security:    auth.RequireSession,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-offering",
		Method:      http.MethodGet,
		Path:        "/api/offerings/{id}",
		Summary:     "Get offering",
		Tags:        []string{"Offerings"},
		Security:    auth.RequireSession,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-offering",
		Method:        http.MethodPost,
		Path:          "/api/offerings",
		Summary:       "Record offering",
		Description:   "Stores the offering, credits its fund and records the income transaction.",
		Tags:          []string{"Offerings"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-offering",
		Method:        http.MethodDelete,
		Path:          "/api/offerings",
		Summary:       "Delete offering",
		Description:   "Removes the offering and reverses its income.",
		Tags:          []string{"Offerings"},
		Security:      auth.RequireAdmin,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) list(ctx context.Context, input *ListOfferingsInput) (*ListOfferingsOutput, error) {
	filter := offering.OfferingFilter{Limit: input.Limit, Offset: input.Position}
	var err error
	if filter.FundID, err = apiutil.ParseOptionalID("fund_id", input.FundID); err != nil {
		return nil, err
	}
	if filter.MemberID, err = apiutil.ParseOptionalID("member_id", input.MemberID); err != nil {
		return nil, err
	}

	result, err := h.Offerings.List(ctx, filter)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-offerings", err, "Failed to fetch offerings")
	}
	out := &ListOfferingsOutput{}
	out.Body.Offerings = make([]Offering, len(result.Offerings))
	for i, o := range result.Offerings {
		out.Body.Offerings[i] = toOffering(o)
	}
	if result.NextCursor != nil {
		out.Body.NextCursor = &apiutil.Cursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return out, nil
}

func (h *Handler) get(ctx context.Context, input *GetOfferingInput) (*OfferingOutput, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	o, err := h.Offerings.Get(ctx, id)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "get-offering", err, "Failed to fetch offering")
	}
	return &OfferingOutput{Status: http.StatusOK, Body: toOffering(o)}, nil
}

func (h *Handler) create(ctx context.Context, input *CreateOfferingInput) (*OfferingOutput, error) {
	b := input.Body
	fundID, err := apiutil.ParseID("fund_id", b.FundID)
	if err != nil {
		return nil, err
	}
	create := offering.OfferingCreate{
		Amount:       b.Amount.Decimal,
		FundID:       fundID,
		OfferingType: b.OfferingType,
		Notes:        apiutil.NullIfEmpty(b.Notes),
		CreatedBy:    auth.UserFromContext(ctx).ActorID(),
	}
	if create.MemberID, err = apiutil.ParseOptionalID("member_id", b.MemberID); err != nil {
		return nil, err
	}
	date, err := apiutil.OptionalDate("offering_date", b.OfferingDate)
	if err != nil {
		return nil, err
	}
	if date != nil {
		create.OfferingDate = *date
	}

	o, err := h.Offerings.Record(ctx, create)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "create-offering", err, "Failed to record offering")
	}
	logging.AddData(ctx, "offeringID", o.ID.String())
	return &OfferingOutput{Status: http.StatusCreated, Body: toOffering(o)}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteOfferingInput) (*struct{}, error) {
	id, err := apiutil.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Offerings.Delete(ctx, id); err != nil {
		return nil, apiutil.Fail(h.Logger, "delete-offering", err, "Failed to delete offering")
	}
	return nil, nil
}
