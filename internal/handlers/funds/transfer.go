package funds

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/service"
)

// TransferBody accepts both snake_case and camelCase keys. When both are
// present the snake_case value wins.
type TransferBody struct {
	FromFundID          string         `json:"from_fund_id,omitempty" doc:"Source fund UUID"`
	FromFundIDCamel     string         `json:"fromFundId,omitempty"`
	ToFundID            string         `json:"to_fund_id,omitempty" doc:"Destination fund UUID"`
	ToFundIDCamel       string         `json:"toFundId,omitempty"`
	Amount              apiutil.Amount `json:"amount,omitempty"`
	Description         string         `json:"description,omitempty" doc:"Defaults to \"Fund transfer\""`
	IdempotencyKey      string         `json:"idempotency_key,omitempty" maxLength:"255"`
	IdempotencyKeyCamel string         `json:"idempotencyKey,omitempty" maxLength:"255"`
}

type TransferInput struct {
	IdempotencyKey string `header:"Idempotency-Key" maxLength:"255"`
	Body           TransferBody
}

type TransferResponse struct {
	ReferenceID  string             `json:"reference_id"`
	FromFund     FundBalance        `json:"from_fund"`
	ToFund       FundBalance        `json:"to_fund"`
	Transactions []AuditTransaction `json:"transactions"`
	Replayed     bool               `json:"replayed" doc:"True when an idempotency key returned an earlier result"`
	Message      string             `json:"message"`
}

type TransferOutput struct {
	Body TransferResponse
}

func (h *Handler) registerTransfer(api huma.API) {
	op := huma.Operation{
		OperationID: "transfer-funds",
		Method:      http.MethodPost,
		Path:        "/api/funds/transfer",
		Summary:     "Transfer between funds",
		Description: "Moves an amount between two funds and records an expense/income pair sharing one reference id, atomically.",
		Tags:        []string{"Funds"},
		Security:    auth.RequireAdmin,
	}
	huma.Register(api, op, h.transfer)

	op.OperationID = "patch-funds-transfer"
	op.Method = http.MethodPatch
	op.Path = "/api/funds"
	op.Summary = "Transfer between funds (legacy route)"
	huma.Register(api, op, h.transfer)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTransferInput merges key variants into one service request.
func parseTransferInput(input *TransferInput) (service.TransferRequest, error) {
	b := input.Body
	req := service.TransferRequest{
		Amount:         b.Amount.Decimal,
		Description:    b.Description,
		IdempotencyKey: first(b.IdempotencyKey, b.IdempotencyKeyCamel, input.IdempotencyKey),
	}

	var missing []string
	from := first(b.FromFundID, b.FromFundIDCamel)
	to := first(b.ToFundID, b.ToFundIDCamel)
	if from == "" {
		missing = append(missing, "from_fund_id is required")
	}
	if to == "" {
		missing = append(missing, "to_fund_id is required")
	}
	if !b.Amount.Set {
		missing = append(missing, "amount is required")
	}
	if len(missing) > 0 {
		return req, apiutil.NewError(http.StatusBadRequest, "Missing required fields", toErrors(missing)...)
	}

	var err error
	if req.FromFundID, err = uuid.FromString(from); err != nil {
		return req, apiutil.NewError(http.StatusBadRequest, "Invalid from_fund_id", err)
	}
	if req.ToFundID, err = uuid.FromString(to); err != nil {
		return req, apiutil.NewError(http.StatusBadRequest, "Invalid to_fund_id", err)
	}
	return req, nil
}

type detail string

func (d detail) Error() string { return string(d) }

func toErrors(details []string) []error {
	errs := make([]error, len(details))
	for i, d := range details {
		errs[i] = detail(d)
	}
	return errs
}

func (h *Handler) transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	req, err := parseTransferInput(input)
	if err != nil {
		return nil, err
	}
	req.RequestedBy = auth.UserFromContext(ctx).ActorID()

	stopTimer := logging.Timed(ctx, "transferMs")
	result, err := h.Funds.Transfer(ctx, req)
	stopTimer()
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "transfer-funds", err, "Failed to transfer funds")
	}
	logging.AddData(ctx, "referenceID", result.ReferenceID.String())
	logging.AddData(ctx, "replayed", result.Replayed)

	resp := TransferResponse{
		ReferenceID: result.ReferenceID.String(),
		FromFund: FundBalance{
			ID:             result.From.ID.String(),
			Name:           result.From.Name,
			CurrentBalance: apiutil.Money(result.From.CurrentBalance),
		},
		ToFund: FundBalance{
			ID:             result.To.ID.String(),
			Name:           result.To.Name,
			CurrentBalance: apiutil.Money(result.To.CurrentBalance),
		},
		Transactions: make([]AuditTransaction, len(result.Transactions)),
		Replayed:     result.Replayed,
		Message:      "Transfer completed successfully",
	}
	for i, tx := range result.Transactions {
		resp.Transactions[i] = toAuditTransaction(tx)
	}
	return &TransferOutput{Body: resp}, nil
}
