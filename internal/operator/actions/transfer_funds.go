package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/fund"
	"github.com/carson-networks/church-finance/internal/storage/transaction"
	"github.com/carson-networks/church-finance/internal/storage/transfer"
)

const TransferCategory = "Fund Transfer"

// ErrIdempotencyKeyReused is returned when a key is replayed with different
// transfer parameters.
var ErrIdempotencyKeyReused = apperr.Validation("Idempotency key already used for a different transfer")

// TransferFunds moves Amount from one fund to another and records the
// expense/income pair. Both funds are locked in ascending id order, the
// debit is conditional on the balance, and the whole sequence shares the
// operator's database transaction.
type TransferFunds struct {
	FromFundID     uuid.UUID
	ToFundID       uuid.UUID
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
	CreatedBy      *uuid.UUID

	Result *TransferResult

	referenceID uuid.UUID
}

// TransferResult is the outcome of a transfer or of the replay of one.
type TransferResult struct {
	ReferenceID  uuid.UUID
	From         fund.Fund
	To           fund.Fund
	Transactions []*transaction.Transaction
	Replayed     bool
}

func (t *TransferFunds) LogFields() logrus.Fields {
	return logrus.Fields{
		"referenceID": t.referenceID.String(),
		"fromFundID":  t.FromFundID.String(),
		"toFundID":    t.ToFundID.String(),
		"amount":      t.Amount.String(),
		"idempotent":  t.IdempotencyKey != "",
	}
}

func (t *TransferFunds) Perform(ctx context.Context, writer *storage.Writer) error {
	referenceID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	t.referenceID = referenceID

	if t.IdempotencyKey != "" {
		replayed, err := t.claim(ctx, writer, referenceID)
		if err != nil || replayed {
			return err
		}
	}

	from, to, err := t.readBalances(ctx, writer)
	if err != nil {
		return err
	}
	if err := t.validate(from); err != nil {
		return err
	}
	if err := t.mutate(ctx, writer, from, to); err != nil {
		return err
	}
	txs, err := t.writeAudit(ctx, writer, referenceID, from, to)
	if err != nil {
		return err
	}

	t.Result = &TransferResult{
		ReferenceID:  referenceID,
		From:         *from,
		To:           *to,
		Transactions: txs,
	}
	return nil
}

// claim stores the idempotency key. When the key already exists it loads
// the original result instead and reports true.
func (t *TransferFunds) claim(ctx context.Context, writer *storage.Writer, referenceID uuid.UUID) (bool, error) {
	req := &transfer.Request{
		IdempotencyKey: t.IdempotencyKey,
		FromFundID:     t.FromFundID,
		ToFundID:       t.ToFundID,
		Amount:         t.Amount,
		Description:    t.Description,
		ReferenceID:    referenceID,
	}
	claimed, err := writer.Transfers.Claim(ctx, req)
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}
	if claimed {
		return false, nil
	}

	existing, err := writer.Transfers.Find(ctx, t.IdempotencyKey)
	if err != nil {
		return false, fmt.Errorf("load idempotency key: %w", err)
	}
	if !existing.SameParameters(req) {
		return false, ErrIdempotencyKeyReused
	}

	from, err := writer.Funds.FindByID(ctx, existing.FromFundID)
	if err != nil {
		return false, NotFound(err, "Source fund")
	}
	to, err := writer.Funds.FindByID(ctx, existing.ToFundID)
	if err != nil {
		return false, NotFound(err, "Destination fund")
	}
	txs, err := writer.Transactions.ListByReference(ctx, transaction.ReferenceTransfer, existing.ReferenceID)
	if err != nil {
		return false, err
	}
	t.Result = &TransferResult{
		ReferenceID:  existing.ReferenceID,
		From:         *from,
		To:           *to,
		Transactions: txs,
		Replayed:     true,
	}
	return true, nil
}

func (t *TransferFunds) readBalances(ctx context.Context, writer *storage.Writer) (*fund.Fund, *fund.Fund, error) {
	ids := []uuid.UUID{t.FromFundID, t.ToFundID}
	if ids[1].String() < ids[0].String() {
		ids[0], ids[1] = ids[1], ids[0]
	}

	locked := make(map[uuid.UUID]*fund.Fund, 2)
	for _, id := range ids {
		f, err := writer.Funds.FindByIDForUpdate(ctx, id)
		if err != nil {
			if id == t.FromFundID {
				return nil, nil, NotFound(err, "Source fund")
			}
			return nil, nil, NotFound(err, "Destination fund")
		}
		locked[id] = f
	}
	return locked[t.FromFundID], locked[t.ToFundID], nil
}

func (t *TransferFunds) validate(from *fund.Fund) error {
	if from.CurrentBalance.LessThan(t.Amount) {
		return ErrInsufficientFunds
	}
	return nil
}

func (t *TransferFunds) mutate(ctx context.Context, writer *storage.Writer, from, to *fund.Fund) error {
	fromBalance, err := writer.Funds.Debit(ctx, from.ID, t.Amount)
	if errors.Is(err, fund.ErrInsufficientBalance) {
		return ErrInsufficientFunds
	}
	if err != nil {
		return fmt.Errorf("debit source fund: %w", err)
	}
	toBalance, err := writer.Funds.Adjust(ctx, to.ID, t.Amount)
	if err != nil {
		return fmt.Errorf("credit destination fund: %w", err)
	}
	from.CurrentBalance = fromBalance
	to.CurrentBalance = toBalance
	return nil
}

func (t *TransferFunds) writeAudit(ctx context.Context, writer *storage.Writer, referenceID uuid.UUID, from, to *fund.Fund) ([]*transaction.Transaction, error) {
	refType := transaction.ReferenceTransfer
	creates := []*transaction.TransactionCreate{
		{
			Type:          transaction.TypeExpense,
			Amount:        t.Amount,
			Description:   fmt.Sprintf("Transfer to %s: %s", to.Name, t.Description),
			Category:      TransferCategory,
			FundID:        from.ID,
			ReferenceID:   &referenceID,
			ReferenceType: &refType,
			CreatedBy:     t.CreatedBy,
		},
		{
			Type:          transaction.TypeIncome,
			Amount:        t.Amount,
			Description:   fmt.Sprintf("Transfer from %s: %s", from.Name, t.Description),
			Category:      TransferCategory,
			FundID:        to.ID,
			ReferenceID:   &referenceID,
			ReferenceType: &refType,
			CreatedBy:     t.CreatedBy,
		},
	}

	txs := make([]*transaction.Transaction, 0, len(creates))
	for _, create := range creates {
		id, err := writer.Transactions.Insert(ctx, create)
		if err != nil {
			return nil, fmt.Errorf("insert transfer transaction: %w", err)
		}
		tx, err := writer.Transactions.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
