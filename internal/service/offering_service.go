package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage/offering"
)

const DefaultOfferingType = "general"

type OfferingService struct {
	*deps
}

func (s *OfferingService) List(ctx context.Context, filter offering.OfferingFilter) (*offering.OfferingListResult, error) {
	return retryRead(ctx, s.deps, func() (*offering.OfferingListResult, error) {
		return s.reader.Offerings.List(ctx, &filter)
	})
}

func (s *OfferingService) Get(ctx context.Context, id uuid.UUID) (*offering.Offering, error) {
	o, err := retryRead(ctx, s.deps, func() (*offering.Offering, error) {
		return s.reader.Offerings.FindByID(ctx, id)
	})
	return o, actions.NotFound(err, "Offering")
}

// Record stores an offering and credits its fund.
func (s *OfferingService) Record(ctx context.Context, create offering.OfferingCreate) (*offering.Offering, error) {
	if create.FundID == uuid.Nil {
		return nil, apperr.Validation("Missing required fields", "fund_id is required")
	}
	if err := validateAmount("Amount", create.Amount); err != nil {
		return nil, err
	}
	create.OfferingType = strings.TrimSpace(create.OfferingType)
	if create.OfferingType == "" {
		create.OfferingType = DefaultOfferingType
	}
	if create.OfferingDate.IsZero() {
		create.OfferingDate = s.now()
	}

	action := &actions.RecordOffering{Create: create}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	o := action.Result
	e := events.New(events.KindOfferingRecorded, o.ID, "Offering recorded",
		fmt.Sprintf("%s %s offering recorded", o.Amount.StringFixed(2), o.OfferingType))
	e.Amount = o.Amount.StringFixed(2)
	e.ActorID = create.CreatedBy
	s.publish(ctx, e)
	return o, nil
}

func (s *OfferingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, &actions.DeleteOffering{ID: id})
}
