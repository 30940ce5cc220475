package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/offering"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type offeringTable struct{ view }

func (t offeringTable) FindByID(_ context.Context, id uuid.UUID) (*offering.Offering, error) {
	var out *offering.Offering
	t.read(func(s *state) {
		if o, ok := s.offerings[id]; ok {
			out = &o
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t offeringTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*offering.Offering, error) {
	return t.FindByID(ctx, id)
}

func (t offeringTable) List(_ context.Context, filter *offering.OfferingFilter) (*offering.OfferingListResult, error) {
	if filter == nil {
		filter = &offering.OfferingFilter{}
	}
	var rows []*offering.Offering
	t.read(func(s *state) {
		for _, o := range s.offerings {
			if filter.FundID != nil && o.FundID != *filter.FundID {
				continue
			}
			if filter.MemberID != nil && (o.MemberID == nil || *o.MemberID != *filter.MemberID) {
				continue
			}
			rows = append(rows, ptr(o))
		}
	})
	sortBy(rows, func(a, b *offering.Offering) bool {
		if !a.OfferingDate.Equal(b.OfferingDate) {
			return a.OfferingDate.After(b.OfferingDate)
		}
		return idLess(b.ID, a.ID)
	})
	rows, next := paginate(rows, filter.Limit, filter.Offset)
	return &offering.OfferingListResult{Offerings: rows, NextCursor: next}, nil
}

func (t offeringTable) Insert(_ context.Context, create *offering.OfferingCreate) (uuid.UUID, error) {
	if _, ok := t.tx.funds[create.FundID]; !ok {
		return uuid.Nil, sqlconfig.ErrNotFound
	}
	o := offering.Offering{
		ID:           newID(),
		Amount:       create.Amount,
		FundID:       create.FundID,
		MemberID:     create.MemberID,
		OfferingType: create.OfferingType,
		OfferingDate: create.OfferingDate,
		Notes:        create.Notes,
		CreatedBy:    create.CreatedBy,
		CreatedAt:    t.now(),
	}
	t.tx.offerings[o.ID] = o
	return o.ID, nil
}

func (t offeringTable) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := t.tx.offerings[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.offerings, id)
	return nil
}
