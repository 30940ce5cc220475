package memory

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/member"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type memberTable struct{ view }

func (t memberTable) FindByID(_ context.Context, id uuid.UUID) (*member.Member, error) {
	var out *member.Member
	t.read(func(s *state) {
		if m, ok := s.members[id]; ok {
			out = &m
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func matchesQuery(m member.Member, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(m.FirstName), q) || strings.Contains(strings.ToLower(m.LastName), q) {
		return true
	}
	return m.Email != nil && strings.Contains(strings.ToLower(*m.Email), q)
}

func (t memberTable) List(_ context.Context, filter *member.MemberFilter) (*member.MemberListResult, error) {
	if filter == nil {
		filter = &member.MemberFilter{}
	}
	var rows []*member.Member
	t.read(func(s *state) {
		for _, m := range s.members {
			if filter.Query != "" && !matchesQuery(m, filter.Query) {
				continue
			}
			if filter.Status != "" && m.Status != filter.Status {
				continue
			}
			rows = append(rows, ptr(m))
		}
	})
	sortBy(rows, func(a, b *member.Member) bool {
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return idLess(a.ID, b.ID)
	})
	rows, next := paginate(rows, filter.Limit, filter.Offset)
	return &member.MemberListResult{Members: rows, NextCursor: next}, nil
}

func (t memberTable) Insert(_ context.Context, create *member.MemberCreate) (uuid.UUID, error) {
	now := t.now()
	status := create.Status
	if status == "" {
		status = member.StatusActive
	}
	m := member.Member{
		ID:             newID(),
		FirstName:      create.FirstName,
		LastName:       create.LastName,
		Email:          create.Email,
		Phone:          create.Phone,
		Address:        create.Address,
		Status:         status,
		MembershipDate: create.MembershipDate,
		Notes:          create.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	t.tx.members[m.ID] = m
	return m.ID, nil
}

func (t memberTable) Update(_ context.Context, id uuid.UUID, update *member.MemberUpdate) error {
	m, ok := t.tx.members[id]
	if !ok {
		return sqlconfig.ErrNotFound
	}
	if v, ok := update.FirstName.Get(); ok {
		m.FirstName = v
	}
	if v, ok := update.LastName.Get(); ok {
		m.LastName = v
	}
	if v, ok := update.Email.Get(); ok {
		m.Email = v
	}
	if v, ok := update.Phone.Get(); ok {
		m.Phone = v
	}
	if v, ok := update.Address.Get(); ok {
		m.Address = v
	}
	if v, ok := update.Status.Get(); ok {
		m.Status = v
	}
	if v, ok := update.MembershipDate.Get(); ok {
		m.MembershipDate = v
	}
	if v, ok := update.Notes.Get(); ok {
		m.Notes = v
	}
	m.UpdatedAt = t.now()
	t.tx.members[id] = m
	return nil
}

// Delete detaches the member's offerings.
func (t memberTable) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := t.tx.members[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(t.tx.members, id)
	for oID, o := range t.tx.offerings {
		if o.MemberID != nil && *o.MemberID == id {
			o.MemberID = nil
			t.tx.offerings[oID] = o
		}
	}
	return nil
}
