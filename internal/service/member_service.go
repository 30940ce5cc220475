package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/member"
)

type MemberService struct {
	*deps
}

func (s *MemberService) List(ctx context.Context, filter member.MemberFilter) (*member.MemberListResult, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return retryRead(ctx, s.deps, func() (*member.MemberListResult, error) {
		return s.reader.Members.List(ctx, &filter)
	})
}

func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	m, err := retryRead(ctx, s.deps, func() (*member.Member, error) {
		return s.reader.Members.FindByID(ctx, id)
	})
	return m, actions.NotFound(err, "Member")
}

func (s *MemberService) Create(ctx context.Context, create member.MemberCreate) (*member.Member, error) {
	create.FirstName = strings.TrimSpace(create.FirstName)
	create.LastName = strings.TrimSpace(create.LastName)
	var missing []string
	if create.FirstName == "" {
		missing = append(missing, "first_name is required")
	}
	if create.LastName == "" {
		missing = append(missing, "last_name is required")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing required fields", missing...)
	}
	if create.Status != "" && !validStatus(create.Status) {
		return nil, apperr.Validationf("Invalid member status %q", create.Status)
	}

	var result *member.Member
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		id, err := w.Members.Insert(ctx, &create)
		if err != nil {
			return err
		}
		result, err = w.Members.FindByID(ctx, id)
		return err
	}))
	return result, err
}

func (s *MemberService) Update(ctx context.Context, id uuid.UUID, update member.MemberUpdate) (*member.Member, error) {
	if v, ok := update.FirstName.Get(); ok && strings.TrimSpace(v) == "" {
		return nil, apperr.Validation("First name cannot be empty")
	}
	if v, ok := update.LastName.Get(); ok && strings.TrimSpace(v) == "" {
		return nil, apperr.Validation("Last name cannot be empty")
	}
	if v, ok := update.Status.Get(); ok && !validStatus(v) {
		return nil, apperr.Validationf("Invalid member status %q", v)
	}

	var result *member.Member
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		if err := w.Members.Update(ctx, id, &update); err != nil {
			return actions.NotFound(err, "Member")
		}
		var err error
		result, err = w.Members.FindByID(ctx, id)
		return err
	}))
	return result, err
}

func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		return actions.NotFound(w.Members.Delete(ctx, id), "Member")
	}))
}

func validStatus(status string) bool {
	switch status {
	case member.StatusActive, member.StatusInactive, member.StatusVisitor:
		return true
	}
	return false
}
