package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/notification"
	"github.com/carson-networks/church-finance/internal/storage/profile"
)

type NotificationService struct {
	*deps
}

func (s *NotificationService) List(ctx context.Context, filter notification.NotificationFilter) (*notification.NotificationListResult, error) {
	return retryRead(ctx, s.deps, func() (*notification.NotificationListResult, error) {
		return s.reader.Notifications.List(ctx, &filter)
	})
}

// MarkRead marks the listed notifications of userID as read, or all of them
// when ids is empty. It returns how many changed.
func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var changed int64
	err := s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		var err error
		changed, err = w.Notifications.MarkRead(ctx, userID, ids)
		return err
	}))
	return changed, err
}

// Deliver fans an event out to every admin profile as one notification each.
func (s *NotificationService) Deliver(ctx context.Context, e *events.Event) (int, error) {
	admins, err := retryRead(ctx, s.deps, func() ([]*profile.Profile, error) {
		return s.reader.Profiles.ListByRole(ctx, profile.RoleAdmin)
	})
	if err != nil {
		return 0, err
	}
	if len(admins) == 0 {
		return 0, nil
	}

	creates := make([]*notification.NotificationCreate, 0, len(admins))
	ref := e.ReferenceID
	for _, p := range admins {
		creates = append(creates, &notification.NotificationCreate{
			UserID:      p.ID,
			Kind:        e.Kind,
			Title:       e.Title,
			Message:     e.Message,
			ReferenceID: &ref,
		})
	}
	err = s.processor.Process(ctx, actions.Func(func(ctx context.Context, w *storage.Writer) error {
		return w.Notifications.InsertMany(ctx, creates)
	}))
	if err != nil {
		return 0, err
	}
	return len(creates), nil
}
