package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/notification"
	"github.com/carson-networks/church-finance/internal/storage/profile"
	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

type notificationTable struct{ view }

func (t notificationTable) List(_ context.Context, filter *notification.NotificationFilter) (*notification.NotificationListResult, error) {
	var rows []*notification.Notification
	t.read(func(s *state) {
		for _, n := range s.notifications {
			if n.UserID != filter.UserID || (filter.UnreadOnly && n.IsRead) {
				continue
			}
			rows = append(rows, ptr(n))
		}
	})
	sortBy(rows, func(a, b *notification.Notification) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return idLess(b.ID, a.ID)
	})
	rows, next := paginate(rows, filter.Limit, filter.Offset)
	return &notification.NotificationListResult{Notifications: rows, NextCursor: next}, nil
}

func (t notificationTable) InsertMany(_ context.Context, creates []*notification.NotificationCreate) error {
	now := t.now()
	for _, c := range creates {
		n := notification.Notification{
			ID:          newID(),
			UserID:      c.UserID,
			Kind:        c.Kind,
			Title:       c.Title,
			Message:     c.Message,
			ReferenceID: c.ReferenceID,
			CreatedAt:   now,
		}
		t.tx.notifications[n.ID] = n
	}
	return nil
}

func (t notificationTable) MarkRead(_ context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var n int64
	for id, notif := range t.tx.notifications {
		if notif.UserID != userID || notif.IsRead {
			continue
		}
		if len(ids) > 0 && !wanted[id] {
			continue
		}
		notif.IsRead = true
		t.tx.notifications[id] = notif
		n++
	}
	return n, nil
}

type profileTable struct{ view }

func (t profileTable) FindByID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	var out *profile.Profile
	t.read(func(s *state) {
		if p, ok := s.profiles[id]; ok {
			out = &p
		}
	})
	if out == nil {
		return nil, sqlconfig.ErrNotFound
	}
	return out, nil
}

func (t profileTable) ListByRole(_ context.Context, role string) ([]*profile.Profile, error) {
	var rows []*profile.Profile
	t.read(func(s *state) {
		for _, p := range s.profiles {
			if p.Role == role {
				rows = append(rows, ptr(p))
			}
		}
	})
	sortBy(rows, func(a, b *profile.Profile) bool { return idLess(a.ID, b.ID) })
	return rows, nil
}
