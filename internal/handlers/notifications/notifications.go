package notifications

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/handlers/apiutil"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/storage/notification"
)

type Notification struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	ReferenceID *string `json:"reference_id"`
	IsRead      bool    `json:"is_read"`
	CreatedAt   string  `json:"created_at"`
}

func toNotification(n *notification.Notification) Notification {
	return Notification{
		ID:          n.ID.String(),
		Kind:        n.Kind,
		Title:       n.Title,
		Message:     n.Message,
		ReferenceID: apiutil.IDPtrString(n.ReferenceID),
		IsRead:      n.IsRead,
		CreatedAt:   apiutil.FormatTime(n.CreatedAt),
	}
}

type notificationService interface {
	List(ctx context.Context, filter notification.NotificationFilter) (*notification.NotificationListResult, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type Handler struct {
	Notifications notificationService
	Logger        logrus.FieldLogger
}

func NewHandler(svc notificationService, logger logrus.FieldLogger) *Handler {
	return &Handler{Notifications: svc, Logger: logger}
}

type ListNotificationsInput struct {
	apiutil.PageQuery
	UnreadOnly bool `query:"unread_only" doc:"Only unread notifications"`
}

type ListNotificationsOutput struct {
	Body struct {
		Notifications []Notification  `json:"notifications"`
		NextCursor    *apiutil.Cursor `json:"nextCursor,omitempty"`
	}
}

type MarkReadBody struct {
	IDs []string `json:"ids,omitempty" doc:"Notifications to mark read"`
	All bool     `json:"all,omitempty" doc:"Mark every notification of the caller read"`
}

type MarkReadInput struct {
	Body MarkReadBody
}

type MarkReadOutput struct {
	Body struct {
		Updated int64 `json:"updated"`
	}
}

// Register registers the notification operations. Both act on the caller's
// own notifications only.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/api/notifications",
		Summary:     "List my notifications",
		Tags:        []string{"Notifications"},
		Security:    auth.RequireSession,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "mark-notifications-read",
		Method:      http.MethodPut,
		Path:        "/api/notifications",
		Summary:     "Mark notifications read",
		Tags:        []string{"Notifications"},
		Security:    auth.RequireSession,
	}, h.markRead)
}

func (h *Handler) list(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	result, err := h.Notifications.List(ctx, notification.NotificationFilter{
		UserID:     user.ID,
		UnreadOnly: input.UnreadOnly,
		Limit:      input.Limit,
		Offset:     input.Position,
	})
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "list-notifications", err, "Failed to fetch notifications")
	}

	out := &ListNotificationsOutput{}
	out.Body.Notifications = make([]Notification, len(result.Notifications))
	for i, n := range result.Notifications {
		out.Body.Notifications[i] = toNotification(n)
	}
	if result.NextCursor != nil {
		out.Body.NextCursor = &apiutil.Cursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return out, nil
}

func (h *Handler) markRead(ctx context.Context, input *MarkReadInput) (*MarkReadOutput, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	b := input.Body
	if !b.All && len(b.IDs) == 0 {
		return nil, huma.Error400BadRequest("Provide ids or set all")
	}

	var ids []uuid.UUID
	if !b.All {
		ids = make([]uuid.UUID, 0, len(b.IDs))
		for _, s := range b.IDs {
			id, err := apiutil.ParseID("ids", s)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	logging.AddData(ctx, "markAll", b.All)

	updated, err := h.Notifications.MarkRead(ctx, user.ID, ids)
	if err != nil {
		return nil, apiutil.Fail(h.Logger, "mark-notifications-read", err, "Failed to update notifications")
	}
	out := &MarkReadOutput{}
	out.Body.Updated = updated
	return out, nil
}
