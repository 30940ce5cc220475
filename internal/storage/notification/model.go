package notification

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "notifications"

var columns = []any{"id", "user_id", "kind", "title", "message", "reference_id", "is_read", "created_at"}

type Notification struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	Kind        string     `db:"kind"`
	Title       string     `db:"title"`
	Message     string     `db:"message"`
	ReferenceID *uuid.UUID `db:"reference_id"`
	IsRead      bool       `db:"is_read"`
	CreatedAt   time.Time  `db:"created_at"`
}

type NotificationCreate struct {
	UserID      uuid.UUID
	Kind        string
	Title       string
	Message     string
	ReferenceID *uuid.UUID
}

type NotificationFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationListResult struct {
	Notifications []*Notification
	NextCursor    *sqlconfig.Cursor
}
