package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/storage/notification"
)

type mockNotificationService struct {
	mock.Mock
}

func (m *mockNotificationService) List(ctx context.Context, filter notification.NotificationFilter) (*notification.NotificationListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*notification.NotificationListResult)
	return r, args.Error(1)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

// newTestAPI injects user into every request the way auth.Middleware does.
func newTestAPI(t *testing.T, svc notificationService, user *auth.User) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	if user != nil {
		api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
			next(huma.WithContext(ctx, auth.WithUser(ctx.Context(), user)))
		})
	}
	NewHandler(svc, logrus.New()).Register(api)
	return api
}

func TestHTTP_List_ScopedToCaller(t *testing.T) {
	user := &auth.User{ID: uuid.Must(uuid.NewV4()), Role: "admin"}
	n := &notification.Notification{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    user.ID,
		Kind:      "bill.paid",
		Title:     "Bill paid",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	mockSvc := new(mockNotificationService)
	mockSvc.On("List", mock.Anything, notification.NotificationFilter{UserID: user.ID, UnreadOnly: true}).
		Return(&notification.NotificationListResult{Notifications: []*notification.Notification{n}}, nil)

	resp := newTestAPI(t, mockSvc, user).Get("/api/notifications?unread_only=true")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListNotificationsOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Notifications, 1)
	assert.Equal(t, "bill.paid", body.Body.Notifications[0].Kind)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_List_NoUser(t *testing.T) {
	resp := newTestAPI(t, new(mockNotificationService), nil).Get("/api/notifications")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_MarkRead_IDs(t *testing.T) {
	user := &auth.User{ID: uuid.Must(uuid.NewV4())}
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockNotificationService)
	mockSvc.On("MarkRead", mock.Anything, user.ID, []uuid.UUID{id}).Return(int64(1), nil)

	resp := newTestAPI(t, mockSvc, user).Put("/api/notifications", map[string]any{"ids": []string{id.String()}})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body MarkReadOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Equal(t, int64(1), body.Body.Updated)
}

func TestHTTP_MarkRead_All(t *testing.T) {
	user := &auth.User{ID: uuid.Must(uuid.NewV4())}
	mockSvc := new(mockNotificationService)
	mockSvc.On("MarkRead", mock.Anything, user.ID, []uuid.UUID(nil)).Return(int64(4), nil)

	resp := newTestAPI(t, mockSvc, user).Put("/api/notifications", map[string]any{"all": true})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_MarkRead_NothingSelected(t *testing.T) {
	user := &auth.User{ID: uuid.Must(uuid.NewV4())}

	resp := newTestAPI(t, new(mockNotificationService), user).Put("/api/notifications", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
