package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/peoplekit/absence-backend-go/internal/config"
	"github.com/peoplekit/absence-backend-go/internal/domain/notification"
	"github.com/peoplekit/absence-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	created  []*notification.Notification
	disabled map[notification.NotificationType]bool
	prefs    []*notification.NotificationPreference

	lastPage     int
	lastPageSize int
	markedIDs    []string
	markedAll    bool
	upserted     *notification.NotificationPreference
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{disabled: make(map[notification.NotificationType]bool)}
}

func (f *fakeRepo) Create(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeRepo) CreateBatch(_ context.Context, notifications []*notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, notifications...)
	return nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, userID string, page, pageSize int, _ bool) ([]*notification.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPage = page
	f.lastPageSize = pageSize

	var out []*notification.Notification
	for _, n := range f.created {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) GetUnreadCount(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.created {
		if n.RecipientID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkAsRead(_ context.Context, ids []string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedIDs = append(f.markedIDs, ids...)
	return nil
}

func (f *fakeRepo) MarkAllAsRead(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedAll = true
	return nil
}

func (f *fakeRepo) GetPreferences(_ context.Context, _ string) ([]*notification.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs, nil
}

func (f *fakeRepo) UpsertPreference(_ context.Context, pref *notification.NotificationPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = pref
	return nil
}

func (f *fakeRepo) IsNotificationEnabled(_ context.Context, _ string, notifType notification.NotificationType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.disabled[notifType], nil
}

func (f *fakeRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func newTestService(repo *fakeRepo) (notification.Service, *sse.Hub) {
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, config.NotificationConfig{
		BatchSize:     1,
		FlushInterval: 20 * time.Millisecond,
		WorkerCount:   1,
		QueueSize:     10,
	})
	return svc, hub
}

func TestQueueNotification_DeliveredToSubscriber(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, cleanup := svc.Subscribe(ctx, "user-1")
	defer cleanup()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "user-1",
		Type:        notification.TypeAbsenceApproved,
		Title:       "Absence request approved",
		Message:     "Your absence was approved",
	})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, "notification", event.Event)
		assert.Equal(t, notification.TypeAbsenceApproved, event.Data.Type)
		assert.Equal(t, "Absence request approved", event.Data.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SSE event")
	}

	assert.Equal(t, 1, repo.createdCount())
}

func TestQueueNotification_DisabledTypeDropped(t *testing.T) {
	repo := newFakeRepo()
	repo.disabled[notification.TypeAbsenceSubmitted] = true
	svc, _ := newTestService(repo)

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "user-1",
		Type:        notification.TypeAbsenceSubmitted,
		Title:       "New absence request",
	})
	require.NoError(t, err)

	svc.Stop()
	assert.Equal(t, 0, repo.createdCount())
}

func TestQueueBulkNotification(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	err := svc.QueueBulkNotification(context.Background(), []notification.CreateNotificationRequest{
		{RecipientID: "user-1", Type: notification.TypeAbsenceSubmitted, Title: "a"},
		{RecipientID: "user-2", Type: notification.TypeAbsenceSubmitted, Title: "b"},
	})
	require.NoError(t, err)

	svc.Stop()
	assert.Equal(t, 2, repo.createdCount())
}

func TestGetNotifications_ClampsPagination(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	defer svc.Stop()

	result, err := svc.GetNotifications(context.Background(), "user-1", 0, 500, false)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lastPage)
	assert.Equal(t, 20, repo.lastPageSize)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
}

func TestGetPreferences_DefaultsToEnabled(t *testing.T) {
	repo := newFakeRepo()
	repo.prefs = []*notification.NotificationPreference{
		{NotificationType: notification.TypeAbsenceApproved, PushEnabled: false},
	}
	svc, _ := newTestService(repo)
	defer svc.Stop()

	prefs, err := svc.GetPreferences(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, prefs, len(notification.AllNotificationTypes()))

	for _, p := range prefs {
		if p.NotificationType == notification.TypeAbsenceApproved {
			assert.False(t, p.PushEnabled)
		} else {
			assert.True(t, p.PushEnabled, "type %s should default to enabled", p.NotificationType)
		}
	}
}

func TestUpdatePreference(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	defer svc.Stop()

	err := svc.UpdatePreference(context.Background(), "user-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeReturnToWork,
		PushEnabled:      false,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.upserted)
	assert.Equal(t, "user-1", repo.upserted.UserID)
	assert.Equal(t, notification.TypeReturnToWork, repo.upserted.NotificationType)
	assert.False(t, repo.upserted.PushEnabled)
}

func TestMarkAsRead(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	defer svc.Stop()

	err := svc.MarkAsRead(context.Background(), "user-1", notification.MarkAsReadRequest{
		NotificationIDs: []string{"n-1", "n-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"n-1", "n-2"}, repo.markedIDs)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), "user-1"))
	assert.True(t, repo.markedAll)
}
