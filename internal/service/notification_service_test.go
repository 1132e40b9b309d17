package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

type fakeNotificationStore struct {
	notifications []*models.Notification
	createErr     error
}

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	notification.ID = fmt.Sprintf("notif-%d", len(f.notifications)+1)
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationStore) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	var out []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeNotificationStore) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification not found")
}

func (f *fakeNotificationStore) DeleteNotification(ctx context.Context, notificationID, userID string) error {
	for i, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notification not found")
}

func TestHandleDemoRequestedCreatesAdminNotification(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, "admin")
	ctx := context.Background()

	body, _ := json.Marshal(DemoRequestedEvent{
		RequestID:   "demo-1",
		RequestType: "demo_request",
		Name:        "Jatin",
		Email:       "jatin@example.com",
		School:      "Sunrise Public School",
	})
	if err := svc.HandleDemoRequested(ctx, body); err != nil {
		t.Fatalf("HandleDemoRequested: %v", err)
	}

	if len(store.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.notifications))
	}
	n := store.notifications[0]
	if n.UserID != "admin" || n.Type != "demo_requested" {
		t.Errorf("notification = %+v, want demo_requested for admin", n)
	}
	if !strings.Contains(n.Content, "Sunrise Public School") {
		t.Errorf("content %q should mention the school", n.Content)
	}
}

func TestHandleDemoRequestedRejectsBadPayload(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationStore{}, "admin")

	err := svc.HandleDemoRequested(context.Background(), []byte("not json"))
	if !errors.Is(err, ErrMalformedEvent) {
		t.Errorf("malformed payload: got %v, want ErrMalformedEvent so the consumer drops it", err)
	}
}

func TestHandleSessionCompletedRejectsBadPayload(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationStore{}, "admin")

	err := svc.HandleSessionCompleted(context.Background(), []byte("{broken"))
	if !errors.Is(err, ErrMalformedEvent) {
		t.Errorf("malformed payload: got %v, want ErrMalformedEvent so the consumer drops it", err)
	}
}

func TestHandleDemoRequestedStoreFailureIsRetryable(t *testing.T) {
	store := &fakeNotificationStore{createErr: fmt.Errorf("connection refused")}
	svc := NewNotificationService(store, "admin")

	body, _ := json.Marshal(DemoRequestedEvent{RequestID: "demo-1", Name: "Jatin"})
	err := svc.HandleDemoRequested(context.Background(), body)
	if err == nil {
		t.Fatal("store failure should surface an error")
	}
	if errors.Is(err, ErrMalformedEvent) {
		t.Errorf("store failure %v must not be ErrMalformedEvent, the consumer should requeue it", err)
	}
}

func TestHandleSessionCompletedStoreFailureIsRetryable(t *testing.T) {
	store := &fakeNotificationStore{createErr: fmt.Errorf("connection refused")}
	svc := NewNotificationService(store, "admin")

	body := []byte(`{"session_code":"ABC123","game_type":"cyber_city","player_count":3}`)
	err := svc.HandleSessionCompleted(context.Background(), body)
	if err == nil {
		t.Fatal("store failure should surface an error")
	}
	if errors.Is(err, ErrMalformedEvent) {
		t.Errorf("store failure %v must not be ErrMalformedEvent, the consumer should requeue it", err)
	}
}

func TestHandleSessionCompletedTargetsFacilitator(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, "admin")
	ctx := context.Background()

	body := []byte(`{"session_code":"ABC123","game_type":"cyber_city","facilitator_id":"teacher-1","player_count":12}`)
	if err := svc.HandleSessionCompleted(ctx, body); err != nil {
		t.Fatalf("HandleSessionCompleted: %v", err)
	}

	if store.notifications[0].UserID != "teacher-1" {
		t.Errorf("user = %s, want teacher-1", store.notifications[0].UserID)
	}

	// Without a facilitator, the admin account gets the notification.
	body = []byte(`{"session_code":"XYZ789","game_type":"climate","player_count":5}`)
	if err := svc.HandleSessionCompleted(ctx, body); err != nil {
		t.Fatalf("HandleSessionCompleted: %v", err)
	}
	if store.notifications[1].UserID != "admin" {
		t.Errorf("user = %s, want admin fallback", store.notifications[1].UserID)
	}
}

func TestMarkAsReadScopedToUser(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, "admin")
	ctx := context.Background()

	if err := store.CreateNotification(ctx, &models.Notification{UserID: "teacher-1", Type: "session_completed"}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	if err := svc.MarkAsRead(ctx, "notif-1", "someone-else"); err == nil {
		t.Error("marking another user's notification should fail")
	}
	if err := svc.MarkAsRead(ctx, "notif-1", "teacher-1"); err != nil {
		t.Errorf("MarkAsRead by owner: %v", err)
	}
}
