package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jatinbhagat/decipherworld-backend/internal/models"
)

// ErrMalformedEvent marks payloads that can never be processed, no matter how
// often the broker redelivers them.
var ErrMalformedEvent = errors.New("malformed event payload")

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotifications(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
	DeleteNotification(ctx context.Context, notificationID, userID string) error
}

type NotificationService struct {
	notifications NotificationStore
	adminUserID   string
}

func NewNotificationService(notifications NotificationStore, adminUserID string) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		adminUserID:   adminUserID,
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notifications.GetNotifications(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	return s.notifications.MarkAsRead(ctx, notificationID, userID)
}

func (s *NotificationService) DeleteNotification(ctx context.Context, notificationID, userID string) error {
	return s.notifications.DeleteNotification(ctx, notificationID, userID)
}

// HandleDemoRequested consumes demo.requested events and stores an admin
// notification for followup.
func (s *NotificationService) HandleDemoRequested(ctx context.Context, body []byte) error {
	var event DemoRequestedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: demo requested event: %v", ErrMalformedEvent, err)
	}

	notification := &models.Notification{
		UserID:  s.adminUserID,
		Type:    "demo_requested",
		Title:   "New demo request",
		Content: fmt.Sprintf("%s (%s) from %s requested a demo", event.Name, event.Email, event.School),
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// HandleSessionCompleted consumes session.completed events and records a
// summary notification for the facilitator.
func (s *NotificationService) HandleSessionCompleted(ctx context.Context, body []byte) error {
	var event struct {
		SessionCode   string `json:"session_code"`
		GameType      string `json:"game_type"`
		FacilitatorID string `json:"facilitator_id"`
		PlayerCount   int    `json:"player_count"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: session completed event: %v", ErrMalformedEvent, err)
	}

	userID := event.FacilitatorID
	if userID == "" {
		userID = s.adminUserID
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    "session_completed",
		Title:   "Game session completed",
		Content: fmt.Sprintf("Session %s (%s) finished with %d players", event.SessionCode, event.GameType, event.PlayerCount),
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
