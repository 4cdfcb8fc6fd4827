package service

import (
	"context"
	"log/slog"

	"github.com/yourorg/taskboard/internal/domain"
)

// NotificationService exposes the caller's notification feed.
type NotificationService struct {
	notifications domain.NotificationRepository
	logger        *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifications domain.NotificationRepository,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{
		notifications: notifications,
		logger:        logger,
	}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, callerID int64) ([]*domain.Notification, error) {
	return s.notifications.ListByUser(ctx, callerID)
}

// MarkRead marks one of the caller's notifications as read. Notifications
// belonging to other users come back as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, callerID int64) error {
	return s.notifications.MarkRead(ctx, id, callerID)
}
