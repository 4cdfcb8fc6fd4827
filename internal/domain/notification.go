package domain

import (
	"context"
	"time"
)

// Notification types generated by the due-date worker.
const NotificationDueSoon = "due_soon"

// Notification links a user to a card event.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CardID    int64     `json:"cardId"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationRepository defines data access for notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	Exists(ctx context.Context, userID, cardID int64, notifType string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
