package domain

import (
	"context"
	"time"
)

// Priority is the urgency tag of a card. The empty value means unset.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the allowed priority values or unset.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Card is a task within a list. Position is a dense 0-based rank among the
// cards of the same list. AssignedUsers carries the display names of assigned
// users when the card is read back through ListByList.
type Card struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ListID        int64      `json:"listId"`
	Position      int        `json:"position"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	AssignedUsers []string   `json:"assignedUsers,omitempty"`
}

// CardRepository defines data access for cards and their assignments
type CardRepository interface {
	Create(ctx context.Context, card *Card) error
	GetByID(ctx context.Context, id int64) (*Card, error)
	ListByList(ctx context.Context, listID int64) ([]*Card, error)
	CountByList(ctx context.Context, listID int64) (int, error)
	Update(ctx context.Context, card *Card) error
	// MoveToList reparents the card and applies the source-list compaction
	// shifts in the same transaction.
	MoveToList(ctx context.Context, cardID, listID int64, position int, sourceShifts []PositionUpdate) error
	ReorderPositions(ctx context.Context, updates []PositionUpdate) error
	Delete(ctx context.Context, id int64) error

	Assign(ctx context.Context, cardID, userID int64) error
	Unassign(ctx context.Context, cardID, userID int64) error
	// ListDueBetween returns cards whose due date falls inside [from, to).
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*Card, error)
	AssignedUserIDs(ctx context.Context, cardID int64) ([]int64, error)
}
