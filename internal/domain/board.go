package domain

import (
	"context"
	"time"
)

// Board is a top-level task collection owned by exactly one user.
type Board struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// List is an ordered column within a board. Position is a dense 0-based rank
// among the lists of the same board.
type List struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	BoardID   int64     `json:"boardId"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// PositionUpdate is a single-row position write inside a reordering plan.
// Plans are applied in order, one row at a time, so that no intermediate
// state with duplicate positions is ever observable.
type PositionUpdate struct {
	ID       int64
	Position int
}

// BoardRepository defines data access for boards
type BoardRepository interface {
	Create(ctx context.Context, board *Board) error
	GetByID(ctx context.Context, id int64) (*Board, error)
	ListByOwner(ctx context.Context, userID int64) ([]*Board, error)
	Update(ctx context.Context, board *Board) error
	Delete(ctx context.Context, id int64) error
}

// ListRepository defines data access for lists
type ListRepository interface {
	Create(ctx context.Context, list *List) error
	GetByID(ctx context.Context, id int64) (*List, error)
	ListByBoard(ctx context.Context, boardID int64) ([]*List, error)
	CountByBoard(ctx context.Context, boardID int64) (int, error)
	Update(ctx context.Context, list *List) error
	ReorderPositions(ctx context.Context, updates []PositionUpdate) error
	Delete(ctx context.Context, id int64) error
}
