package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/observability/metrics"
	"github.com/yourorg/taskboard/internal/security"
)

// ListService implements list CRUD and ordering within a board.
type ListService struct {
	lists     domain.ListRepository
	ownership *security.OwnershipService
	logger    *slog.Logger
}

// NewListService creates a new list service
func NewListService(
	lists domain.ListRepository,
	ownership *security.OwnershipService,
	logger *slog.Logger,
) *ListService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ListService{
		lists:     lists,
		ownership: ownership,
		logger:    logger,
	}
}

// ListByBoard returns the board's lists ordered by position.
func (s *ListService) ListByBoard(ctx context.Context, boardID, callerID int64) ([]*domain.List, error) {
	if _, err := s.ownership.AuthorizeBoard(ctx, boardID, callerID); err != nil {
		return nil, err
	}
	return s.lists.ListByBoard(ctx, boardID)
}

// Create appends a list at the end of the board. A client-sent position is
// ignored; the new list always takes position == current sibling count.
func (s *ListService) Create(ctx context.Context, boardID, callerID int64, title string) (*domain.List, error) {
	if _, err := s.ownership.AuthorizeBoard(ctx, boardID, callerID); err != nil {
		return nil, err
	}

	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	count, err := s.lists.CountByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	list := &domain.List{Title: title, BoardID: boardID, Position: count}
	if err := s.lists.Create(ctx, list); err != nil {
		metrics.ObserveEntityOp("list", "create", "error")
		return nil, err
	}

	metrics.ObserveEntityOp("list", "create", "ok")
	return list, nil
}

// Update renames a list and/or moves it to a new position among its siblings.
// Nil fields are left unchanged.
func (s *ListService) Update(ctx context.Context, id, callerID int64, title *string, position *int) (*domain.List, error) {
	list, err := s.ownership.AuthorizeList(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if *title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		list.Title = *title
		if err := s.lists.Update(ctx, list); err != nil {
			metrics.ObserveEntityOp("list", "update", "error")
			return nil, err
		}
	}

	if position != nil {
		if err := s.reposition(ctx, list, *position); err != nil {
			metrics.ObserveEntityOp("list", "update", "error")
			return nil, err
		}
	}

	metrics.ObserveEntityOp("list", "update", "ok")
	return list, nil
}

func (s *ListService) reposition(ctx context.Context, list *domain.List, target int) error {
	siblings, err := s.lists.ListByBoard(ctx, list.BoardID)
	if err != nil {
		return err
	}

	ids := make([]int64, len(siblings))
	from := -1
	for i, sib := range siblings {
		ids[i] = sib.ID
		if sib.ID == list.ID {
			from = i
		}
	}
	if from == -1 {
		return domain.ErrNotFound
	}

	plan := movePlan(ids, from, target)
	if len(plan) == 0 {
		return nil
	}
	if err := s.lists.ReorderPositions(ctx, plan); err != nil {
		return err
	}

	metrics.ObserveReorder("list", len(plan))
	list.Position = plan[len(plan)-1].Position
	return nil
}

// Delete removes a list, its cards cascading, and closes the position gap
// left among the surviving siblings.
func (s *ListService) Delete(ctx context.Context, id, callerID int64) error {
	list, err := s.ownership.AuthorizeList(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.lists.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("list", "delete", "error")
		return err
	}

	if err := s.compact(ctx, list.BoardID); err != nil {
		s.logger.Error("list compaction after delete failed",
			slog.Int64("board_id", list.BoardID),
			slog.String("error", err.Error()),
		)
		metrics.ObserveEntityOp("list", "delete", "error")
		return err
	}

	metrics.ObserveEntityOp("list", "delete", "ok")
	return nil
}

func (s *ListService) compact(ctx context.Context, boardID int64) error {
	siblings, err := s.lists.ListByBoard(ctx, boardID)
	if err != nil {
		return err
	}

	ids := make([]int64, len(siblings))
	positions := make([]int, len(siblings))
	for i, sib := range siblings {
		ids[i] = sib.ID
		positions[i] = sib.Position
	}

	plan := compactPlan(ids, positions)
	if len(plan) == 0 {
		return nil
	}
	if err := s.lists.ReorderPositions(ctx, plan); err != nil {
		return err
	}

	metrics.ObserveReorder("list", len(plan))
	return nil
}
