package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/observability/metrics"
	"github.com/yourorg/taskboard/internal/security"
)

// CreateCardInput carries the content fields of a new card.
type CreateCardInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    domain.Priority
}

// UpdateCardInput carries the mutable fields of a card. Nil fields are left
// unchanged. ClearDueDate removes an existing due date. A ListID different
// from the card's current list triggers a cross-list move; Position moves the
// card among its siblings within a single list.
type UpdateCardInput struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *domain.Priority
	ListID       *int64
	Position     *int
}

// CardService implements card CRUD, ordering, cross-list moves and user
// assignment.
type CardService struct {
	cards     domain.CardRepository
	lists     domain.ListRepository
	users     domain.UserRepository
	ownership *security.OwnershipService
	logger    *slog.Logger
}

// NewCardService creates a new card service
func NewCardService(
	cards domain.CardRepository,
	lists domain.ListRepository,
	users domain.UserRepository,
	ownership *security.OwnershipService,
	logger *slog.Logger,
) *CardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CardService{
		cards:     cards,
		lists:     lists,
		users:     users,
		ownership: ownership,
		logger:    logger,
	}
}

// ListByList returns the list's cards ordered by position, with assigned user
// names attached.
func (s *CardService) ListByList(ctx context.Context, listID, callerID int64) ([]*domain.Card, error) {
	if _, err := s.ownership.AuthorizeList(ctx, listID, callerID); err != nil {
		return nil, err
	}
	return s.cards.ListByList(ctx, listID)
}

// Get returns a single card reachable from the caller's boards.
func (s *CardService) Get(ctx context.Context, id, callerID int64) (*domain.Card, error) {
	return s.ownership.AuthorizeCard(ctx, id, callerID)
}

// Create appends a card at the end of the list. A client-sent position is
// ignored; the new card always takes position == current sibling count.
func (s *CardService) Create(ctx context.Context, listID, callerID int64, input CreateCardInput) (*domain.Card, error) {
	if _, err := s.ownership.AuthorizeList(ctx, listID, callerID); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority must be low, medium or high", domain.ErrValidation)
	}

	count, err := s.cards.CountByList(ctx, listID)
	if err != nil {
		return nil, err
	}

	card := &domain.Card{
		Title:       input.Title,
		Description: input.Description,
		ListID:      listID,
		Position:    count,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		metrics.ObserveEntityOp("card", "create", "error")
		return nil, err
	}

	metrics.ObserveEntityOp("card", "create", "ok")
	return card, nil
}

// Update applies content changes, then a cross-list move or an in-list
// reposition. When the card changes list it is appended at the end of the
// destination and the source list is compacted in the same transaction; a
// requested position is honored only for moves within the current list.
func (s *CardService) Update(ctx context.Context, id, callerID int64, input UpdateCardInput) (*domain.Card, error) {
	card, err := s.ownership.AuthorizeCard(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if changed, err := s.applyContent(ctx, card, input); err != nil {
		metrics.ObserveEntityOp("card", "update", "error")
		return nil, err
	} else if changed {
		if err := s.cards.Update(ctx, card); err != nil {
			metrics.ObserveEntityOp("card", "update", "error")
			return nil, err
		}
	}

	switch {
	case input.ListID != nil && *input.ListID != card.ListID:
		if err := s.moveAcrossLists(ctx, card, *input.ListID, callerID); err != nil {
			metrics.ObserveEntityOp("card", "update", "error")
			return nil, err
		}
	case input.Position != nil:
		if err := s.reposition(ctx, card, *input.Position); err != nil {
			metrics.ObserveEntityOp("card", "update", "error")
			return nil, err
		}
	}

	metrics.ObserveEntityOp("card", "update", "ok")
	return card, nil
}

func (s *CardService) applyContent(ctx context.Context, card *domain.Card, input UpdateCardInput) (bool, error) {
	changed := false

	if input.Title != nil {
		if *input.Title == "" {
			return false, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
		}
		card.Title = *input.Title
		changed = true
	}
	if input.Description != nil {
		card.Description = *input.Description
		changed = true
	}
	if input.ClearDueDate {
		card.DueDate = nil
		changed = true
	} else if input.DueDate != nil {
		card.DueDate = input.DueDate
		changed = true
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return false, fmt.Errorf("%w: priority must be low, medium or high", domain.ErrValidation)
		}
		card.Priority = *input.Priority
		changed = true
	}

	return changed, nil
}

// moveAcrossLists authorizes the destination against the same caller, appends
// the card at the destination's end and closes the source position gap. Both
// sides of the move land in one transaction.
func (s *CardService) moveAcrossLists(ctx context.Context, card *domain.Card, destListID, callerID int64) error {
	if _, err := s.ownership.AuthorizeList(ctx, destListID, callerID); err != nil {
		return err
	}

	destCount, err := s.cards.CountByList(ctx, destListID)
	if err != nil {
		return err
	}

	siblings, err := s.cards.ListByList(ctx, card.ListID)
	if err != nil {
		return err
	}

	var ids []int64
	var positions []int
	for _, sib := range siblings {
		if sib.ID == card.ID {
			continue
		}
		ids = append(ids, sib.ID)
		positions = append(positions, sib.Position)
	}
	sourceShifts := compactPlan(ids, positions)

	if err := s.cards.MoveToList(ctx, card.ID, destListID, destCount, sourceShifts); err != nil {
		return err
	}

	metrics.ObserveReorder("card", len(sourceShifts)+1)
	s.logger.Info("card moved",
		slog.Int64("card_id", card.ID),
		slog.Int64("from_list_id", card.ListID),
		slog.Int64("to_list_id", destListID),
	)

	card.ListID = destListID
	card.Position = destCount
	return nil
}

func (s *CardService) reposition(ctx context.Context, card *domain.Card, target int) error {
	siblings, err := s.cards.ListByList(ctx, card.ListID)
	if err != nil {
		return err
	}

	ids := make([]int64, len(siblings))
	from := -1
	for i, sib := range siblings {
		ids[i] = sib.ID
		if sib.ID == card.ID {
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
	if err := s.cards.ReorderPositions(ctx, plan); err != nil {
		return err
	}

	metrics.ObserveReorder("card", len(plan))
	card.Position = plan[len(plan)-1].Position
	return nil
}

// Delete removes a card and closes the position gap among its former
// siblings.
func (s *CardService) Delete(ctx context.Context, id, callerID int64) error {
	card, err := s.ownership.AuthorizeCard(ctx, id, callerID)
	if err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("card", "delete", "error")
		return err
	}

	if err := s.compact(ctx, card.ListID); err != nil {
		s.logger.Error("card compaction after delete failed",
			slog.Int64("list_id", card.ListID),
			slog.String("error", err.Error()),
		)
		metrics.ObserveEntityOp("card", "delete", "error")
		return err
	}

	metrics.ObserveEntityOp("card", "delete", "ok")
	return nil
}

func (s *CardService) compact(ctx context.Context, listID int64) error {
	siblings, err := s.cards.ListByList(ctx, listID)
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
	if err := s.cards.ReorderPositions(ctx, plan); err != nil {
		return err
	}

	metrics.ObserveReorder("card", len(plan))
	return nil
}

// Assign links a user to a card. Assigning the same user twice is a no-op.
func (s *CardService) Assign(ctx context.Context, cardID, userID, callerID int64) error {
	if _, err := s.ownership.AuthorizeCard(ctx, cardID, callerID); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.cards.Assign(ctx, cardID, userID); err != nil {
		metrics.ObserveEntityOp("card", "assign", "error")
		return err
	}

	metrics.ObserveEntityOp("card", "assign", "ok")
	return nil
}

// Unassign removes a user from a card. Removing an absent assignment is a
// no-op.
func (s *CardService) Unassign(ctx context.Context, cardID, userID, callerID int64) error {
	if _, err := s.ownership.AuthorizeCard(ctx, cardID, callerID); err != nil {
		return err
	}

	if err := s.cards.Unassign(ctx, cardID, userID); err != nil {
		metrics.ObserveEntityOp("card", "unassign", "error")
		return err
	}

	metrics.ObserveEntityOp("card", "unassign", "ok")
	return nil
}
