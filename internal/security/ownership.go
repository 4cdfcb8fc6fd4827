package security

import (
	"context"
	"log/slog"

	"github.com/yourorg/taskboard/internal/domain"
)

// OwnershipService resolves the ownership chain of an entity and compares it
// to the caller. A board is owned directly; a list through its board; a card
// through its list's board. Both "does not exist" and "owned by another user"
// come back as domain.ErrNotFound so the existence of foreign entities is
// never revealed.
type OwnershipService struct {
	boards domain.BoardRepository
	lists  domain.ListRepository
	cards  domain.CardRepository
	logger *slog.Logger
}

// NewOwnershipService creates a new ownership service
func NewOwnershipService(
	boards domain.BoardRepository,
	lists domain.ListRepository,
	cards domain.CardRepository,
	logger *slog.Logger,
) *OwnershipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnershipService{
		boards: boards,
		lists:  lists,
		cards:  cards,
		logger: logger,
	}
}

// AuthorizeBoard returns the board when callerID owns it.
func (s *OwnershipService) AuthorizeBoard(ctx context.Context, boardID, callerID int64) (*domain.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.UserID != callerID {
		s.logger.Warn("board access denied",
			slog.Int64("board_id", boardID),
			slog.Int64("caller_id", callerID),
		)
		return nil, domain.ErrNotFound
	}
	return board, nil
}

// AuthorizeList returns the list when callerID owns its board.
func (s *OwnershipService) AuthorizeList(ctx context.Context, listID, callerID int64) (*domain.List, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeBoard(ctx, list.BoardID, callerID); err != nil {
		return nil, err
	}
	return list, nil
}

// AuthorizeCard returns the card when callerID owns its list's board.
func (s *OwnershipService) AuthorizeCard(ctx context.Context, cardID, callerID int64) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeList(ctx, card.ListID, callerID); err != nil {
		return nil, err
	}
	return card, nil
}
