package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/observability/metrics"
	"github.com/yourorg/taskboard/internal/security"
)

// BoardService implements board CRUD scoped to the calling user.
type BoardService struct {
	boards    domain.BoardRepository
	ownership *security.OwnershipService
	cache     Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// NewBoardService creates a new board service
func NewBoardService(
	boards domain.BoardRepository,
	ownership *security.OwnershipService,
	cache Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *BoardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &BoardService{
		boards:    boards,
		ownership: ownership,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func boardsCacheKey(userID int64) string {
	return fmt.Sprintf("boards:%d", userID)
}

// List returns the caller's boards, newest first. Responses are cached per
// user for a short TTL and invalidated on any board mutation.
func (s *BoardService) List(ctx context.Context, callerID int64) ([]*domain.Board, error) {
	key := boardsCacheKey(callerID)
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var boards []*domain.Board
			if err := json.Unmarshal([]byte(payload), &boards); err == nil {
				return boards, nil
			}
			// A corrupt entry is dropped, not served.
			_ = s.cache.Delete(ctx, key)
		}
	}

	boards, err := s.boards.ListByOwner(ctx, callerID)
	if err != nil {
		metrics.ObserveEntityOp("board", "list", "error")
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(boards); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
				s.logger.Debug("board cache set failed", slog.String("error", err.Error()))
			}
		}
	}

	metrics.ObserveEntityOp("board", "list", "ok")
	return boards, nil
}

// Get returns a single board owned by the caller
func (s *BoardService) Get(ctx context.Context, id, callerID int64) (*domain.Board, error) {
	return s.ownership.AuthorizeBoard(ctx, id, callerID)
}

// Create creates a board owned by the caller
func (s *BoardService) Create(ctx context.Context, callerID int64, title string) (*domain.Board, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	board := &domain.Board{Title: title, UserID: callerID}
	if err := s.boards.Create(ctx, board); err != nil {
		metrics.ObserveEntityOp("board", "create", "error")
		return nil, err
	}

	s.invalidate(ctx, callerID)
	metrics.ObserveEntityOp("board", "create", "ok")
	return board, nil
}

// Update renames a board owned by the caller
func (s *BoardService) Update(ctx context.Context, id, callerID int64, title string) (*domain.Board, error) {
	board, err := s.ownership.AuthorizeBoard(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	board.Title = title
	if err := s.boards.Update(ctx, board); err != nil {
		metrics.ObserveEntityOp("board", "update", "error")
		return nil, err
	}

	s.invalidate(ctx, callerID)
	metrics.ObserveEntityOp("board", "update", "ok")
	return board, nil
}

// Delete removes a board owned by the caller; dependent rows cascade.
func (s *BoardService) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := s.ownership.AuthorizeBoard(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.boards.Delete(ctx, id); err != nil {
		metrics.ObserveEntityOp("board", "delete", "error")
		return err
	}

	s.invalidate(ctx, callerID)
	metrics.ObserveEntityOp("board", "delete", "ok")
	return nil
}

func (s *BoardService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, boardsCacheKey(userID)); err != nil {
		s.logger.Debug("board cache invalidation failed", slog.String("error", err.Error()))
	}
}
