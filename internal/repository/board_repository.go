package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/taskboard/internal/domain"
)

// PostgresBoardRepository implements domain.BoardRepository using PostgreSQL
type PostgresBoardRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBoardRepository creates a new board repository
func NewPostgresBoardRepository(db *sql.DB, logger *slog.Logger) *PostgresBoardRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBoardRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new board
func (r *PostgresBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	query := `
		INSERT INTO boards (title, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, board.Title, board.UserID).
		Scan(&board.ID, &board.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create board",
			slog.Int64("user_id", board.UserID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create board: %w", err)
	}

	return nil
}

// GetByID retrieves a board by ID
func (r *PostgresBoardRepository) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	board := &domain.Board{}

	query := `
		SELECT id, title, user_id, created_at
		FROM boards
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&board.ID,
		&board.Title,
		&board.UserID,
		&board.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	return board, nil
}

// ListByOwner lists a user's boards, newest first
func (r *PostgresBoardRepository) ListByOwner(ctx context.Context, userID int64) ([]*domain.Board, error) {
	query := `
		SELECT id, title, user_id, created_at
		FROM boards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list boards",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*domain.Board
	for rows.Next() {
		board := &domain.Board{}
		if err := rows.Scan(&board.ID, &board.Title, &board.UserID, &board.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, board)
	}

	return boards, rows.Err()
}

// Update updates a board's title
func (r *PostgresBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	query := `
		UPDATE boards
		SET title = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, board.Title, board.ID)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a board. Lists, cards, assignments and notifications under
// it go with it via ON DELETE CASCADE.
func (r *PostgresBoardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}
