package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/taskboard/internal/domain"
)

// PostgresListRepository implements domain.ListRepository using PostgreSQL
type PostgresListRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresListRepository creates a new list repository
func NewPostgresListRepository(db *sql.DB, logger *slog.Logger) *PostgresListRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresListRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new list at the position already set on it
func (r *PostgresListRepository) Create(ctx context.Context, list *domain.List) error {
	query := `
		INSERT INTO lists (title, board_id, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, list.Title, list.BoardID, list.Position).
		Scan(&list.ID, &list.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create list",
			slog.Int64("board_id", list.BoardID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create list: %w", err)
	}

	return nil
}

// GetByID retrieves a list by ID
func (r *PostgresListRepository) GetByID(ctx context.Context, id int64) (*domain.List, error) {
	list := &domain.List{}

	query := `
		SELECT id, title, board_id, position, created_at
		FROM lists
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID,
		&list.Title,
		&list.BoardID,
		&list.Position,
		&list.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	return list, nil
}

// ListByBoard lists a board's lists ordered by position
func (r *PostgresListRepository) ListByBoard(ctx context.Context, boardID int64) ([]*domain.List, error) {
	query := `
		SELECT id, title, board_id, position, created_at
		FROM lists
		WHERE board_id = $1
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		list := &domain.List{}
		if err := rows.Scan(&list.ID, &list.Title, &list.BoardID, &list.Position, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

// CountByBoard counts lists within a board
func (r *PostgresListRepository) CountByBoard(ctx context.Context, boardID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM lists WHERE board_id = $1`, boardID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return count, nil
}

// Update updates a list's title
func (r *PostgresListRepository) Update(ctx context.Context, list *domain.List) error {
	result, err := r.db.ExecContext(ctx, `UPDATE lists SET title = $1 WHERE id = $2`, list.Title, list.ID)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
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

// ReorderPositions applies a reordering plan, one row at a time, inside a
// single transaction scoped to the affected sibling set.
func (r *PostgresListRepository) ReorderPositions(ctx context.Context, updates []domain.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, `UPDATE lists SET position = $1 WHERE id = $2`, u.Position, u.ID); err != nil {
			return fmt.Errorf("failed to reposition list %d: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a list; its cards cascade
func (r *PostgresListRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
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
