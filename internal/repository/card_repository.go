package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/yourorg/taskboard/internal/domain"
)

// PostgresCardRepository implements domain.CardRepository using PostgreSQL
type PostgresCardRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCardRepository creates a new card repository
func NewPostgresCardRepository(db *sql.DB, logger *slog.Logger) *PostgresCardRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new card at the position already set on it
func (r *PostgresCardRepository) Create(ctx context.Context, card *domain.Card) error {
	query := `
		INSERT INTO cards (title, description, list_id, position, due_date, priority)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		card.Title,
		card.Description,
		card.ListID,
		card.Position,
		card.DueDate,
		string(card.Priority),
	).Scan(&card.ID, &card.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create card",
			slog.Int64("list_id", card.ListID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

// GetByID retrieves a card by ID (without assignments)
func (r *PostgresCardRepository) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	query := `
		SELECT id, title, description, list_id, position, due_date, priority, created_at
		FROM cards
		WHERE id = $1
	`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

// ListByList lists a list's cards ordered by position, aggregating the
// display names of assigned users per card.
func (r *PostgresCardRepository) ListByList(ctx context.Context, listID int64) ([]*domain.Card, error) {
	query := `
		SELECT c.id, c.title, c.description, c.list_id, c.position, c.due_date, c.priority, c.created_at,
		       array_remove(array_agg(u.name ORDER BY u.name), NULL)
		FROM cards c
		LEFT JOIN card_assignments ca ON ca.card_id = c.id
		LEFT JOIN users u ON u.id = ca.user_id
		WHERE c.list_id = $1
		GROUP BY c.id
		ORDER BY c.position, c.id
	`

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card := &domain.Card{}
		var dueDate sql.NullTime
		var priority sql.NullString
		var assigned pq.StringArray
		err := rows.Scan(
			&card.ID,
			&card.Title,
			&card.Description,
			&card.ListID,
			&card.Position,
			&dueDate,
			&priority,
			&card.CreatedAt,
			&assigned,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if dueDate.Valid {
			t := dueDate.Time
			card.DueDate = &t
		}
		card.Priority = domain.Priority(priority.String)
		card.AssignedUsers = assigned
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// CountByList counts cards within a list
func (r *PostgresCardRepository) CountByList(ctx context.Context, listID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cards WHERE list_id = $1`, listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// Update replaces a card's content fields. Position and parent list are
// changed only through ReorderPositions and MoveToList.
func (r *PostgresCardRepository) Update(ctx context.Context, card *domain.Card) error {
	query := `
		UPDATE cards
		SET title = $1, description = $2, due_date = $3, priority = NULLIF($4, '')
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		card.Title,
		card.Description,
		card.DueDate,
		string(card.Priority),
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
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

// MoveToList reparents a card and compacts the vacated source positions in
// the same transaction.
func (r *PostgresCardRepository) MoveToList(ctx context.Context, cardID, listID int64, position int, sourceShifts []domain.PositionUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin move: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE cards SET list_id = $1, position = $2 WHERE id = $3`,
		listID, position, cardID,
	); err != nil {
		return fmt.Errorf("failed to move card %d: %w", cardID, err)
	}

	for _, u := range sourceShifts {
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET position = $1 WHERE id = $2`, u.Position, u.ID); err != nil {
			return fmt.Errorf("failed to reposition card %d: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// ReorderPositions applies a reordering plan, one row at a time, inside a
// single transaction scoped to the affected sibling set.
func (r *PostgresCardRepository) ReorderPositions(ctx context.Context, updates []domain.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET position = $1 WHERE id = $2`, u.Position, u.ID); err != nil {
			return fmt.Errorf("failed to reposition card %d: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes a card; its assignments and notifications cascade
func (r *PostgresCardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
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

// Assign links a user to a card. Re-assigning is a no-op, not an error.
func (r *PostgresCardRepository) Assign(ctx context.Context, cardID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO card_assignments (card_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		cardID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to assign user: %w", err)
	}
	return nil
}

// Unassign removes the link if present; absent is not an error.
func (r *PostgresCardRepository) Unassign(ctx context.Context, cardID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM card_assignments WHERE card_id = $1 AND user_id = $2`,
		cardID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to unassign user: %w", err)
	}
	return nil
}

// ListDueBetween returns cards whose due date falls inside [from, to)
func (r *PostgresCardRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Card, error) {
	query := `
		SELECT id, title, description, list_id, position, due_date, priority, created_at
		FROM cards
		WHERE due_date >= $1 AND due_date < $2
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// AssignedUserIDs returns the ids of users assigned to a card
func (r *PostgresCardRepository) AssignedUserIDs(ctx context.Context, cardID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM card_assignments WHERE card_id = $1 ORDER BY user_id`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	card := &domain.Card{}
	var dueDate sql.NullTime
	var priority sql.NullString
	err := row.Scan(
		&card.ID,
		&card.Title,
		&card.Description,
		&card.ListID,
		&card.Position,
		&dueDate,
		&priority,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		card.DueDate = &t
	}
	card.Priority = domain.Priority(priority.String)
	return card, nil
}
