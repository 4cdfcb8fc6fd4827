package service

import (
	"context"
	"sort"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/security"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the Postgres implementations: missing rows come back as
// domain.ErrNotFound and sibling listings are ordered by position.

type memUserRepo struct {
	nextID int64
	byID   map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[int64]*domain.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memBoardRepo struct {
	nextID int64
	byID   map[int64]*domain.Board
}

func newMemBoardRepo() *memBoardRepo {
	return &memBoardRepo{byID: map[int64]*domain.Board{}}
}

func (m *memBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	copied := *b
	m.byID[b.ID] = &copied
	return nil
}

func (m *memBoardRepo) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	if b, ok := m.byID[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memBoardRepo) ListByOwner(ctx context.Context, userID int64) ([]*domain.Board, error) {
	var out []*domain.Board
	for _, b := range m.byID {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memBoardRepo) Update(ctx context.Context, b *domain.Board) error {
	if _, ok := m.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *b
	m.byID[b.ID] = &copied
	return nil
}

func (m *memBoardRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memListRepo struct {
	nextID int64
	byID   map[int64]*domain.List
}

func newMemListRepo() *memListRepo {
	return &memListRepo{byID: map[int64]*domain.List{}}
}

func (m *memListRepo) Create(ctx context.Context, l *domain.List) error {
	m.nextID++
	l.ID = m.nextID
	l.CreatedAt = time.Now()
	copied := *l
	m.byID[l.ID] = &copied
	return nil
}

func (m *memListRepo) GetByID(ctx context.Context, id int64) (*domain.List, error) {
	if l, ok := m.byID[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memListRepo) ListByBoard(ctx context.Context, boardID int64) ([]*domain.List, error) {
	var out []*domain.List
	for _, l := range m.byID {
		if l.BoardID == boardID {
			copied := *l
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memListRepo) CountByBoard(ctx context.Context, boardID int64) (int, error) {
	count := 0
	for _, l := range m.byID {
		if l.BoardID == boardID {
			count++
		}
	}
	return count, nil
}

func (m *memListRepo) Update(ctx context.Context, l *domain.List) error {
	stored, ok := m.byID[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Title = l.Title
	return nil
}

func (m *memListRepo) ReorderPositions(ctx context.Context, updates []domain.PositionUpdate) error {
	for _, u := range updates {
		stored, ok := m.byID[u.ID]
		if !ok {
			return domain.ErrNotFound
		}
		stored.Position = u.Position
	}
	return nil
}

func (m *memListRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memCardRepo struct {
	nextID      int64
	byID        map[int64]*domain.Card
	assignments map[int64]map[int64]bool
}

func newMemCardRepo() *memCardRepo {
	return &memCardRepo{
		byID:        map[int64]*domain.Card{},
		assignments: map[int64]map[int64]bool{},
	}
}

func (m *memCardRepo) Create(ctx context.Context, c *domain.Card) error {
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	copied := *c
	m.byID[c.ID] = &copied
	return nil
}

func (m *memCardRepo) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	if c, ok := m.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCardRepo) ListByList(ctx context.Context, listID int64) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range m.byID {
		if c.ListID == listID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memCardRepo) CountByList(ctx context.Context, listID int64) (int, error) {
	count := 0
	for _, c := range m.byID {
		if c.ListID == listID {
			count++
		}
	}
	return count, nil
}

func (m *memCardRepo) Update(ctx context.Context, c *domain.Card) error {
	stored, ok := m.byID[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.DueDate = c.DueDate
	stored.Priority = c.Priority
	return nil
}

func (m *memCardRepo) MoveToList(ctx context.Context, cardID, listID int64, position int, sourceShifts []domain.PositionUpdate) error {
	stored, ok := m.byID[cardID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.ListID = listID
	stored.Position = position
	return m.ReorderPositions(ctx, sourceShifts)
}

func (m *memCardRepo) ReorderPositions(ctx context.Context, updates []domain.PositionUpdate) error {
	for _, u := range updates {
		stored, ok := m.byID[u.ID]
		if !ok {
			return domain.ErrNotFound
		}
		stored.Position = u.Position
	}
	return nil
}

func (m *memCardRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.assignments, id)
	return nil
}

func (m *memCardRepo) Assign(ctx context.Context, cardID, userID int64) error {
	if _, ok := m.byID[cardID]; !ok {
		return domain.ErrNotFound
	}
	if m.assignments[cardID] == nil {
		m.assignments[cardID] = map[int64]bool{}
	}
	m.assignments[cardID][userID] = true
	return nil
}

func (m *memCardRepo) Unassign(ctx context.Context, cardID, userID int64) error {
	delete(m.assignments[cardID], userID)
	return nil
}

func (m *memCardRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range m.byID {
		if c.DueDate == nil {
			continue
		}
		if !c.DueDate.Before(from) && c.DueDate.Before(to) {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memCardRepo) AssignedUserIDs(ctx context.Context, cardID int64) ([]int64, error) {
	var out []int64
	for userID := range m.assignments[cardID] {
		out = append(out, userID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// fixture wires a full service stack over the in-memory repositories.
type fixture struct {
	users  *memUserRepo
	boards *memBoardRepo
	lists  *memListRepo
	cards  *memCardRepo

	boardService *BoardService
	listService  *ListService
	cardService  *CardService
}

func newFixture() *fixture {
	f := &fixture{
		users:  newMemUserRepo(),
		boards: newMemBoardRepo(),
		lists:  newMemListRepo(),
		cards:  newMemCardRepo(),
	}

	ownership := newFixtureOwnership(f)
	f.boardService = NewBoardService(f.boards, ownership, nil, 0, nil)
	f.listService = NewListService(f.lists, ownership, nil)
	f.cardService = NewCardService(f.cards, f.lists, f.users, ownership, nil)
	return f
}

func newFixtureOwnership(f *fixture) *security.OwnershipService {
	return security.NewOwnershipService(f.boards, f.lists, f.cards, nil)
}

func (f *fixture) addUser(email string) int64 {
	u := &domain.User{Email: email, Name: email, PasswordHash: "x"}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u.ID
}
