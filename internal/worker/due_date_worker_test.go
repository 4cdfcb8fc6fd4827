package worker

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
)

type stubCardRepo struct {
	cards       []*domain.Card
	assignments map[int64][]int64
}

func (s *stubCardRepo) Create(ctx context.Context, c *domain.Card) error { return nil }
func (s *stubCardRepo) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return nil, domain.ErrNotFound
}
func (s *stubCardRepo) ListByList(ctx context.Context, listID int64) ([]*domain.Card, error) {
	return nil, nil
}
func (s *stubCardRepo) CountByList(ctx context.Context, listID int64) (int, error) { return 0, nil }
func (s *stubCardRepo) Update(ctx context.Context, c *domain.Card) error           { return nil }
func (s *stubCardRepo) MoveToList(ctx context.Context, cardID, listID int64, position int, shifts []domain.PositionUpdate) error {
	return nil
}
func (s *stubCardRepo) ReorderPositions(ctx context.Context, updates []domain.PositionUpdate) error {
	return nil
}
func (s *stubCardRepo) Delete(ctx context.Context, id int64) error               { return nil }
func (s *stubCardRepo) Assign(ctx context.Context, cardID, userID int64) error   { return nil }
func (s *stubCardRepo) Unassign(ctx context.Context, cardID, userID int64) error { return nil }

func (s *stubCardRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range s.cards {
		if c.DueDate == nil {
			continue
		}
		if !c.DueDate.Before(from) && c.DueDate.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCardRepo) AssignedUserIDs(ctx context.Context, cardID int64) ([]int64, error) {
	return s.assignments[cardID], nil
}

type stubNotificationRepo struct {
	nextID int64
	byID   map[int64]*domain.Notification
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byID: map[int64]*domain.Notification{}}
}

func (s *stubNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = time.Now()
	copied := *n
	s.byID[n.ID] = &copied
	return nil
}

func (s *stubNotificationRepo) Exists(ctx context.Context, userID, cardID int64, notifType string) (bool, error) {
	for _, n := range s.byID {
		if n.UserID == userID && n.CardID == cardID && n.Type == notifType {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubNotificationRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range s.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

func (s *stubNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, n := range s.byID {
		if n.Read && n.CreatedAt.Before(cutoff) {
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func TestSweepCreatesNotificationsForDueCards(t *testing.T) {
	due := time.Now().Add(2 * time.Hour)
	farOff := time.Now().Add(72 * time.Hour)
	cards := &stubCardRepo{
		cards: []*domain.Card{
			{ID: 1, Title: "due soon", DueDate: &due},
			{ID: 2, Title: "not yet", DueDate: &farOff},
			{ID: 3, Title: "no due date"},
		},
		assignments: map[int64][]int64{1: {10, 11}, 2: {10}},
	}
	notifications := newStubNotificationRepo()

	w := NewDueDateWorker(cards, notifications, nil, time.Minute, 24*time.Hour, 30*24*time.Hour)
	w.sweep(context.Background())

	for _, userID := range []int64{10, 11} {
		got, _ := notifications.ListByUser(context.Background(), userID)
		if len(got) != 1 {
			t.Fatalf("expected 1 notification for user %d, got %d", userID, len(got))
		}
		if got[0].CardID != 1 || got[0].Type != domain.NotificationDueSoon {
			t.Fatalf("unexpected notification: %+v", got[0])
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	due := time.Now().Add(2 * time.Hour)
	cards := &stubCardRepo{
		cards:       []*domain.Card{{ID: 1, Title: "due soon", DueDate: &due}},
		assignments: map[int64][]int64{1: {10}},
	}
	notifications := newStubNotificationRepo()

	w := NewDueDateWorker(cards, notifications, nil, time.Minute, 24*time.Hour, 30*24*time.Hour)
	w.sweep(context.Background())
	w.sweep(context.Background())
	w.sweep(context.Background())

	got, _ := notifications.ListByUser(context.Background(), 10)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 notification after repeated sweeps, got %d", len(got))
	}
}

func TestSweepPrunesOldReadNotifications(t *testing.T) {
	cards := &stubCardRepo{assignments: map[int64][]int64{}}
	notifications := newStubNotificationRepo()

	old := &domain.Notification{UserID: 10, CardID: 1, Type: domain.NotificationDueSoon}
	notifications.Create(context.Background(), old)
	stored := notifications.byID[old.ID]
	stored.Read = true
	stored.CreatedAt = time.Now().Add(-60 * 24 * time.Hour)

	unreadOld := &domain.Notification{UserID: 10, CardID: 2, Type: domain.NotificationDueSoon}
	notifications.Create(context.Background(), unreadOld)
	notifications.byID[unreadOld.ID].CreatedAt = time.Now().Add(-60 * 24 * time.Hour)

	w := NewDueDateWorker(cards, notifications, nil, time.Minute, 24*time.Hour, 30*24*time.Hour)
	w.sweep(context.Background())

	got, _ := notifications.ListByUser(context.Background(), 10)
	if len(got) != 1 {
		t.Fatalf("expected only the unread notification to survive, got %d", len(got))
	}
	if got[0].CardID != 2 {
		t.Fatalf("wrong notification pruned: %+v", got[0])
	}
}
