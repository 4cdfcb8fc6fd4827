package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
)

func assertDenseCards(t *testing.T, cards []*domain.Card) {
	t.Helper()
	for i, c := range cards {
		if c.Position != i {
			t.Fatalf("positions not dense: index %d has position %d (%+v)", i, c.Position, cards)
		}
	}
}

type cardFixture struct {
	*fixture
	alice int64
	todo  *domain.List
	doing *domain.List
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()
	ctx := context.Background()
	f := newFixture()
	alice := f.addUser("alice@example.com")

	board, err := f.boardService.Create(ctx, alice, "Sprint 1")
	if err != nil {
		t.Fatalf("create board failed: %v", err)
	}
	todo, err := f.listService.Create(ctx, board.ID, alice, "Todo")
	if err != nil {
		t.Fatalf("create todo failed: %v", err)
	}
	doing, err := f.listService.Create(ctx, board.ID, alice, "Doing")
	if err != nil {
		t.Fatalf("create doing failed: %v", err)
	}

	return &cardFixture{fixture: f, alice: alice, todo: todo, doing: doing}
}

func (cf *cardFixture) addCard(t *testing.T, title string) *domain.Card {
	t.Helper()
	card, err := cf.cardService.Create(context.Background(), cf.todo.ID, cf.alice, CreateCardInput{Title: title})
	if err != nil {
		t.Fatalf("create card %q failed: %v", title, err)
	}
	return card
}

func TestCardCreateAppendsAtEnd(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)

	for i, title := range []string{"write tests", "fix bug", "ship"} {
		card := cf.addCard(t, title)
		if card.Position != i {
			t.Fatalf("expected %q at position %d, got %d", title, i, card.Position)
		}
	}

	cards, err := cf.cardService.ListByList(ctx, cf.todo.ID, cf.alice)
	if err != nil {
		t.Fatalf("list cards failed: %v", err)
	}
	assertDenseCards(t, cards)
}

func TestCardCreateValidation(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)

	if _, err := cf.cardService.Create(ctx, cf.todo.ID, cf.alice, CreateCardInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	if _, err := cf.cardService.Create(ctx, cf.todo.ID, cf.alice, CreateCardInput{
		Title:    "bad",
		Priority: domain.Priority("urgent"),
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad priority, got %v", err)
	}
}

func TestCardContentUpdate(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	card := cf.addCard(t, "draft")

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	high := domain.PriorityHigh
	updated, err := cf.cardService.Update(ctx, card.ID, cf.alice, UpdateCardInput{
		Title:       strPtr("final"),
		Description: strPtr("ready for review"),
		DueDate:     &due,
		Priority:    &high,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "final" || updated.Description != "ready for review" {
		t.Fatalf("content not updated: %+v", updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Fatalf("due date not updated: %v", updated.DueDate)
	}
	if updated.Priority != domain.PriorityHigh {
		t.Fatalf("priority not updated: %q", updated.Priority)
	}

	// Clearing the due date.
	cleared, err := cf.cardService.Update(ctx, card.ID, cf.alice, UpdateCardInput{ClearDueDate: true})
	if err != nil {
		t.Fatalf("clear due date failed: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("expected cleared due date, got %v", cleared.DueDate)
	}
}

func TestCardReorderWithinList(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	a := cf.addCard(t, "a")
	cf.addCard(t, "b")
	cf.addCard(t, "c")

	moved, err := cf.cardService.Update(ctx, a.ID, cf.alice, UpdateCardInput{Position: intPtr(2)})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if moved.Position != 2 {
		t.Fatalf("expected position 2, got %d", moved.Position)
	}

	cards, _ := cf.cardService.ListByList(ctx, cf.todo.ID, cf.alice)
	assertDenseCards(t, cards)
	wantOrder := []string{"b", "c", "a"}
	for i, c := range cards {
		if c.Title != wantOrder[i] {
			t.Fatalf("expected order %v, got %q at %d", wantOrder, c.Title, i)
		}
	}
}

func TestCardMoveAcrossLists(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	a := cf.addCard(t, "a")
	cf.addCard(t, "b")
	cf.addCard(t, "c")

	// Seed the destination so the append lands at a nonzero position.
	if _, err := cf.cardService.Create(ctx, cf.doing.ID, cf.alice, CreateCardInput{Title: "existing"}); err != nil {
		t.Fatalf("seed destination failed: %v", err)
	}

	// A requested position is ignored on a cross-list move; the card is
	// appended at the destination's end.
	moved, err := cf.cardService.Update(ctx, a.ID, cf.alice, UpdateCardInput{
		ListID:   &cf.doing.ID,
		Position: intPtr(0),
	})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved.ListID != cf.doing.ID {
		t.Fatalf("expected card in doing, got list %d", moved.ListID)
	}
	if moved.Position != 1 {
		t.Fatalf("expected appended at position 1, got %d", moved.Position)
	}

	// Both sides keep dense positions.
	source, _ := cf.cardService.ListByList(ctx, cf.todo.ID, cf.alice)
	if len(source) != 2 {
		t.Fatalf("expected 2 cards left in todo, got %d", len(source))
	}
	assertDenseCards(t, source)

	dest, _ := cf.cardService.ListByList(ctx, cf.doing.ID, cf.alice)
	if len(dest) != 2 {
		t.Fatalf("expected 2 cards in doing, got %d", len(dest))
	}
	assertDenseCards(t, dest)
	if dest[1].Title != "a" {
		t.Fatalf("expected a at the end of doing, got %q", dest[1].Title)
	}
}

func TestCardMoveToForeignListDenied(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	card := cf.addCard(t, "a")

	eve := cf.addUser("eve@example.com")
	eveBoard, _ := cf.boardService.Create(ctx, eve, "Eve's board")
	eveList, _ := cf.listService.Create(ctx, eveBoard.ID, eve, "Inbox")

	if _, err := cf.cardService.Update(ctx, card.ID, cf.alice, UpdateCardInput{ListID: &eveList.ID}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found moving to a foreign list, got %v", err)
	}

	// The card stays where it was.
	got, err := cf.cardService.Get(ctx, card.ID, cf.alice)
	if err != nil {
		t.Fatalf("get card failed: %v", err)
	}
	if got.ListID != cf.todo.ID {
		t.Fatalf("card moved despite denial: list %d", got.ListID)
	}
}

func TestCardDeleteCompactsPositions(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	cf.addCard(t, "a")
	b := cf.addCard(t, "b")
	cf.addCard(t, "c")

	if err := cf.cardService.Delete(ctx, b.ID, cf.alice); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	cards, _ := cf.cardService.ListByList(ctx, cf.todo.ID, cf.alice)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	assertDenseCards(t, cards)
	if cards[0].Title != "a" || cards[1].Title != "c" {
		t.Fatalf("unexpected survivors: %q, %q", cards[0].Title, cards[1].Title)
	}
}

func TestCardAssignment(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	card := cf.addCard(t, "pair on this")
	bob := cf.addUser("bob@example.com")

	if err := cf.cardService.Assign(ctx, card.ID, bob, cf.alice); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	// Assigning twice is a no-op.
	if err := cf.cardService.Assign(ctx, card.ID, bob, cf.alice); err != nil {
		t.Fatalf("repeat assign failed: %v", err)
	}

	ids, err := cf.cards.AssignedUserIDs(ctx, card.ID)
	if err != nil {
		t.Fatalf("assigned users failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != bob {
		t.Fatalf("expected only bob assigned, got %v", ids)
	}

	// Unknown users cannot be assigned.
	if err := cf.cardService.Assign(ctx, card.ID, 9999, cf.alice); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}

	if err := cf.cardService.Unassign(ctx, card.ID, bob, cf.alice); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	// Unassigning an absent assignment is a no-op.
	if err := cf.cardService.Unassign(ctx, card.ID, bob, cf.alice); err != nil {
		t.Fatalf("repeat unassign failed: %v", err)
	}

	ids, _ = cf.cards.AssignedUserIDs(ctx, card.ID)
	if len(ids) != 0 {
		t.Fatalf("expected no assignments, got %v", ids)
	}
}

func TestCardOwnershipHidesForeignCards(t *testing.T) {
	ctx := context.Background()
	cf := newCardFixture(t)
	card := cf.addCard(t, "secret")
	eve := cf.addUser("eve@example.com")

	if _, err := cf.cardService.Get(ctx, card.ID, eve); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign card, got %v", err)
	}
	if _, err := cf.cardService.Update(ctx, card.ID, eve, UpdateCardInput{Title: strPtr("stolen")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on foreign update, got %v", err)
	}
	if err := cf.cardService.Delete(ctx, card.ID, eve); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on foreign delete, got %v", err)
	}
	if err := cf.cardService.Assign(ctx, card.ID, eve, eve); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on foreign assign, got %v", err)
	}
}
