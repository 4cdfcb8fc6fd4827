package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/taskboard/internal/domain"
	"github.com/yourorg/taskboard/internal/observability/metrics"
)

// DueDateWorker periodically scans for cards whose due date is approaching and
// creates a due_soon notification for every assigned user.
// This is the CORE OF THE NOTIFICATION LOGIC
type DueDateWorker struct {
	cardRepository         domain.CardRepository
	notificationRepository domain.NotificationRepository
	logger                 *slog.Logger
	interval               time.Duration
	window                 time.Duration
	retention              time.Duration
}

// NewDueDateWorker creates a new due-date worker
func NewDueDateWorker(
	cardRepo domain.CardRepository,
	notificationRepo domain.NotificationRepository,
	logger *slog.Logger,
	interval time.Duration,
	window time.Duration,
	retention time.Duration,
) *DueDateWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &DueDateWorker{
		cardRepository:         cardRepo,
		notificationRepository: notificationRepo,
		logger:                 logger,
		interval:               interval,
		window:                 window,
		retention:              retention,
	}
}

// Start begins the worker loop
// This runs continuously in a goroutine sweeping for due cards
func (w *DueDateWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("due-date worker started",
		slog.Duration("interval", w.interval),
		slog.Duration("window", w.window),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("due-date worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep is the main notification routine
func (w *DueDateWorker) sweep(ctx context.Context) {
	now := time.Now()

	cards, err := w.cardRepository.ListDueBetween(ctx, now, now.Add(w.window))
	if err != nil {
		w.logger.Error("failed to list due cards", slog.String("error", err.Error()))
		metrics.ObserveSweep("error")
		return
	}

	created := 0
	for _, card := range cards {
		n, err := w.notifyCard(ctx, card)
		if err != nil {
			w.logger.Error("failed to notify for card",
				slog.Int64("card_id", card.ID),
				slog.String("error", err.Error()),
			)
			metrics.ObserveSweep("error")
			return
		}
		created += n
	}

	pruned, err := w.notificationRepository.DeleteReadBefore(ctx, now.Add(-w.retention))
	if err != nil {
		w.logger.Error("failed to prune read notifications", slog.String("error", err.Error()))
		metrics.ObserveSweep("error")
		return
	}

	if created > 0 || pruned > 0 {
		w.logger.Info("due-date sweep finished",
			slog.Int("due_cards", len(cards)),
			slog.Int("notifications_created", created),
			slog.Int64("notifications_pruned", pruned),
		)
	}
	metrics.ObserveSweep("success")
}

// notifyCard creates at most one due_soon notification per assigned user.
// Re-running the sweep over the same card is a no-op.
func (w *DueDateWorker) notifyCard(ctx context.Context, card *domain.Card) (int, error) {
	userIDs, err := w.cardRepository.AssignedUserIDs(ctx, card.ID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, userID := range userIDs {
		exists, err := w.notificationRepository.Exists(ctx, userID, card.ID, domain.NotificationDueSoon)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		n := &domain.Notification{
			UserID: userID,
			CardID: card.ID,
			Type:   domain.NotificationDueSoon,
		}
		if err := w.notificationRepository.Create(ctx, n); err != nil {
			return created, err
		}
		created++
		metrics.ObserveNotificationCreated()
	}
	return created, nil
}
