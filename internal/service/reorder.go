package service

import "github.com/yourorg/taskboard/internal/domain"

// The reordering protocol keeps sibling positions a dense 0-based sequence:
// exactly {0, 1, ..., n-1} after every successful mutation. Plans are lists
// of single-row updates applied in order by the repositories.

// movePlan moves the sibling at index from to index to within an ordered
// sibling set. Siblings between the two indexes shift one step toward the
// vacated slot first; the moved entity takes its target position last. The
// target index is clamped into [0, n-1].
func movePlan(ids []int64, from, to int) []domain.PositionUpdate {
	n := len(ids)
	if n == 0 || from < 0 || from >= n {
		return nil
	}
	if to < 0 {
		to = 0
	}
	if to > n-1 {
		to = n - 1
	}
	if from == to {
		return nil
	}

	var updates []domain.PositionUpdate
	if from < to {
		for i := from + 1; i <= to; i++ {
			updates = append(updates, domain.PositionUpdate{ID: ids[i], Position: i - 1})
		}
	} else {
		for i := to; i < from; i++ {
			updates = append(updates, domain.PositionUpdate{ID: ids[i], Position: i + 1})
		}
	}
	return append(updates, domain.PositionUpdate{ID: ids[from], Position: to})
}

// compactPlan restores density for an ordered sibling set whose positions may
// contain holes (after a delete or a cross-list move). Only rows whose
// position differs from their index are touched.
func compactPlan(ids []int64, positions []int) []domain.PositionUpdate {
	var updates []domain.PositionUpdate
	for i, id := range ids {
		if positions[i] != i {
			updates = append(updates, domain.PositionUpdate{ID: id, Position: i})
		}
	}
	return updates
}
