package mutate

import (
	"context"
	"time"

	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/ordering"
	"github.com/nhle/hammer-list/internal/statusutil"
)

// AddItem appends a new NotStarted item to the list. Whitespace-only titles
// are ignored (nil, nil) unless the service is strict.
func (s *Service) AddItem(ctx context.Context, listID, title string) (*model.Item, error) {
	ctx = logging.WithOp(ctx, OpAddItem)

	if _, err := s.list(listID); err != nil {
		return nil, err
	}
	t, ok := model.NormalizeTitle(title)
	if !ok {
		return nil, s.reject(ctx, OpAddItem)
	}

	it := &model.Item{
		ID:        s.g.NewID(),
		ListID:    listID,
		Title:     t,
		Status:    model.StatusNotStarted,
		Timestamp: s.g.Now(),
		Order:     ordering.NextOrder(s.g.Items(listID)),
	}
	if err := s.g.InsertItem(it); err != nil {
		return nil, err
	}

	s.log.Debugf(ctx, "added item %s to list %s at %d", it.ID, listID, it.Order)
	return it, s.commit(ctx, OpAddItem)
}

// DeleteItems removes the items at the given display positions. Targets are
// resolved before anything is removed; out-of-range positions are skipped.
// Child lists owned only by a deleted item are deleted with it.
func (s *Service) DeleteItems(ctx context.Context, listID string, indices []int) error {
	ctx = logging.WithOp(ctx, OpDeleteItems)

	if _, err := s.list(listID); err != nil {
		return err
	}

	items := s.g.Items(listID)
	var targets []string
	for _, idx := range ordering.SnapshotIndices(indices) {
		if idx < 0 || idx >= len(items) {
			continue
		}
		targets = append(targets, items[idx].ID)
	}
	if len(targets) == 0 {
		return nil
	}

	c := s.newCascade()
	for _, id := range targets {
		c.deleteItem(id)
	}
	if s.opts.RenumberOnDelete {
		s.renumberItems(listID)
		c.renumberSurvivors()
	}

	s.log.Debugf(ctx, "deleted %d items from list %s", len(targets), listID)
	return s.commit(ctx, OpDeleteItems)
}

// MoveItems moves the items at source to dest, where dest is a position in
// the list before the move. Orders are rewritten densely afterwards.
func (s *Service) MoveItems(ctx context.Context, listID string, source []int, dest int) error {
	ctx = logging.WithOp(ctx, OpMoveItems)

	if _, err := s.list(listID); err != nil {
		return err
	}

	items := s.g.Items(listID)
	moved := ordering.Move(items, source, dest)

	sameSequence := true
	ids := make([]string, len(moved))
	for i, it := range moved {
		ids[i] = it.ID
		if it != items[i] {
			sameSequence = false
		}
	}
	if !sameSequence {
		if err := s.g.SetItemSequence(listID, ids); err != nil {
			return err
		}
	}

	changed := ordering.Reorder(moved)
	if sameSequence && len(changed) == 0 {
		return nil
	}
	for _, it := range changed {
		s.g.MarkItemDirty(it.ID)
	}

	s.log.Debugf(ctx, "moved %d items in list %s to %d, %d reordered", len(source), listID, dest, len(changed))
	return s.commit(ctx, OpMoveItems)
}

// ToggleStatus advances the item one step through the status cycle and
// refreshes its timestamp.
func (s *Service) ToggleStatus(ctx context.Context, itemID string) (*model.Item, error) {
	ctx = logging.WithOp(ctx, OpToggleStatus)

	it, err := s.item(itemID)
	if err != nil {
		return nil, err
	}

	prev := it.Status
	it.Status = statusutil.Advance(it.Status)
	it.Timestamp = s.g.Now()
	s.g.MarkItemDirty(it.ID)

	s.log.Debugf(ctx, "item %s: %s -> %s", it.ID, prev, it.Status)
	return it, s.commit(ctx, OpToggleStatus)
}

// RenameItem replaces the item's title.
func (s *Service) RenameItem(ctx context.Context, itemID, title string) (*model.Item, error) {
	ctx = logging.WithOp(ctx, OpRenameItem)

	it, err := s.item(itemID)
	if err != nil {
		return nil, err
	}
	t, ok := model.NormalizeTitle(title)
	if !ok {
		return nil, s.reject(ctx, OpRenameItem)
	}
	if t == it.Title {
		return it, nil
	}

	it.Title = t
	s.g.MarkItemDirty(it.ID)
	return it, s.commit(ctx, OpRenameItem)
}

// SeedSample appends three sample items, one per status, to the list.
func (s *Service) SeedSample(ctx context.Context, listID string) ([]*model.Item, error) {
	ctx = logging.WithOp(ctx, OpSeedSample)

	if _, err := s.list(listID); err != nil {
		return nil, err
	}

	samples := []struct {
		title  string
		status model.Status
		age    time.Duration
	}{
		{"Buy groceries", model.StatusNotStarted, 0},
		{"Walk the dog", model.StatusInProgress, time.Hour},
		{"Read a book", model.StatusCompleted, 2 * time.Hour},
	}

	now := s.g.Now()
	base := ordering.NextOrder(s.g.Items(listID))
	out := make([]*model.Item, 0, len(samples))
	for i, smp := range samples {
		it := &model.Item{
			ID:        s.g.NewID(),
			ListID:    listID,
			Title:     smp.title,
			Status:    smp.status,
			Timestamp: now.Add(-smp.age),
			Order:     base + i,
		}
		if err := s.g.InsertItem(it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, s.commit(ctx, OpSeedSample)
}
