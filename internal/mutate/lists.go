package mutate

import (
	"context"

	"github.com/nhle/hammer-list/internal/hierarchy"
	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/ordering"
)

// AddChildList creates an empty list nested under the item, after the
// item's existing child lists.
func (s *Service) AddChildList(ctx context.Context, itemID, name string) (*model.List, error) {
	ctx = logging.WithOp(ctx, OpAddChildList)

	it, err := s.item(itemID)
	if err != nil {
		return nil, err
	}
	n, ok := model.NormalizeTitle(name)
	if !ok {
		return nil, s.reject(ctx, OpAddChildList)
	}

	l := &model.List{
		ID:        s.g.NewID(),
		Name:      n,
		CreatedAt: s.g.Now(),
		Order:     len(it.ChildListIDs),
	}
	s.g.InsertList(l)
	s.g.Link(it.ID, l.ID)

	s.log.Debugf(ctx, "nested list %s under item %s", l.ID, it.ID)
	return l, s.commit(ctx, OpAddChildList)
}

// RenameList replaces the list's name.
func (s *Service) RenameList(ctx context.Context, listID, name string) (*model.List, error) {
	ctx = logging.WithOp(ctx, OpRenameList)

	l, err := s.list(listID)
	if err != nil {
		return nil, err
	}
	n, ok := model.NormalizeTitle(name)
	if !ok {
		return nil, s.reject(ctx, OpRenameList)
	}
	if n == l.Name {
		return l, nil
	}

	l.Name = n
	s.g.MarkListDirty(l.ID)
	return l, s.commit(ctx, OpRenameList)
}

// LinkSharedList nests an existing list under the item without copying it.
// The list keeps its other parents. Linking twice is a no-op, and a link
// that would make the list contain itself is refused.
func (s *Service) LinkSharedList(ctx context.Context, itemID, listID string) error {
	ctx = logging.WithOp(ctx, OpLinkSharedList)

	it, err := s.item(itemID)
	if err != nil {
		return err
	}
	l, err := s.list(listID)
	if err != nil {
		return err
	}
	if hierarchy.Reaches(s.g, listID, it.ListID) {
		return s.refuseCycle(ctx, listID, it.ListID)
	}
	wasRoot := l.IsRoot()
	if !s.g.Link(it.ID, listID) {
		return nil
	}
	if wasRoot {
		s.leaveProjects(it.ID)
	}

	s.log.Debugf(ctx, "linked list %s under item %s", listID, it.ID)
	return s.commit(ctx, OpLinkSharedList)
}

// UnlinkChildList detaches the list from one parent item. A list left with
// no parents becomes a project at the end of the project order, unless it
// is empty, in which case it is deleted.
func (s *Service) UnlinkChildList(ctx context.Context, itemID, listID string) error {
	ctx = logging.WithOp(ctx, OpUnlinkChildList)

	if _, err := s.item(itemID); err != nil {
		return err
	}
	l, err := s.list(listID)
	if err != nil {
		return err
	}
	if !s.g.Unlink(itemID, listID) {
		return nil
	}

	if l.IsRoot() {
		if len(l.ItemIDs) == 0 {
			s.g.DeleteList(l.ID)
			s.log.Debugf(ctx, "deleted empty orphaned list %s", l.ID)
		} else {
			var others []*model.List
			for _, p := range s.g.Projects() {
				if p.ID != l.ID {
					others = append(others, p)
				}
			}
			l.Order = ordering.NextOrder(others)
			s.g.MarkListDirty(l.ID)
			s.log.Debugf(ctx, "list %s promoted to project at %d", l.ID, l.Order)
		}
	} else {
		s.renumberChildLists(l.ParentItemIDs[0])
	}
	s.renumberChildLists(itemID)

	return s.commit(ctx, OpUnlinkChildList)
}

// CopyListAsItems appends an independent copy of every item of the source
// list to the target list, keeping titles, statuses and relative order.
// Child lists of the source items are not copied.
func (s *Service) CopyListAsItems(ctx context.Context, targetListID, sourceListID string) ([]*model.Item, error) {
	ctx = logging.WithOp(ctx, OpCopyListAsItems)

	if _, err := s.list(targetListID); err != nil {
		return nil, err
	}
	if _, err := s.list(sourceListID); err != nil {
		return nil, err
	}

	src := s.g.Items(sourceListID)
	if len(src) == 0 {
		return nil, nil
	}

	now := s.g.Now()
	base := ordering.NextOrder(s.g.Items(targetListID))
	out := make([]*model.Item, 0, len(src))
	for i, orig := range src {
		cp := &model.Item{
			ID:        s.g.NewID(),
			ListID:    targetListID,
			Title:     orig.Title,
			Status:    orig.Status,
			Timestamp: now,
			Order:     base + i,
		}
		if err := s.g.InsertItem(cp); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}

	s.log.Debugf(ctx, "copied %d items from list %s into %s", len(out), sourceListID, targetListID)
	return out, s.commit(ctx, OpCopyListAsItems)
}

// ImportAsNestedList appends a container item named after the source list
// to the target list and links the source under it. The source stays
// shared with its other parents.
func (s *Service) ImportAsNestedList(ctx context.Context, targetListID, sourceListID string) (*model.Item, error) {
	ctx = logging.WithOp(ctx, OpImportAsNestedList)

	if _, err := s.list(targetListID); err != nil {
		return nil, err
	}
	src, err := s.list(sourceListID)
	if err != nil {
		return nil, err
	}
	if hierarchy.Reaches(s.g, sourceListID, targetListID) {
		return nil, s.refuseCycle(ctx, sourceListID, targetListID)
	}

	container := &model.Item{
		ID:        s.g.NewID(),
		ListID:    targetListID,
		Title:     src.Name,
		Status:    model.StatusNotStarted,
		Timestamp: s.g.Now(),
		Order:     ordering.NextOrder(s.g.Items(targetListID)),
	}
	if err := s.g.InsertItem(container); err != nil {
		return nil, err
	}
	wasRoot := src.IsRoot()
	s.g.Link(container.ID, src.ID)
	if wasRoot {
		s.leaveProjects(container.ID)
	}

	s.log.Debugf(ctx, "imported list %s into %s as item %s", src.ID, targetListID, container.ID)
	return container, s.commit(ctx, OpImportAsNestedList)
}

// DeleteList deletes the list, its items and the child lists those items
// own exclusively, and detaches it from every parent item.
func (s *Service) DeleteList(ctx context.Context, listID string) error {
	ctx = logging.WithOp(ctx, OpDeleteList)

	l, err := s.list(listID)
	if err != nil {
		return err
	}
	wasRoot := l.IsRoot()
	parents := append([]string(nil), l.ParentItemIDs...)

	c := s.newCascade()
	c.deleteList(listID)

	if s.opts.RenumberOnDelete {
		if wasRoot {
			s.renumberProjects()
		}
		for _, p := range parents {
			s.renumberChildLists(p)
		}
		c.renumberSurvivors()
	}

	s.log.Debugf(ctx, "deleted list %s", listID)
	return s.commit(ctx, OpDeleteList)
}
