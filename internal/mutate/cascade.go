package mutate

// cascade deletes items and lists together with the child lists they own
// exclusively. A child list is owned exclusively when the item being
// deleted is its only parent; shared lists are only unlinked and recorded
// in survivors, since their first parent may have changed. seen guards
// against cycles in a corrupted graph.
type cascade struct {
	s         *Service
	seen      map[string]bool
	survivors []string
}

func (s *Service) newCascade() *cascade {
	return &cascade{s: s, seen: make(map[string]bool)}
}

func (c *cascade) deleteItem(itemID string) {
	if c.seen["item:"+itemID] {
		return
	}
	c.seen["item:"+itemID] = true

	g := c.s.g
	for _, l := range g.ChildLists(itemID) {
		if len(l.ParentItemIDs) <= 1 {
			c.deleteList(l.ID)
			continue
		}
		if g.Unlink(itemID, l.ID) {
			c.survivors = append(c.survivors, l.ID)
		}
	}
	g.DeleteItem(itemID)
}

func (c *cascade) deleteList(listID string) {
	if c.seen["list:"+listID] {
		return
	}
	c.seen["list:"+listID] = true

	g := c.s.g
	for _, it := range g.Items(listID) {
		c.deleteItem(it.ID)
	}
	g.DeleteList(listID)
}

// renumberSurvivors renumbers the child lists of each surviving shared
// list's current first parent.
func (c *cascade) renumberSurvivors() {
	g := c.s.g
	for _, id := range c.survivors {
		l, ok := g.List(id)
		if !ok || l.IsRoot() {
			continue
		}
		c.s.renumberChildLists(l.ParentItemIDs[0])
	}
}
