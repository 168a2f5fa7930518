// Package graph holds the in-memory entity graph of lists and items.
//
// Lists and items live in arenas keyed by id. The item -> child list
// relation is stored on both ends (Item.ChildListIDs, List.ParentItemIDs)
// and only Link and Unlink touch those slices, always together. Mutations
// are recorded as pending changes and flushed to a store.Store by Save.
package graph

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/ordering"
	"github.com/nhle/hammer-list/internal/statusutil"
	"github.com/nhle/hammer-list/internal/store"
)

// Graph is the working set of lists and items. It is not safe for
// concurrent mutation; callers serialize writes.
type Graph struct {
	lists map[string]*model.List
	items map[string]*model.Item

	st      store.Store
	pending pending
	version uint64

	now   func() time.Time
	newID func() string
}

type pending struct {
	lists        map[string]bool
	items        map[string]bool
	deletedLists map[string]bool
	deletedItems map[string]bool
	edgeItems    map[string]bool
	edgeLists    map[string]bool
}

func newPending() pending {
	return pending{
		lists:        make(map[string]bool),
		items:        make(map[string]bool),
		deletedLists: make(map[string]bool),
		deletedItems: make(map[string]bool),
		edgeItems:    make(map[string]bool),
		edgeLists:    make(map[string]bool),
	}
}

// Option customizes a Graph.
type Option func(*Graph)

// WithClock overrides the time source used for new timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Graph) { g.now = now }
}

// WithIDGenerator overrides the id source used for new entities.
func WithIDGenerator(newID func() string) Option {
	return func(g *Graph) { g.newID = newID }
}

// New returns an empty graph persisting to st. A nil st keeps the graph
// purely in memory; Save then only clears pending changes.
func New(st store.Store, opts ...Option) *Graph {
	g := &Graph{
		lists:   make(map[string]*model.List),
		items:   make(map[string]*model.Item),
		st:      st,
		pending: newPending(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load builds a graph from everything in st. Dangling edges and items whose
// list is missing are dropped and reported in the returned warnings. Items
// with an out-of-range status are repaired and left pending.
func Load(ctx context.Context, st store.Store, opts ...Option) (*Graph, []string, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading graph: %w", err)
	}

	g := New(st, opts...)
	var warnings []string

	for i := range snap.Lists {
		l := snap.Lists[i]
		l.ItemIDs, l.ParentItemIDs = nil, nil
		g.lists[l.ID] = &l
	}
	for i := range snap.Items {
		it := snap.Items[i]
		it.ChildListIDs = nil
		owner, ok := g.lists[it.ListID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("item %s references missing list %s", it.ID, it.ListID))
			continue
		}
		if fixed, repaired := statusutil.Repair(it.Status); repaired {
			warnings = append(warnings, fmt.Sprintf("item %s had invalid status %d, set to %s", it.ID, int(it.Status), fixed))
			it.Status = fixed
			g.pending.items[it.ID] = true
		}
		g.items[it.ID] = &it
		owner.ItemIDs = append(owner.ItemIDs, it.ID)
	}
	for _, l := range g.lists {
		g.sortItemIDs(l)
	}

	edges := append([]store.Edge(nil), snap.Edges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].ParentPos < edges[j].ParentPos })
	for _, e := range edges {
		it, okItem := g.items[e.ItemID]
		l, okList := g.lists[e.ListID]
		if !okItem || !okList {
			warnings = append(warnings, fmt.Sprintf("dropping dangling link %s -> %s", e.ItemID, e.ListID))
			continue
		}
		l.ParentItemIDs = append(l.ParentItemIDs, it.ID)
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].ItemID != edges[j].ItemID {
			return edges[i].ItemID < edges[j].ItemID
		}
		return edges[i].ChildPos < edges[j].ChildPos
	})
	for _, e := range edges {
		it, okItem := g.items[e.ItemID]
		_, okList := g.lists[e.ListID]
		if okItem && okList {
			it.ChildListIDs = append(it.ChildListIDs, e.ListID)
		}
	}

	return g, warnings, nil
}

// Store returns the backend the graph saves to.
func (g *Graph) Store() store.Store { return g.st }

// Now returns the graph's current time.
func (g *Graph) Now() time.Time { return g.now() }

// NewID returns a fresh entity id.
func (g *Graph) NewID() string { return g.newID() }

// Version increases with every mutation. Readers use it to invalidate
// derived caches.
func (g *Graph) Version() uint64 { return g.version }

// Item returns the item with the given id.
func (g *Graph) Item(id string) (*model.Item, bool) {
	it, ok := g.items[id]
	return it, ok
}

// List returns the list with the given id.
func (g *Graph) List(id string) (*model.List, bool) {
	l, ok := g.lists[id]
	return l, ok
}

// Items returns the items owned by the list in display order.
func (g *Graph) Items(listID string) []*model.Item {
	l, ok := g.lists[listID]
	if !ok {
		return nil
	}
	out := make([]*model.Item, 0, len(l.ItemIDs))
	for _, id := range l.ItemIDs {
		if it, ok := g.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// ChildLists returns the lists nested under the item, in link order.
func (g *Graph) ChildLists(itemID string) []*model.List {
	it, ok := g.items[itemID]
	if !ok {
		return nil
	}
	out := make([]*model.List, 0, len(it.ChildListIDs))
	for _, id := range it.ChildListIDs {
		if l, ok := g.lists[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// ParentItems returns the items referencing the list, in link order.
func (g *Graph) ParentItems(listID string) []*model.Item {
	l, ok := g.lists[listID]
	if !ok {
		return nil
	}
	out := make([]*model.Item, 0, len(l.ParentItemIDs))
	for _, id := range l.ParentItemIDs {
		if it, ok := g.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Projects returns the root lists ordered by their project order.
func (g *Graph) Projects() []*model.List {
	var out []*model.List
	for _, l := range g.lists {
		if l.IsRoot() {
			out = append(out, l)
		}
	}
	sortLists(out)
	return out
}

// Lists returns every list, projects and nested alike, sorted by order,
// creation time and id.
func (g *Graph) Lists() []*model.List {
	out := make([]*model.List, 0, len(g.lists))
	for _, l := range g.lists {
		out = append(out, l)
	}
	sortLists(out)
	return out
}

// AllItems returns every item sorted by owning list then position.
func (g *Graph) AllItems() []*model.Item {
	out := make([]*model.Item, 0, len(g.items))
	for _, it := range g.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ListID != out[j].ListID {
			return out[i].ListID < out[j].ListID
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// InsertList adds a list to the graph. Relation slices on l are ignored;
// use Link to nest it.
func (g *Graph) InsertList(l *model.List) {
	l.ItemIDs, l.ParentItemIDs = nil, nil
	g.lists[l.ID] = l
	delete(g.pending.deletedLists, l.ID)
	g.pending.lists[l.ID] = true
	g.version++
}

// InsertItem adds an item at the end of its owning list.
func (g *Graph) InsertItem(it *model.Item) error {
	owner, ok := g.lists[it.ListID]
	if !ok {
		return fmt.Errorf("inserting item %s: list %s not found", it.ID, it.ListID)
	}
	it.ChildListIDs = nil
	g.items[it.ID] = it
	owner.ItemIDs = append(owner.ItemIDs, it.ID)
	delete(g.pending.deletedItems, it.ID)
	g.pending.items[it.ID] = true
	g.version++
	return nil
}

// Link nests the list under the item, updating both ends. It reports false
// when either id is unknown or the pair is already linked.
func (g *Graph) Link(itemID, listID string) bool {
	it, okItem := g.items[itemID]
	l, okList := g.lists[listID]
	if !okItem || !okList || slices.Contains(it.ChildListIDs, listID) {
		return false
	}
	it.ChildListIDs = append(it.ChildListIDs, listID)
	l.ParentItemIDs = append(l.ParentItemIDs, itemID)
	g.touchEdges(itemID, listID)
	return true
}

// Unlink removes the item -> list edge from both ends.
func (g *Graph) Unlink(itemID, listID string) bool {
	it, okItem := g.items[itemID]
	l, okList := g.lists[listID]
	if !okItem || !okList || !slices.Contains(it.ChildListIDs, listID) {
		return false
	}
	it.ChildListIDs = removeID(it.ChildListIDs, listID)
	l.ParentItemIDs = removeID(l.ParentItemIDs, itemID)
	g.touchEdges(itemID, listID)
	return true
}

// DeleteItem removes an item from its list and detaches it from every child
// list. Child lists themselves are left alone; ownership cascades are the
// caller's decision.
func (g *Graph) DeleteItem(id string) {
	it, ok := g.items[id]
	if !ok {
		return
	}
	for _, listID := range append([]string(nil), it.ChildListIDs...) {
		g.Unlink(id, listID)
	}
	if owner, ok := g.lists[it.ListID]; ok {
		owner.ItemIDs = removeID(owner.ItemIDs, id)
	}
	delete(g.items, id)
	delete(g.pending.items, id)
	delete(g.pending.edgeItems, id)
	g.pending.deletedItems[id] = true
	g.version++
}

// DeleteList removes a list, every item it owns, and its links to parent
// items.
func (g *Graph) DeleteList(id string) {
	l, ok := g.lists[id]
	if !ok {
		return
	}
	for _, itemID := range append([]string(nil), l.ItemIDs...) {
		g.DeleteItem(itemID)
	}
	for _, parentID := range append([]string(nil), l.ParentItemIDs...) {
		g.Unlink(parentID, id)
	}
	delete(g.lists, id)
	delete(g.pending.lists, id)
	delete(g.pending.edgeLists, id)
	g.pending.deletedLists[id] = true
	g.version++
}

// SetItemSequence replaces the display order of a list's items. ids must be
// a permutation of the list's current items.
func (g *Graph) SetItemSequence(listID string, ids []string) error {
	l, ok := g.lists[listID]
	if !ok {
		return fmt.Errorf("list %s not found", listID)
	}
	if len(ids) != len(l.ItemIDs) {
		return fmt.Errorf("list %s: sequence has %d items, want %d", listID, len(ids), len(l.ItemIDs))
	}
	for _, id := range ids {
		if !slices.Contains(l.ItemIDs, id) {
			return fmt.Errorf("list %s: item %s is not a member", listID, id)
		}
	}
	l.ItemIDs = append(l.ItemIDs[:0], ids...)
	g.version++
	return nil
}

// MarkItemDirty schedules the item's fields for the next Save.
func (g *Graph) MarkItemDirty(id string) {
	if _, ok := g.items[id]; ok {
		g.pending.items[id] = true
		g.version++
	}
}

// MarkListDirty schedules the list's fields for the next Save.
func (g *Graph) MarkListDirty(id string) {
	if _, ok := g.lists[id]; ok {
		g.pending.lists[id] = true
		g.version++
	}
}

// HasPending reports whether there are unsaved changes.
func (g *Graph) HasPending() bool {
	return !g.changeset().Empty()
}

// Save flushes pending changes to the store. On failure the changes stay
// pending and are retried by the next Save.
func (g *Graph) Save(ctx context.Context) error {
	cs := g.changeset()
	if cs.Empty() {
		return nil
	}
	if g.st != nil {
		if err := g.st.Apply(ctx, cs); err != nil {
			return fmt.Errorf("saving changes: %w", err)
		}
	}
	g.pending = newPending()
	return nil
}

func (g *Graph) changeset() store.Changeset {
	var cs store.Changeset

	for _, id := range sortedKeys(g.pending.deletedItems) {
		cs.DeletedItemIDs = append(cs.DeletedItemIDs, id)
	}
	for _, id := range sortedKeys(g.pending.deletedLists) {
		cs.DeletedListIDs = append(cs.DeletedListIDs, id)
	}
	for _, id := range sortedKeys(g.pending.lists) {
		if l, ok := g.lists[id]; ok {
			cs.Lists = append(cs.Lists, *l.Clone())
		}
	}
	for _, id := range sortedKeys(g.pending.items) {
		if it, ok := g.items[id]; ok {
			cs.Items = append(cs.Items, *it.Clone())
		}
	}

	seen := make(map[[2]string]bool)
	addEdge := func(it *model.Item, l *model.List) {
		key := [2]string{it.ID, l.ID}
		if seen[key] {
			return
		}
		seen[key] = true
		cs.Edges = append(cs.Edges, store.Edge{
			ItemID:    it.ID,
			ListID:    l.ID,
			ChildPos:  slices.Index(it.ChildListIDs, l.ID),
			ParentPos: slices.Index(l.ParentItemIDs, it.ID),
		})
	}
	for _, id := range sortedKeys(g.pending.edgeItems) {
		it, ok := g.items[id]
		if !ok {
			continue
		}
		cs.TouchedItemIDs = append(cs.TouchedItemIDs, id)
		for _, listID := range it.ChildListIDs {
			if l, ok := g.lists[listID]; ok {
				addEdge(it, l)
			}
		}
	}
	for _, id := range sortedKeys(g.pending.edgeLists) {
		l, ok := g.lists[id]
		if !ok {
			continue
		}
		cs.TouchedListIDs = append(cs.TouchedListIDs, id)
		for _, itemID := range l.ParentItemIDs {
			if it, ok := g.items[itemID]; ok {
				addEdge(it, l)
			}
		}
	}

	return cs
}

func (g *Graph) touchEdges(itemID, listID string) {
	g.pending.edgeItems[itemID] = true
	g.pending.edgeLists[listID] = true
	g.version++
}

func (g *Graph) sortItemIDs(l *model.List) {
	members := g.Items(l.ID)
	ordering.SortByOrder(members)
	l.ItemIDs = l.ItemIDs[:0]
	for _, it := range members {
		l.ItemIDs = append(l.ItemIDs, it.ID)
	}
}

func sortLists(ls []*model.List) {
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].Order != ls[j].Order {
			return ls[i].Order < ls[j].Order
		}
		if !ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
			return ls[i].CreatedAt.Before(ls[j].CreatedAt)
		}
		return ls[i].ID < ls[j].ID
	})
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
