package store

import (
	"context"
	"sort"
	"sync"

	"github.com/nhle/hammer-list/internal/model"
)

// MemoryStore keeps the persisted graph in maps. It backs the "memory"
// driver and tests that need to inject commit failures.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string]model.List
	items map[string]model.Item
	edges map[[2]string]Edge

	applies int
	failErr error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lists: make(map[string]model.List),
		items: make(map[string]model.Item),
		edges: make(map[[2]string]Edge),
	}
}

// FailWith makes every subsequent Apply return err. Pass nil to recover.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Applies returns how many changesets were written successfully.
func (m *MemoryStore) Applies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applies
}

// Load returns a copy of the stored graph in the same order SQLiteStore
// uses.
func (m *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{}
	for _, l := range m.lists {
		l.ItemIDs, l.ParentItemIDs = nil, nil
		snap.Lists = append(snap.Lists, l)
	}
	for _, it := range m.items {
		it.ChildListIDs = nil
		snap.Items = append(snap.Items, it)
	}
	for _, e := range m.edges {
		snap.Edges = append(snap.Edges, e)
	}

	sort.Slice(snap.Lists, func(i, j int) bool {
		a, b := snap.Lists[i], snap.Lists[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.Items, func(i, j int) bool {
		a, b := snap.Items[i], snap.Items[j]
		if a.ListID != b.ListID {
			return a.ListID < b.ListID
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})
	sort.Slice(snap.Edges, func(i, j int) bool {
		a, b := snap.Edges[i], snap.Edges[j]
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.ChildPos < b.ChildPos
	})

	return snap, nil
}

// Apply writes cs, mirroring the cascade rules of the SQLite schema.
func (m *MemoryStore) Apply(ctx context.Context, cs Changeset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}
	if cs.Empty() {
		return nil
	}

	for _, id := range cs.DeletedItemIDs {
		m.deleteItem(id)
	}
	for _, id := range cs.DeletedListIDs {
		delete(m.lists, id)
		for itemID, it := range m.items {
			if it.ListID == id {
				m.deleteItem(itemID)
			}
		}
		for k := range m.edges {
			if k[1] == id {
				delete(m.edges, k)
			}
		}
	}

	for _, l := range cs.Lists {
		l.ItemIDs, l.ParentItemIDs = nil, nil
		m.lists[l.ID] = l
	}
	for _, it := range cs.Items {
		it.ChildListIDs = nil
		m.items[it.ID] = it
	}

	touchedItems := toSet(cs.TouchedItemIDs)
	touchedLists := toSet(cs.TouchedListIDs)
	for k := range m.edges {
		if touchedItems[k[0]] || touchedLists[k[1]] {
			delete(m.edges, k)
		}
	}
	for _, e := range cs.Edges {
		m.edges[[2]string{e.ItemID, e.ListID}] = e
	}

	m.applies++
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) deleteItem(id string) {
	delete(m.items, id)
	for k := range m.edges {
		if k[0] == id {
			delete(m.edges, k)
		}
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

var _ Store = (*MemoryStore)(nil)
