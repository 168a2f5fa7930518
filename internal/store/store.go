package store

import (
	"context"
	"fmt"

	"github.com/nhle/hammer-list/internal/model"
)

// Edge is one item -> child list link. ChildPos is the list's index in the
// item's child lists; ParentPos is the item's index in the list's parents.
type Edge struct {
	ItemID    string `json:"item_id" db:"item_id"`
	ListID    string `json:"list_id" db:"list_id"`
	ChildPos  int    `json:"child_pos" db:"child_pos"`
	ParentPos int    `json:"parent_pos" db:"parent_pos"`
}

// Snapshot is the complete persisted entity graph.
type Snapshot struct {
	Lists []model.List `json:"lists"`
	Items []model.Item `json:"items"`
	Edges []Edge       `json:"edges"`
}

// Changeset is the set of writes accumulated by one logical operation.
//
// Lists and Items are full upserts. Edges replaces every stored edge that
// touches an id in TouchedItemIDs or TouchedListIDs.
type Changeset struct {
	Lists          []model.List
	Items          []model.Item
	DeletedItemIDs []string
	DeletedListIDs []string
	Edges          []Edge
	TouchedItemIDs []string
	TouchedListIDs []string
}

// Empty reports whether applying cs would write nothing.
func (cs Changeset) Empty() bool {
	return len(cs.Lists) == 0 && len(cs.Items) == 0 &&
		len(cs.DeletedItemIDs) == 0 && len(cs.DeletedListIDs) == 0 &&
		len(cs.TouchedItemIDs) == 0 && len(cs.TouchedListIDs) == 0
}

// Store is the persistence backend behind the entity graph.
type Store interface {
	// Load reads the full entity graph.
	Load(ctx context.Context) (*Snapshot, error)

	// Apply writes a changeset atomically.
	Apply(ctx context.Context, cs Changeset) error

	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg model.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case model.StoreDriverMemory:
		return NewMemoryStore(), nil
	case model.StoreDriverSQLite, "":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
