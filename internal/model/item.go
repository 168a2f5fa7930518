package model

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTitle is returned in strict mode when a title or name is empty
// after trimming whitespace.
var ErrEmptyTitle = errors.New("title must not be empty")

// Item is a single checklist entry owned by exactly one List.
type Item struct {
	ID        string    `json:"id" db:"id"`
	ListID    string    `json:"list_id" db:"list_id"`
	Title     string    `json:"title" db:"title"`
	Status    Status    `json:"status" db:"status"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Order     int       `json:"order" db:"sort_order"`

	// ChildListIDs references lists nested under this item, in link order.
	// Maintained only through the graph's link helpers.
	ChildListIDs []string `json:"child_list_ids,omitempty" db:"-"`
}

// GetOrder returns the item's position among its siblings.
func (i *Item) GetOrder() int { return i.Order }

// SetOrder updates the item's position among its siblings.
func (i *Item) SetOrder(order int) { i.Order = order }

// HasChildLists reports whether the item is itself a sub-list container.
func (i *Item) HasChildLists() bool { return len(i.ChildListIDs) > 0 }

// Clone returns a copy that shares no slices with i.
func (i *Item) Clone() *Item {
	c := *i
	c.ChildListIDs = append([]string(nil), i.ChildListIDs...)
	return &c
}

// NormalizeTitle trims surrounding whitespace and reports whether anything
// is left.
func NormalizeTitle(s string) (string, bool) {
	t := strings.TrimSpace(s)
	return t, t != ""
}

// ValidateTitle returns ErrEmptyTitle for empty or whitespace-only input.
func ValidateTitle(s string) error {
	if _, ok := NormalizeTitle(s); !ok {
		return ErrEmptyTitle
	}
	return nil
}
