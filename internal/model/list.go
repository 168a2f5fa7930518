package model

import "time"

// List is an ordered container of items. A list with no parent items is a
// root list, shown to the user as a project.
type List struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Order     int       `json:"order" db:"sort_order"`

	// ItemIDs holds the owned items in display order. Deleting the list
	// deletes them.
	ItemIDs []string `json:"item_ids,omitempty" db:"-"`

	// ParentItemIDs is the inverse of Item.ChildListIDs, in link order.
	ParentItemIDs []string `json:"parent_item_ids,omitempty" db:"-"`
}

// GetOrder returns the list's position within its ordering scope.
func (l *List) GetOrder() int { return l.Order }

// SetOrder updates the list's position within its ordering scope.
func (l *List) SetOrder(order int) { l.Order = order }

// IsRoot reports whether the list is a project, i.e. nested under no item.
func (l *List) IsRoot() bool { return len(l.ParentItemIDs) == 0 }

// IsShared reports whether the list appears under more than one item.
func (l *List) IsShared() bool { return len(l.ParentItemIDs) >= 2 }

// Clone returns a copy that shares no slices with l.
func (l *List) Clone() *List {
	c := *l
	c.ItemIDs = append([]string(nil), l.ItemIDs...)
	c.ParentItemIDs = append([]string(nil), l.ParentItemIDs...)
	return &c
}
