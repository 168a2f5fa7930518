package hierarchy

import (
	"fmt"
	"slices"

	"github.com/nhle/hammer-list/internal/graph"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/ordering"
)

type IssueLevel string

const (
	IssueLevelError IssueLevel = "error"
	IssueLevelWarn  IssueLevel = "warn"
)

// Issue codes reported by Doctor.
const (
	CodeDuplicateID     = "duplicate_id"
	CodeAsymmetricLink  = "asymmetric_link"
	CodeDanglingRef     = "dangling_ref"
	CodeOwnerMismatch   = "owner_mismatch"
	CodeNonDenseOrder   = "non_dense_order"
	CodeUnreachableRoot = "unreachable_root"
	CodeInvalidStatus   = "invalid_status"
	CodeEmptyTitle      = "empty_title"
)

type Issue struct {
	Level      IssueLevel `json:"level"`
	Code       string     `json:"code"`
	Message    string     `json:"message"`
	EntityKind string     `json:"entityKind,omitempty"`
	EntityID   string     `json:"entityId,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == IssueLevelError {
			return true
		}
	}
	return false
}

// Codes returns the distinct issue codes in report order.
func (r Report) Codes() []string {
	var out []string
	for _, it := range r.Issues {
		if !slices.Contains(out, it.Code) {
			out = append(out, it.Code)
		}
	}
	return out
}

// Doctor checks the graph's structural invariants and reports every
// violation it finds. It never modifies g.
func Doctor(g *graph.Graph) Report {
	var issues []Issue
	add := func(level IssueLevel, code, kind, id, format string, args ...any) {
		issues = append(issues, Issue{
			Level:      level,
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			EntityKind: kind,
			EntityID:   id,
		})
	}

	lists := g.Lists()
	items := g.AllItems()

	for _, l := range lists {
		if dup := firstDuplicate(l.ItemIDs); dup != "" {
			add(IssueLevelError, CodeDuplicateID, "list", l.ID, "list %s holds item %s more than once", l.ID, dup)
		}
		if dup := firstDuplicate(l.ParentItemIDs); dup != "" {
			add(IssueLevelError, CodeDuplicateID, "list", l.ID, "list %s has parent %s more than once", l.ID, dup)
		}
		if _, ok := model.NormalizeTitle(l.Name); !ok {
			add(IssueLevelWarn, CodeEmptyTitle, "list", l.ID, "list %s has an empty name", l.ID)
		}

		for _, id := range l.ItemIDs {
			it, ok := g.Item(id)
			if !ok {
				add(IssueLevelError, CodeDanglingRef, "list", l.ID, "list %s references missing item %s", l.ID, id)
				continue
			}
			if it.ListID != l.ID {
				add(IssueLevelError, CodeOwnerMismatch, "item", id, "item %s is held by list %s but owned by %s", id, l.ID, it.ListID)
			}
		}
		for _, pid := range l.ParentItemIDs {
			parent, ok := g.Item(pid)
			if !ok {
				add(IssueLevelError, CodeDanglingRef, "list", l.ID, "list %s has missing parent item %s", l.ID, pid)
				continue
			}
			if !slices.Contains(parent.ChildListIDs, l.ID) {
				add(IssueLevelError, CodeAsymmetricLink, "list", l.ID, "list %s names parent %s, which does not list it as a child", l.ID, pid)
			}
		}

		if members := g.Items(l.ID); !ordering.IsDense(members) {
			add(IssueLevelWarn, CodeNonDenseOrder, "list", l.ID, "items of list %s are not numbered 0..%d", l.ID, len(members)-1)
		}
		if _, ok := rootAncestor(g, l.ID); !ok {
			add(IssueLevelError, CodeUnreachableRoot, "list", l.ID, "list %s does not lead to a project (cycle or broken parent)", l.ID)
		}
	}

	for _, it := range items {
		if dup := firstDuplicate(it.ChildListIDs); dup != "" {
			add(IssueLevelError, CodeDuplicateID, "item", it.ID, "item %s links list %s more than once", it.ID, dup)
		}
		if !it.Status.Valid() {
			add(IssueLevelError, CodeInvalidStatus, "item", it.ID, "item %s has invalid status %d", it.ID, int(it.Status))
		}
		if _, ok := model.NormalizeTitle(it.Title); !ok {
			add(IssueLevelWarn, CodeEmptyTitle, "item", it.ID, "item %s has an empty title", it.ID)
		}
		owner, ok := g.List(it.ListID)
		if !ok {
			add(IssueLevelError, CodeDanglingRef, "item", it.ID, "item %s belongs to missing list %s", it.ID, it.ListID)
		} else if !slices.Contains(owner.ItemIDs, it.ID) {
			add(IssueLevelError, CodeOwnerMismatch, "item", it.ID, "item %s is not held by its list %s", it.ID, it.ListID)
		}
		for _, cid := range it.ChildListIDs {
			child, ok := g.List(cid)
			if !ok {
				add(IssueLevelError, CodeDanglingRef, "item", it.ID, "item %s links missing list %s", it.ID, cid)
				continue
			}
			if !slices.Contains(child.ParentItemIDs, it.ID) {
				add(IssueLevelError, CodeAsymmetricLink, "item", it.ID, "item %s links list %s, which does not name it as parent", it.ID, cid)
			}
		}
		// A nested list is numbered by its position under its first parent.
		for i, child := range g.ChildLists(it.ID) {
			if len(child.ParentItemIDs) == 0 || child.ParentItemIDs[0] != it.ID || child.Order == i {
				continue
			}
			add(IssueLevelWarn, CodeNonDenseOrder, "item", it.ID, "list %s is child %d of item %s but has order %d", child.ID, i, it.ID, child.Order)
			break
		}
	}

	if projects := g.Projects(); !ordering.IsDense(projects) {
		add(IssueLevelWarn, CodeNonDenseOrder, "project", "", "projects are not numbered 0..%d", len(projects)-1)
	}

	return Report{Issues: issues}
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}
