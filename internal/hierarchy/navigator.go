// Package hierarchy answers read-only questions about where lists sit in
// the graph: their root project, their path and what a project contains.
package hierarchy

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nhle/hammer-list/internal/graph"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/statusutil"
)

// DefaultCacheSize is used when NewNavigator is given a non-positive size.
const DefaultCacheSize = 256

// Counts summarizes everything under a project.
type Counts struct {
	Items     int
	Completed int
	Lists     int
}

type rootEntry struct {
	id string
	ok bool
}

// Navigator walks parent links upward. Root lookups are cached and the
// cache is dropped whenever the graph version moves.
type Navigator struct {
	g       *graph.Graph
	roots   *lru.Cache[string, rootEntry]
	version uint64
}

// NewNavigator returns a Navigator over g.
func NewNavigator(g *graph.Graph, cacheSize int) (*Navigator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, rootEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating root cache: %w", err)
	}
	return &Navigator{g: g, roots: cache, version: g.Version()}, nil
}

func (n *Navigator) sync() {
	if v := n.g.Version(); v != n.version {
		n.roots.Purge()
		n.version = v
	}
}

// RootAncestor follows first parents up to a root list. It reports false
// for unknown lists, dangling parents and cycles.
func (n *Navigator) RootAncestor(listID string) (*model.List, bool) {
	n.sync()
	if e, ok := n.roots.Get(listID); ok {
		if !e.ok {
			return nil, false
		}
		return n.g.List(e.id)
	}

	root, ok := rootAncestor(n.g, listID)
	e := rootEntry{ok: ok}
	if ok {
		e.id = root.ID
	}
	n.roots.Add(listID, e)
	return root, ok
}

func rootAncestor(g *graph.Graph, listID string) (*model.List, bool) {
	visited := make(map[string]bool)
	cur, ok := g.List(listID)
	for ok {
		if cur.IsRoot() {
			return cur, true
		}
		if visited[cur.ID] {
			return nil, false
		}
		visited[cur.ID] = true

		parent, found := g.Item(cur.ParentItemIDs[0])
		if !found {
			return nil, false
		}
		cur, ok = g.List(parent.ListID)
	}
	return nil, false
}

// Path returns the lists from the root down to listID along first parents.
// It is nil when RootAncestor reports false or the walk itself hits a
// missing parent or a repeated list.
func (n *Navigator) Path(listID string) []*model.List {
	if _, ok := n.RootAncestor(listID); !ok {
		return nil
	}
	var path []*model.List
	seen := make(map[string]bool)
	cur, ok := n.g.List(listID)
	for {
		if !ok || seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true
		path = append(path, cur)
		if cur.IsRoot() {
			break
		}
		parent, found := n.g.Item(cur.ParentItemIDs[0])
		if !found {
			return nil
		}
		cur, ok = n.g.List(parent.ListID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// DescendantCounts counts the items and non-root lists whose root ancestor
// is the project. A shared list counts toward the project its first parent
// leads to, so it is never counted twice.
func (n *Navigator) DescendantCounts(projectID string) Counts {
	var c Counts
	for _, l := range n.g.Lists() {
		root, ok := n.RootAncestor(l.ID)
		if !ok || root.ID != projectID {
			continue
		}
		if !l.IsRoot() {
			c.Lists++
		}
		for _, it := range n.g.Items(l.ID) {
			c.Items++
			if statusutil.IsDone(it.Status) {
				c.Completed++
			}
		}
	}
	return c
}

// Descendants returns every list reachable from listID through item child
// lists, excluding listID itself, in breadth-first order.
func Descendants(g *graph.Graph, listID string) []*model.List {
	var out []*model.List
	seen := map[string]bool{listID: true}
	queue := []string{listID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, it := range g.Items(id) {
			for _, child := range g.ChildLists(it.ID) {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				out = append(out, child)
				queue = append(queue, child.ID)
			}
		}
	}
	return out
}

// Reaches reports whether target is fromListID itself or one of its
// descendants. Nesting fromListID anywhere inside target would then close
// a cycle.
func Reaches(g *graph.Graph, fromListID, target string) bool {
	if fromListID == target {
		return true
	}
	for _, l := range Descendants(g, fromListID) {
		if l.ID == target {
			return true
		}
	}
	return false
}
