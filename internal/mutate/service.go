// Package mutate is the only write path into the list/item graph. Each
// exported operation is one logical unit that ends with a save.
package mutate

import (
	"context"
	"fmt"

	"github.com/nhle/hammer-list/internal/graph"
	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/metrics"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/ordering"
)

// Operation names used for logging and metrics.
const (
	OpAddItem                = "add_item"
	OpDeleteItems            = "delete_items"
	OpMoveItems              = "move_items"
	OpToggleStatus           = "toggle_status"
	OpRenameItem             = "rename_item"
	OpAddChildList           = "add_child_list"
	OpRenameList             = "rename_list"
	OpLinkSharedList         = "link_shared_list"
	OpUnlinkChildList        = "unlink_child_list"
	OpCopyListAsItems        = "copy_list_as_items"
	OpImportAsNestedList     = "import_as_nested_list"
	OpCreateProject          = "create_project"
	OpCreateListUnderProject = "create_list_under_project"
	OpDeleteList             = "delete_list"
	OpDeleteProjects         = "delete_projects"
	OpMoveProjects           = "move_projects"
	OpSeedSample             = "seed_sample"
)

// Options tunes failure and ordering policy.
type Options struct {
	// Strict returns model.ErrEmptyTitle, ErrCycle and commit errors
	// instead of ignoring or logging them.
	Strict bool

	// RenumberOnDelete re-densifies sibling order after every delete.
	RenumberOnDelete bool
}

// DefaultOptions is lenient and renumbers after deletes.
func DefaultOptions() Options {
	return Options{RenumberOnDelete: true}
}

// Service applies user intents to the graph.
type Service struct {
	g    *graph.Graph
	log  logging.Logger
	rec  *metrics.Recorder
	opts Options
}

// New returns a Service. log may be nil; rec may be nil.
func New(g *graph.Graph, log logging.Logger, rec *metrics.Recorder, opts Options) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{g: g, log: log, rec: rec, opts: opts}
}

// Graph returns the graph the service writes to.
func (s *Service) Graph() *graph.Graph { return s.g }

// Options returns the service's policy.
func (s *Service) Options() Options { return s.opts }

// reject handles empty-input validation failures.
func (s *Service) reject(ctx context.Context, op string) error {
	s.rec.Rejected(op)
	s.log.Debugf(ctx, "ignoring empty input")
	if s.opts.Strict {
		return model.ErrEmptyTitle
	}
	return nil
}

// refuseCycle handles link requests that would nest a list inside itself.
func (s *Service) refuseCycle(ctx context.Context, listID, intoListID string) error {
	s.log.Warnf(ctx, "refusing to nest list %s inside its own subtree (%s)", listID, intoListID)
	if s.opts.Strict {
		return fmt.Errorf("nesting list %s under %s: %w", listID, intoListID, ErrCycle)
	}
	return nil
}

// commit saves pending changes. Failures are logged and counted; in strict
// mode they are also returned. In-memory effects are never rolled back.
func (s *Service) commit(ctx context.Context, op string) error {
	s.rec.Mutation(op)
	if err := s.g.Save(ctx); err != nil {
		s.rec.CommitFailed()
		s.log.Errorf(ctx, "commit failed, changes kept pending: %v", err)
		if s.opts.Strict {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (s *Service) list(id string) (*model.List, error) {
	l, ok := s.g.List(id)
	if !ok {
		return nil, NotFoundError{Kind: "list", ID: id}
	}
	return l, nil
}

func (s *Service) item(id string) (*model.Item, error) {
	it, ok := s.g.Item(id)
	if !ok {
		return nil, NotFoundError{Kind: "item", ID: id}
	}
	return it, nil
}

// renumberItems makes a list's item orders dense again.
func (s *Service) renumberItems(listID string) {
	for _, it := range ordering.Reorder(s.g.Items(listID)) {
		s.g.MarkItemDirty(it.ID)
	}
}

// renumberProjects makes the root list orders dense again.
func (s *Service) renumberProjects() {
	for _, l := range ordering.Reorder(s.g.Projects()) {
		s.g.MarkListDirty(l.ID)
	}
}

// renumberChildLists renumbers the child lists whose first parent is the
// item. A shared list keeps the position it has under its first parent.
func (s *Service) renumberChildLists(itemID string) {
	for i, l := range s.g.ChildLists(itemID) {
		if len(l.ParentItemIDs) == 0 || l.ParentItemIDs[0] != itemID || l.Order == i {
			continue
		}
		l.Order = i
		s.g.MarkListDirty(l.ID)
	}
}

// leaveProjects closes the gap a project leaves in the project order once it
// is nested under itemID, and gives it its position among that item's child
// lists.
func (s *Service) leaveProjects(itemID string) {
	s.renumberProjects()
	s.renumberChildLists(itemID)
}
