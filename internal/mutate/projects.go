package mutate

import (
	"context"

	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/ordering"
)

// CreateProject creates a root list at the end of the project order.
func (s *Service) CreateProject(ctx context.Context, name string) (*model.List, error) {
	ctx = logging.WithOp(ctx, OpCreateProject)

	n, ok := model.NormalizeTitle(name)
	if !ok {
		return nil, s.reject(ctx, OpCreateProject)
	}

	l := &model.List{
		ID:        s.g.NewID(),
		Name:      n,
		CreatedAt: s.g.Now(),
		Order:     ordering.NextOrder(s.g.Projects()),
	}
	s.g.InsertList(l)

	s.log.Debugf(ctx, "created project %s at %d", l.ID, l.Order)
	return l, s.commit(ctx, OpCreateProject)
}

// CreateListUnderProject appends a container item with the given name to
// the project and nests a new empty list of the same name under it.
func (s *Service) CreateListUnderProject(ctx context.Context, projectID, name string) (*model.List, error) {
	ctx = logging.WithOp(ctx, OpCreateListUnderProject)

	if _, err := s.list(projectID); err != nil {
		return nil, err
	}
	n, ok := model.NormalizeTitle(name)
	if !ok {
		return nil, s.reject(ctx, OpCreateListUnderProject)
	}

	now := s.g.Now()
	container := &model.Item{
		ID:        s.g.NewID(),
		ListID:    projectID,
		Title:     n,
		Status:    model.StatusNotStarted,
		Timestamp: now,
		Order:     ordering.NextOrder(s.g.Items(projectID)),
	}
	if err := s.g.InsertItem(container); err != nil {
		return nil, err
	}

	l := &model.List{
		ID:        s.g.NewID(),
		Name:      n,
		CreatedAt: now,
		Order:     0,
	}
	s.g.InsertList(l)
	s.g.Link(container.ID, l.ID)

	s.log.Debugf(ctx, "created list %s under project %s via item %s", l.ID, projectID, container.ID)
	return l, s.commit(ctx, OpCreateListUnderProject)
}

// DeleteProjects deletes the projects at the given positions of the project
// order, with everything they own exclusively.
func (s *Service) DeleteProjects(ctx context.Context, indices []int) error {
	ctx = logging.WithOp(ctx, OpDeleteProjects)

	projects := s.g.Projects()
	var targets []string
	for _, idx := range ordering.SnapshotIndices(indices) {
		if idx < 0 || idx >= len(projects) {
			continue
		}
		targets = append(targets, projects[idx].ID)
	}
	if len(targets) == 0 {
		return nil
	}

	c := s.newCascade()
	for _, id := range targets {
		c.deleteList(id)
	}
	if s.opts.RenumberOnDelete {
		s.renumberProjects()
		c.renumberSurvivors()
	}

	s.log.Debugf(ctx, "deleted %d projects", len(targets))
	return s.commit(ctx, OpDeleteProjects)
}

// MoveProjects reorders projects with the same offset rules as MoveItems.
func (s *Service) MoveProjects(ctx context.Context, source []int, dest int) error {
	ctx = logging.WithOp(ctx, OpMoveProjects)

	changed := ordering.Reorder(ordering.Move(s.g.Projects(), source, dest))
	if len(changed) == 0 {
		return nil
	}
	for _, l := range changed {
		s.g.MarkListDirty(l.ID)
	}

	s.log.Debugf(ctx, "moved %d projects to %d", len(source), dest)
	return s.commit(ctx, OpMoveProjects)
}
