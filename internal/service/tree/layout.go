package tree

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// TreeLayout is the projected view of one tree's graph. Exactly one of the
// two fields is set: IDKeyed for the owner, NameKeyed for everyone else.
type TreeLayout struct {
	Tree      *domain.Tree
	IDKeyed   *domain.IDKeyedLayout
	NameKeyed *domain.NameKeyedLayout
}

// GetTreeLayout loads a tree's skills, achievements, and orientation and
// projects them into the view the caller is entitled to. The owner gets the
// id-keyed view for editing; other viewers get the name-keyed view.
func (s *Service) GetTreeLayout(ctx context.Context, treeID uuid.UUID) (*TreeLayout, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if treeID == uuid.Nil {
		return nil, domain.NewValidationError("tree_id", "required")
	}

	t, err := s.trees.GetByID(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	if err := s.checkReadAccess(ctx, userID, t); err != nil {
		return nil, err
	}

	skills, achievements, orientation, err := s.loadGraph(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	layout := &TreeLayout{Tree: t}
	if t.OwnedBy(userID) {
		layout.IDKeyed, err = domain.ProjectIDKeyed(skills, achievements, orientation)
	} else {
		layout.NameKeyed, err = domain.ProjectNameKeyed(skills, achievements, orientation)
	}
	if err != nil {
		return nil, fmt.Errorf("project layout: %w", err)
	}

	return layout, nil
}

// loadGraph fetches the three collections that make up one tree's graph.
func (s *Service) loadGraph(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, []*domain.Achievement, *domain.Orientation, error) {
	skills, err := s.skills.ListByTree(ctx, treeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list skills: %w", err)
	}
	achievements, err := s.achievements.ListByTree(ctx, treeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list achievements: %w", err)
	}
	orientation, err := s.orientations.GetByTreeID(ctx, treeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get orientation: %w", err)
	}
	return skills, achievements, orientation, nil
}
