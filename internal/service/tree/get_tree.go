package tree

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// GetTree returns a single tree if the authenticated user may see it.
// PRESET and PUBLIC trees are open to everyone; PRIVATE is owner-only;
// FRIENDS requires an accepted friendship with the owner.
func (s *Service) GetTree(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error) {
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

	return t, nil
}

// ListTrees returns all trees owned by the authenticated user.
func (s *Service) ListTrees(ctx context.Context) ([]*domain.Tree, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	trees, err := s.trees.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}

	return trees, nil
}

// ListPresets returns all ownerless template trees available for copying.
func (s *Service) ListPresets(ctx context.Context) ([]*domain.Tree, error) {
	if _, ok := ctxutil.ActorIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	presets, err := s.trees.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	return presets, nil
}
