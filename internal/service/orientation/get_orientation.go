package orientation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// GetOrientation returns the layout of one of the authenticated user's
// trees. Non-owners see coordinates only through the tree layout views.
func (s *Service) GetOrientation(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if treeID == uuid.Nil {
		return nil, domain.NewValidationError("tree_id", "required")
	}

	if _, err := s.ownedTree(ctx, userID, treeID); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	o, err := s.orientations.GetByTreeID(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("get orientation: %w", err)
	}

	return o, nil
}
