package tree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// UpdateTree applies a partial update to one of the authenticated user's
// trees.
func (s *Service) UpdateTree(ctx context.Context, input UpdateTreeInput) (*domain.Tree, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	if _, err := s.ownedTree(ctx, userID, input.TreeID); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	params := domain.TreeUpdateParams{
		BackgroundURL: input.BackgroundURL,
		Description:   input.Description,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		params.Name = &trimmed
	}
	if input.Visibility != nil {
		v, _ := domain.ParseVisibility(*input.Visibility)
		params.Visibility = &v
	}

	updated, err := s.trees.Update(ctx, input.TreeID, params)
	if err != nil {
		return nil, fmt.Errorf("update tree: %w", err)
	}

	s.log.InfoContext(ctx, "tree updated",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", updated.ID.String()),
	)

	return updated, nil
}
