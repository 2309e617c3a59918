package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// DeleteTree removes one of the authenticated user's trees. Skills,
// achievements, and the orientation go with it at the storage level.
func (s *Service) DeleteTree(ctx context.Context, input DeleteTreeInput) error {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	t, err := s.ownedTree(ctx, userID, input.TreeID)
	if err != nil {
		return fmt.Errorf("get tree: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.trees.Delete(txCtx, t.ID); err != nil {
			return fmt.Errorf("delete tree: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "tree deleted",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", t.ID.String()),
	)

	return nil
}
