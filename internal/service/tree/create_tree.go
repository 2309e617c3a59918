package tree

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// CreateTree creates a tree for the authenticated user together with its
// empty orientation. The pair is born in one transaction; a tree without an
// orientation only ever means a partial write.
func (s *Service) CreateTree(ctx context.Context, input CreateTreeInput) (*domain.Tree, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("users", map[string]string{"userId": userID.String()})
	}

	var created *domain.Tree
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.trees.Create(txCtx, &domain.Tree{
			UserID:        &userID,
			Name:          strings.TrimSpace(input.Name),
			BackgroundURL: input.BackgroundURL,
			Description:   input.Description,
			Visibility:    input.visibilityOrDefault(),
		})
		if createErr != nil {
			return fmt.Errorf("create tree: %w", createErr)
		}

		if _, err := s.orientations.Create(txCtx, &domain.Orientation{
			UserID: &userID,
			TreeID: created.ID,
		}); err != nil {
			return fmt.Errorf("create orientation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "tree created",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", created.ID.String()),
		slog.String("visibility", string(created.Visibility)),
	)

	return created, nil
}
