package orientation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// MoveNode moves one node's location entry to new coordinates. The node must
// already have an entry; a live node without one is a stored-data fault, not
// something a move can create or repair.
func (s *Service) MoveNode(ctx context.Context, input MoveNodeInput) (*domain.Orientation, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ownedTree(ctx, userID, input.TreeID); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	o, err := s.orientations.GetByTreeID(ctx, input.TreeID)
	if err != nil {
		return nil, fmt.Errorf("get orientation: %w", err)
	}

	switch input.Kind {
	case domain.NodeKindSkill:
		moved := false
		for idx, sl := range o.SkillLocations {
			if sl.SkillID == input.NodeID {
				o.SkillLocations[idx].X = input.X
				o.SkillLocations[idx].Y = input.Y
				moved = true
				break
			}
		}
		if !moved {
			return nil, domain.NewNotFoundError("orientations",
				map[string]string{"treeId": input.TreeID.String(), "skillId": input.NodeID.String()})
		}

	case domain.NodeKindAchievement:
		moved := false
		for idx, al := range o.AchievementLocations {
			if al.AchievementID == input.NodeID {
				o.AchievementLocations[idx].X = input.X
				o.AchievementLocations[idx].Y = input.Y
				moved = true
				break
			}
		}
		if !moved {
			return nil, domain.NewNotFoundError("orientations",
				map[string]string{"treeId": input.TreeID.String(), "achievementId": input.NodeID.String()})
		}
	}

	updated, err := s.orientations.ReplaceLocations(ctx, input.TreeID, o.SkillLocations, o.AchievementLocations)
	if err != nil {
		return nil, fmt.Errorf("save orientation: %w", err)
	}

	s.log.InfoContext(ctx, "node moved",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", input.TreeID.String()),
		slog.String("node_id", input.NodeID.String()),
		slog.String("kind", string(input.Kind)),
	)

	return updated, nil
}
