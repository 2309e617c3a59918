package skill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// DeleteSkill removes a skill and heals the graph around it: children are
// re-parented to the deleted skill's parent, the skill's own hour
// contribution is subtracted from the old ancestor chain, activity weights
// naming the skill are spliced out, and the orientation entry is dropped.
// All of it happens in one transaction.
func (s *Service) DeleteSkill(ctx context.Context, input DeleteSkillInput) error {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	sk, err := s.ownedSkill(ctx, userID, input.SkillID)
	if err != nil {
		return fmt.Errorf("get skill: %w", err)
	}

	children, err := s.skills.List(ctx, userID,
		domain.SkillFilter{ParentSkillID: &sk.ID}, domain.SkillSortName)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}

	// The skill's hour total includes its subtree. The children stay in the
	// chain after re-parenting, so only the skill's own contribution leaves.
	ownHours := sk.TimeSpentHours
	for _, child := range children {
		ownHours -= child.TimeSpentHours
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.skills.ReassignChildren(txCtx, sk.ID, sk.ParentSkillID); err != nil {
			return fmt.Errorf("reassign children: %w", err)
		}

		if sk.ParentSkillID != nil && ownHours != 0 {
			if err := s.AddHours(txCtx, *sk.ParentSkillID, -ownHours); err != nil {
				return fmt.Errorf("remove hours from ancestor chain: %w", err)
			}
		}

		if err := s.spliceActivityWeights(txCtx, sk); err != nil {
			return err
		}

		if err := s.skills.Delete(txCtx, sk.ID); err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}

		o, err := s.orientations.GetByTreeID(txCtx, sk.TreeID)
		if err != nil {
			return fmt.Errorf("get orientation: %w", err)
		}
		o.RemoveSkillLocation(sk.ID)

		if _, err := s.orientations.ReplaceLocations(txCtx, sk.TreeID, o.SkillLocations, o.AchievementLocations); err != nil {
			return fmt.Errorf("update orientation: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "skill deleted",
		slog.String("user_id", userID.String()),
		slog.String("skill_id", sk.ID.String()),
		slog.String("tree_id", sk.TreeID.String()),
	)

	return nil
}

// spliceActivityWeights drops the skill from every activity weight list that
// names it. Durations are kept; the remaining weights describe how the logged
// hours were split, not a re-normalized distribution.
func (s *Service) spliceActivityWeights(ctx context.Context, sk *domain.Skill) error {
	activities, err := s.activities.ListReferencingSkill(ctx, sk.ID)
	if err != nil {
		return fmt.Errorf("list activities referencing skill: %w", err)
	}

	for _, a := range activities {
		kept := make([]domain.SkillWeight, 0, len(a.SkillWeights))
		for _, sw := range a.SkillWeights {
			if sw.SkillID != sk.ID {
				kept = append(kept, sw)
			}
		}

		if _, err := s.activities.Update(ctx, a.ID, domain.ActivityUpdateParams{SkillWeights: &kept}); err != nil {
			return fmt.Errorf("splice activity %s: %w", a.ID, err)
		}
	}

	return nil
}
