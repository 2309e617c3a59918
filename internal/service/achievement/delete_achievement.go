package achievement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// DeleteAchievement removes an achievement and splices the DAG around it:
// every dependent inherits the deleted node's prerequisites (merged,
// de-duplicated, minus the deleted id), and the orientation entry is
// dropped. All of it happens in one transaction.
func (s *Service) DeleteAchievement(ctx context.Context, input DeleteAchievementInput) error {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	a, err := s.ownedAchievement(ctx, userID, input.AchievementID)
	if err != nil {
		return fmt.Errorf("get achievement: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dependents, err := s.achievements.ListReferencing(txCtx, a.ID)
		if err != nil {
			return fmt.Errorf("list dependents: %w", err)
		}

		for _, d := range dependents {
			spliced := splicePrereqs(d.Prerequisites, a.ID, a.Prerequisites)
			if _, err := s.achievements.Update(txCtx, d.ID, domain.AchievementUpdateParams{
				Prerequisites: &spliced,
			}); err != nil {
				return fmt.Errorf("splice dependent %s: %w", d.ID, err)
			}
		}

		// Any row the listing missed must not keep a dangling reference.
		if err := s.achievements.RemovePrerequisiteRefs(txCtx, a.ID); err != nil {
			return fmt.Errorf("remove prerequisite refs: %w", err)
		}

		if err := s.achievements.Delete(txCtx, a.ID); err != nil {
			return fmt.Errorf("delete achievement: %w", err)
		}

		o, err := s.orientations.GetByTreeID(txCtx, a.TreeID)
		if err != nil {
			return fmt.Errorf("get orientation: %w", err)
		}
		o.RemoveAchievementLocation(a.ID)

		if _, err := s.orientations.ReplaceLocations(txCtx, a.TreeID, o.SkillLocations, o.AchievementLocations); err != nil {
			return fmt.Errorf("update orientation: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "achievement deleted",
		slog.String("user_id", userID.String()),
		slog.String("achievement_id", a.ID.String()),
		slog.String("tree_id", a.TreeID.String()),
	)

	return nil
}

// splicePrereqs replaces removed in the dependent's prerequisite list with
// the removed node's own prerequisites, preserving order and dropping
// duplicates.
func splicePrereqs(dependentPrereqs []uuid.UUID, removed uuid.UUID, inherited []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(dependentPrereqs)+len(inherited))
	out := make([]uuid.UUID, 0, len(dependentPrereqs)+len(inherited))

	add := func(id uuid.UUID) {
		if id == removed || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, id := range dependentPrereqs {
		if id == removed {
			for _, inh := range inherited {
				add(inh)
			}
			continue
		}
		add(id)
	}

	return out
}
