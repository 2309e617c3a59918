package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// CopyTree clones a visible tree's whole graph into the authenticated user's
// account under a fresh identifier namespace. Skills keep their structure but
// restart at zero hours; achievements restart incomplete; the orientation
// keeps its coordinates. The new tree always lands with FRIENDS visibility.
//
// The old-id to new-id map is fully built before any dependent write, and the
// whole sequence runs in one transaction, so a failed copy leaves nothing
// behind.
func (s *Service) CopyTree(ctx context.Context, input CopyTreeInput) (*domain.Tree, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("users", map[string]string{"userId": userID.String()})
	}

	src, err := s.trees.GetByID(ctx, input.SourceTreeID)
	if err != nil {
		return nil, fmt.Errorf("get source tree: %w", err)
	}
	if err := s.checkCopyAccess(ctx, userID, src); err != nil {
		return nil, err
	}

	srcSkills, srcAchievements, srcOrientation, err := s.loadGraph(ctx, src.ID)
	if err != nil {
		return nil, err
	}

	if err := s.checkNodeQuota(ctx, userID, len(srcSkills)+len(srcAchievements)); err != nil {
		return nil, err
	}

	idMap := make(map[uuid.UUID]uuid.UUID, len(srcSkills)+len(srcAchievements))
	for _, sk := range srcSkills {
		idMap[sk.ID] = uuid.New()
	}
	for _, a := range srcAchievements {
		idMap[a.ID] = uuid.New()
	}

	orderedSkills, err := orderParentsFirst(srcSkills)
	if err != nil {
		return nil, err
	}

	var copied *domain.Tree
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		copied, err = s.trees.Create(txCtx, &domain.Tree{
			UserID:        &userID,
			Name:          src.Name,
			BackgroundURL: src.BackgroundURL,
			Description:   src.Description,
			Visibility:    domain.VisibilityFriends,
		})
		if err != nil {
			return fmt.Errorf("create tree: %w", err)
		}

		for _, sk := range orderedSkills {
			var parentID *uuid.UUID
			if sk.ParentSkillID != nil {
				mapped, ok := idMap[*sk.ParentSkillID]
				if !ok {
					return domain.NewConsistencyError("skills",
						map[string]string{"skillId": sk.ID.String(), "parentSkillId": sk.ParentSkillID.String()},
						"parent resolves outside the source tree")
				}
				parentID = &mapped
			}
			if _, err := s.skills.CreateWithID(txCtx, &domain.Skill{
				ID:            idMap[sk.ID],
				UserID:        userID,
				TreeID:        copied.ID,
				Name:          sk.Name,
				BackgroundURL: sk.BackgroundURL,
				ParentSkillID: parentID,
			}); err != nil {
				return fmt.Errorf("copy skill: %w", err)
			}
		}

		for _, a := range srcAchievements {
			prereqs := make([]uuid.UUID, 0, len(a.Prerequisites))
			for _, pid := range a.Prerequisites {
				mapped, ok := idMap[pid]
				if !ok {
					return domain.NewConsistencyError("achievements",
						map[string]string{"achievementId": a.ID.String(), "prerequisiteId": pid.String()},
						"prerequisite resolves outside the source tree")
				}
				prereqs = append(prereqs, mapped)
			}
			if _, err := s.achievements.CreateWithID(txCtx, &domain.Achievement{
				ID:            idMap[a.ID],
				UserID:        userID,
				TreeID:        copied.ID,
				Title:         a.Title,
				BackgroundURL: a.BackgroundURL,
				Description:   a.Description,
				Prerequisites: prereqs,
			}); err != nil {
				return fmt.Errorf("copy achievement: %w", err)
			}
		}

		orientation, err := remapOrientation(srcOrientation, idMap)
		if err != nil {
			return err
		}
		orientation.UserID = &userID
		orientation.TreeID = copied.ID
		if _, err := s.orientations.Create(txCtx, orientation); err != nil {
			return fmt.Errorf("copy orientation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "tree copied",
		slog.String("user_id", userID.String()),
		slog.String("source_tree_id", src.ID.String()),
		slog.String("tree_id", copied.ID.String()),
		slog.Int("skills", len(srcSkills)),
		slog.Int("achievements", len(srcAchievements)),
	)

	return copied, nil
}

// checkCopyAccess decides whether userID may copy the tree. PRESET and PUBLIC
// are always copyable, FRIENDS requires an accepted friendship with the
// owner, PRIVATE is never copyable.
func (s *Service) checkCopyAccess(ctx context.Context, userID uuid.UUID, t *domain.Tree) error {
	switch t.Visibility {
	case domain.VisibilityPreset, domain.VisibilityPublic:
		return nil
	case domain.VisibilityFriends:
		ok, err := s.friends.AreFriends(ctx, userID, *t.UserID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return domain.ErrForbidden
}

// checkNodeQuota rejects a copy that would push the user's skill plus
// achievement count over the account cap.
func (s *Service) checkNodeQuota(ctx context.Context, userID uuid.UUID, incoming int) error {
	skillCount, err := s.skills.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count skills: %w", err)
	}
	achievementCount, err := s.achievements.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count achievements: %w", err)
	}

	if skillCount+achievementCount+incoming > s.constraints.MaxUserNodes {
		return fmt.Errorf("account would exceed %d nodes: %w", s.constraints.MaxUserNodes, domain.ErrConflict)
	}
	return nil
}

// orderParentsFirst orders skills so every parent precedes its children,
// letting the copy insert rows without dangling parent references. A parent
// link that cannot be scheduled means the source forest has a cycle or a
// dangling parent.
func orderParentsFirst(skills []*domain.Skill) ([]*domain.Skill, error) {
	childrenOf := make(map[uuid.UUID][]*domain.Skill)
	var ordered []*domain.Skill

	for _, sk := range skills {
		if sk.ParentSkillID == nil {
			ordered = append(ordered, sk)
		} else {
			childrenOf[*sk.ParentSkillID] = append(childrenOf[*sk.ParentSkillID], sk)
		}
	}

	for i := 0; i < len(ordered); i++ {
		ordered = append(ordered, childrenOf[ordered[i].ID]...)
		delete(childrenOf, ordered[i].ID)
	}

	if len(ordered) != len(skills) {
		return nil, domain.NewConsistencyError("skills", nil,
			"parent chain contains a cycle or a dangling parent")
	}
	return ordered, nil
}

// remapOrientation rewrites every location entry through the id map,
// preserving coordinates.
func remapOrientation(o *domain.Orientation, idMap map[uuid.UUID]uuid.UUID) (*domain.Orientation, error) {
	out := &domain.Orientation{
		SkillLocations:       make([]domain.SkillLocation, 0, len(o.SkillLocations)),
		AchievementLocations: make([]domain.AchievementLocation, 0, len(o.AchievementLocations)),
	}

	for _, sl := range o.SkillLocations {
		mapped, ok := idMap[sl.SkillID]
		if !ok {
			return nil, domain.NewConsistencyError("orientations",
				map[string]string{"treeId": o.TreeID.String(), "skillId": sl.SkillID.String()},
				"orientation entry references a dead skill")
		}
		out.SkillLocations = append(out.SkillLocations,
			domain.SkillLocation{SkillID: mapped, X: sl.X, Y: sl.Y})
	}
	for _, al := range o.AchievementLocations {
		mapped, ok := idMap[al.AchievementID]
		if !ok {
			return nil, domain.NewConsistencyError("orientations",
				map[string]string{"treeId": o.TreeID.String(), "achievementId": al.AchievementID.String()},
				"orientation entry references a dead achievement")
		}
		out.AchievementLocations = append(out.AchievementLocations,
			domain.AchievementLocation{AchievementID: mapped, X: al.X, Y: al.Y})
	}

	return out, nil
}
