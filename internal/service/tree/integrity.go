package tree

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// IntegrityFault describes one broken invariant found during a sweep.
type IntegrityFault struct {
	UserID uuid.UUID
	TreeID uuid.UUID
	Detail string
}

// IntegrityReport collects the faults found by CheckIntegrity.
type IntegrityReport struct {
	Faults []IntegrityFault
}

// Clean reports whether the sweep found no faults.
func (r *IntegrityReport) Clean() bool { return len(r.Faults) == 0 }

// CheckIntegrity sweeps one user's trees for partial-write damage: a tree
// without an orientation (the signature of an interrupted copy), live nodes
// missing an orientation entry, and orientation entries pointing at dead
// nodes. It is an operational check, so it takes the user id explicitly
// instead of reading the actor from the context.
func (s *Service) CheckIntegrity(ctx context.Context, userID uuid.UUID) (*IntegrityReport, error) {
	report := &IntegrityReport{}

	trees, err := s.trees.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}

	treeIDs := make(map[uuid.UUID]bool, len(trees))
	for _, t := range trees {
		treeIDs[t.ID] = true

		orientation, err := s.orientations.GetByTreeID(ctx, t.ID)
		if errors.Is(err, domain.ErrNotFound) {
			report.add(userID, t.ID, "tree has no orientation")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get orientation: %w", err)
		}

		if err := s.checkTreeEntries(ctx, userID, t.ID, orientation, report); err != nil {
			return nil, err
		}
	}

	orientations, err := s.orientations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orientations: %w", err)
	}
	for _, o := range orientations {
		if !treeIDs[o.TreeID] {
			report.add(userID, o.TreeID, "orientation has no tree")
		}
	}

	return report, nil
}

// CheckIntegrityAll sweeps every account.
func (s *Service) CheckIntegrityAll(ctx context.Context) (*IntegrityReport, error) {
	userIDs, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	report := &IntegrityReport{}
	for _, userID := range userIDs {
		r, err := s.CheckIntegrity(ctx, userID)
		if err != nil {
			return nil, err
		}
		report.Faults = append(report.Faults, r.Faults...)
	}

	return report, nil
}

// checkTreeEntries verifies the 1:1 correspondence between one tree's live
// nodes and its orientation entries, in both directions.
func (s *Service) checkTreeEntries(ctx context.Context, userID, treeID uuid.UUID, o *domain.Orientation, report *IntegrityReport) error {
	skills, err := s.skills.ListByTree(ctx, treeID)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	achievements, err := s.achievements.ListByTree(ctx, treeID)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}

	skillLocs := o.SkillLocationIndex()
	achLocs := o.AchievementLocationIndex()

	liveSkills := make(map[uuid.UUID]bool, len(skills))
	for _, sk := range skills {
		liveSkills[sk.ID] = true
	}
	for _, sk := range skills {
		if _, ok := skillLocs[sk.ID]; !ok {
			report.add(userID, treeID, fmt.Sprintf("skill %s has no orientation entry", sk.ID))
		}
		if sk.ParentSkillID != nil && !liveSkills[*sk.ParentSkillID] {
			report.add(userID, treeID, fmt.Sprintf("skill %s has a parent outside its tree", sk.ID))
		}
	}

	liveAchievements := make(map[uuid.UUID]bool, len(achievements))
	for _, a := range achievements {
		liveAchievements[a.ID] = true
	}
	for _, a := range achievements {
		if _, ok := achLocs[a.ID]; !ok {
			report.add(userID, treeID, fmt.Sprintf("achievement %s has no orientation entry", a.ID))
		}
		for _, pid := range a.Prerequisites {
			if !liveAchievements[pid] {
				report.add(userID, treeID, fmt.Sprintf("achievement %s has a prerequisite outside its tree", a.ID))
			}
		}
	}

	for id := range skillLocs {
		if !liveSkills[id] {
			report.add(userID, treeID, fmt.Sprintf("orientation entry for dead skill %s", id))
		}
	}
	for id := range achLocs {
		if !liveAchievements[id] {
			report.add(userID, treeID, fmt.Sprintf("orientation entry for dead achievement %s", id))
		}
	}

	return nil
}

func (r *IntegrityReport) add(userID, treeID uuid.UUID, detail string) {
	r.Faults = append(r.Faults, IntegrityFault{UserID: userID, TreeID: treeID, Detail: detail})
}
