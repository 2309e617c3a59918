package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// AddHours applies delta to the skill's hour total and to every ancestor up
// the parent chain, so root totals always reflect their whole subtree. Delta
// may be negative. The caller is responsible for running inside a transaction
// when the adjustment must be atomic with another write.
func (s *Service) AddHours(ctx context.Context, skillID uuid.UUID, delta float64) error {
	if delta == 0 {
		return nil
	}

	chain, err := s.ancestorChain(ctx, skillID)
	if err != nil {
		return err
	}

	for _, sk := range chain {
		if err := s.skills.AddHours(ctx, sk.ID, delta); err != nil {
			return fmt.Errorf("add hours to skill %s: %w", sk.ID, err)
		}
	}

	return nil
}

// ancestorChain returns the skill followed by its ancestors up to the root.
// A parent id that does not resolve, or a parent loop, is a stored-data fault.
func (s *Service) ancestorChain(ctx context.Context, skillID uuid.UUID) ([]*domain.Skill, error) {
	var chain []*domain.Skill
	visited := map[uuid.UUID]bool{}

	cur, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}

	for {
		if visited[cur.ID] {
			return nil, domain.NewConsistencyError("skills",
				map[string]string{"skillId": cur.ID.String()}, "parent chain contains a cycle")
		}
		visited[cur.ID] = true
		chain = append(chain, cur)

		if cur.ParentSkillID == nil {
			return chain, nil
		}

		parent, err := s.skills.GetByID(ctx, *cur.ParentSkillID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewConsistencyError("skills",
					map[string]string{"skillId": cur.ID.String(), "parentSkillId": cur.ParentSkillID.String()},
					"parent does not resolve")
			}
			return nil, fmt.Errorf("get parent skill: %w", err)
		}
		cur = parent
	}
}

// wouldCreateCycle reports whether parenting skillID under newParentID would
// make the skill its own ancestor.
func (s *Service) wouldCreateCycle(ctx context.Context, skillID, newParentID uuid.UUID) (bool, error) {
	if skillID == newParentID {
		return true, nil
	}

	chain, err := s.ancestorChain(ctx, newParentID)
	if err != nil {
		return false, err
	}

	for _, sk := range chain {
		if sk.ID == skillID {
			return true, nil
		}
	}
	return false, nil
}
