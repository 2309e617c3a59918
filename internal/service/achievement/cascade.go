package achievement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// wouldCreateCycle reports whether giving achievementID the proposed
// prerequisite list would let it reach itself through the prerequisite
// relation. Plain DFS with a visiting set.
func (s *Service) wouldCreateCycle(ctx context.Context, achievementID uuid.UUID, prerequisites []uuid.UUID) (bool, error) {
	visited := map[uuid.UUID]bool{}

	var visit func(ids []uuid.UUID) (bool, error)
	visit = func(ids []uuid.UUID) (bool, error) {
		for _, id := range ids {
			if id == achievementID {
				return true, nil
			}
			if visited[id] {
				continue
			}
			visited[id] = true

			p, err := s.achievements.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return false, domain.NewConsistencyError("achievements",
						map[string]string{"prerequisiteId": id.String()}, "prerequisite does not resolve")
				}
				return false, fmt.Errorf("get prerequisite: %w", err)
			}

			found, err := visit(p.Prerequisites)
			if err != nil || found {
				return found, err
			}
		}
		return false, nil
	}

	return visit(prerequisites)
}

// cascadeIncomplete clears completion on every transitive dependent of id.
// Runs inside the caller's transaction.
func (s *Service) cascadeIncomplete(ctx context.Context, id uuid.UUID) error {
	visited := map[uuid.UUID]bool{}
	queue := []uuid.UUID{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		dependents, err := s.achievements.ListReferencing(ctx, cur)
		if err != nil {
			return fmt.Errorf("list dependents: %w", err)
		}

		for _, d := range dependents {
			if visited[d.ID] {
				continue
			}
			visited[d.ID] = true

			if d.Complete {
				if _, err := s.achievements.SetCompletion(ctx, d.ID, false, nil); err != nil {
					return fmt.Errorf("mark dependent incomplete: %w", err)
				}
			}
			queue = append(queue, d.ID)
		}
	}

	return nil
}
