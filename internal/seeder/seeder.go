// Package seeder installs preset trees from a JSON catalog. Each preset is
// written as one transaction: the ownerless tree row, its skills and
// achievements owned by a system account, and the orientation. Presets whose
// name already exists are skipped, so re-running the seeder is safe.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// Result summarizes a seeding run.
type Result struct {
	Installed int
	Skipped   int
	Duration  time.Duration
}

// Seeder installs preset catalogs.
type Seeder struct {
	log          *slog.Logger
	trees        TreeRepo
	skills       SkillRepo
	achievements AchievementRepo
	orientations OrientationRepo
	users        UserRepo
	tx           TxManager
	cfg          *Config
}

// New creates a Seeder.
func New(
	log *slog.Logger,
	trees TreeRepo,
	skills SkillRepo,
	achievements AchievementRepo,
	orientations OrientationRepo,
	users UserRepo,
	tx TxManager,
	cfg *Config,
) *Seeder {
	return &Seeder{
		log:          log.With("component", "seeder"),
		trees:        trees,
		skills:       skills,
		achievements: achievements,
		orientations: orientations,
		users:        users,
		tx:           tx,
		cfg:          cfg,
	}
}

// Run parses the configured catalog and installs every preset not already
// present.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	pf, err := ParsePresetFile(s.cfg.PresetsPath)
	if err != nil {
		return Result{}, err
	}

	existing, err := s.trees.ListPresets(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list presets: %w", err)
	}
	installed := make(map[string]bool, len(existing))
	for _, t := range existing {
		installed[t.Name] = true
	}

	var result Result
	if s.cfg.DryRun {
		for _, p := range pf.Presets {
			if installed[p.Name] {
				result.Skipped++
			} else {
				result.Installed++
			}
		}
		result.Duration = time.Since(start)
		s.log.Info("dry run", slog.Int("would_install", result.Installed), slog.Int("skipped", result.Skipped))
		return result, nil
	}

	owner, err := s.ensureOwner(ctx)
	if err != nil {
		return Result{}, err
	}

	for _, p := range pf.Presets {
		if installed[p.Name] {
			result.Skipped++
			continue
		}
		if err := s.install(ctx, owner.ID, &p); err != nil {
			return result, fmt.Errorf("install preset %q: %w", p.Name, err)
		}
		result.Installed++
		s.log.Info("preset installed",
			slog.String("name", p.Name),
			slog.Int("skills", len(p.Skills)),
			slog.Int("achievements", len(p.Achievements)),
		)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// ensureOwner resolves the system account owning preset nodes, creating it on
// first run.
func (s *Seeder) ensureOwner(ctx context.Context) (*domain.User, error) {
	owner, err := s.users.GetByDisplayName(ctx, s.cfg.OwnerDisplayName)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve preset owner: %w", err)
	}

	owner, err = s.users.Create(ctx, &domain.User{DisplayName: s.cfg.OwnerDisplayName})
	if err != nil {
		return nil, fmt.Errorf("create preset owner: %w", err)
	}
	s.log.Info("preset owner created", slog.String("user_id", owner.ID.String()))
	return owner, nil
}

// install writes one preset atomically. Node ids are minted up front so
// parent and prerequisite references can be translated before any write,
// the same discipline the copy engine follows.
func (s *Seeder) install(ctx context.Context, ownerID uuid.UUID, p *PresetTree) error {
	skillIDs := make(map[string]uuid.UUID, len(p.Skills))
	for _, sk := range p.Skills {
		skillIDs[sk.Name] = uuid.New()
	}
	achievementIDs := make(map[string]uuid.UUID, len(p.Achievements))
	for _, a := range p.Achievements {
		achievementIDs[a.Title] = uuid.New()
	}

	ordered := orderPresetSkills(p.Skills)

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		tree, err := s.trees.Create(txCtx, &domain.Tree{
			Name:          p.Name,
			BackgroundURL: p.BackgroundURL,
			Description:   p.Description,
			Visibility:    domain.VisibilityPreset,
		})
		if err != nil {
			return fmt.Errorf("create tree: %w", err)
		}

		orientation := &domain.Orientation{TreeID: tree.ID}

		for _, sk := range ordered {
			var parentID *uuid.UUID
			if sk.Parent != "" {
				id := skillIDs[sk.Parent]
				parentID = &id
			}
			if _, err := s.skills.CreateWithID(txCtx, &domain.Skill{
				ID:            skillIDs[sk.Name],
				UserID:        ownerID,
				TreeID:        tree.ID,
				Name:          sk.Name,
				BackgroundURL: sk.BackgroundURL,
				ParentSkillID: parentID,
			}); err != nil {
				return fmt.Errorf("create skill %q: %w", sk.Name, err)
			}
			orientation.AddSkillLocation(skillIDs[sk.Name], sk.X, sk.Y)
		}

		for _, a := range p.Achievements {
			prereqs := make([]uuid.UUID, 0, len(a.Prerequisites))
			for _, pre := range a.Prerequisites {
				prereqs = append(prereqs, achievementIDs[pre])
			}
			if _, err := s.achievements.CreateWithID(txCtx, &domain.Achievement{
				ID:            achievementIDs[a.Title],
				UserID:        ownerID,
				TreeID:        tree.ID,
				Title:         a.Title,
				BackgroundURL: a.BackgroundURL,
				Description:   a.Description,
				Prerequisites: prereqs,
			}); err != nil {
				return fmt.Errorf("create achievement %q: %w", a.Title, err)
			}
			orientation.AddAchievementLocation(achievementIDs[a.Title], a.X, a.Y)
		}

		if _, err := s.orientations.Create(txCtx, orientation); err != nil {
			return fmt.Errorf("create orientation: %w", err)
		}

		return nil
	})
}

// orderPresetSkills puts parents before children so inserts satisfy the
// parent foreign key. Validation already guaranteed the forest is acyclic.
func orderPresetSkills(skills []PresetSkill) []PresetSkill {
	byParent := make(map[string][]PresetSkill)
	var ordered []PresetSkill

	for _, sk := range skills {
		if sk.Parent == "" {
			ordered = append(ordered, sk)
		} else {
			byParent[sk.Parent] = append(byParent[sk.Parent], sk)
		}
	}
	for i := 0; i < len(ordered); i++ {
		ordered = append(ordered, byParent[ordered[i].Name]...)
	}

	return ordered
}
