package orientation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

func TestMoveNode_Skill(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	treeID := uuid.New()
	skillID := uuid.New()
	otherSkillID := uuid.New()

	m := serviceMocks{
		trees: ownedTreeMock(userID, treeID),
		orientations: &orientationRepoMock{
			GetByTreeIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Orientation, error) {
				return &domain.Orientation{TreeID: treeID, SkillLocations: []domain.SkillLocation{
					{SkillID: skillID, X: 1, Y: 1},
					{SkillID: otherSkillID, X: 5, Y: 5},
				}}, nil
			},
			ReplaceLocationsFunc: passthroughReplace(),
		},
	}
	svc := newTestService(t, m)
	ctx := ctxutil.WithActorID(context.Background(), userID)

	o, err := svc.MoveNode(ctx, MoveNodeInput{
		TreeID: treeID,
		Kind:   domain.NodeKindSkill,
		NodeID: skillID,
		X:      42,
		Y:      17,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, sl := range o.SkillLocations {
		switch sl.SkillID {
		case skillID:
			if sl.X != 42 || sl.Y != 17 {
				t.Errorf("moved skill: got %v,%v", sl.X, sl.Y)
			}
		case otherSkillID:
			if sl.X != 5 || sl.Y != 5 {
				t.Errorf("untouched skill moved: got %v,%v", sl.X, sl.Y)
			}
		}
	}
}

func TestMoveNode_Achievement(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	treeID := uuid.New()
	achievementID := uuid.New()

	m := serviceMocks{
		trees: ownedTreeMock(userID, treeID),
		orientations: &orientationRepoMock{
			GetByTreeIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Orientation, error) {
				return &domain.Orientation{TreeID: treeID, AchievementLocations: []domain.AchievementLocation{
					{AchievementID: achievementID, X: 1, Y: 1},
				}}, nil
			},
			ReplaceLocationsFunc: passthroughReplace(),
		},
	}
	svc := newTestService(t, m)
	ctx := ctxutil.WithActorID(context.Background(), userID)

	o, err := svc.MoveNode(ctx, MoveNodeInput{
		TreeID: treeID,
		Kind:   domain.NodeKindAchievement,
		NodeID: achievementID,
		X:      9,
		Y:      3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.AchievementLocations[0].X != 9 || o.AchievementLocations[0].Y != 3 {
		t.Errorf("moved achievement: got %+v", o.AchievementLocations[0])
	}
}

func TestMoveNode_MissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	treeID := uuid.New()

	m := serviceMocks{
		trees: ownedTreeMock(userID, treeID),
		orientations: &orientationRepoMock{
			GetByTreeIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Orientation, error) {
				return &domain.Orientation{TreeID: treeID}, nil
			},
		},
	}
	svc := newTestService(t, m)
	ctx := ctxutil.WithActorID(context.Background(), userID)

	_, err := svc.MoveNode(ctx, MoveNodeInput{
		TreeID: treeID,
		Kind:   domain.NodeKindSkill,
		NodeID: uuid.New(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMoveNode_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input MoveNodeInput
	}{
		{"missing tree", MoveNodeInput{Kind: domain.NodeKindSkill, NodeID: uuid.New()}},
		{"missing node", MoveNodeInput{TreeID: uuid.New(), Kind: domain.NodeKindSkill}},
		{"unknown kind", MoveNodeInput{TreeID: uuid.New(), Kind: domain.NodeKind("WIDGET"), NodeID: uuid.New()}},
		{"negative coordinates", MoveNodeInput{TreeID: uuid.New(), Kind: domain.NodeKindSkill, NodeID: uuid.New(), X: -2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, serviceMocks{})
			ctx := ctxutil.WithActorID(context.Background(), uuid.New())

			_, err := svc.MoveNode(ctx, tc.input)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestGetOrientation_ForeignTreeIsNotFound(t *testing.T) {
	t.Parallel()

	treeID := uuid.New()
	m := serviceMocks{trees: ownedTreeMock(uuid.New(), treeID)}
	svc := newTestService(t, m)
	ctx := ctxutil.WithActorID(context.Background(), uuid.New())

	_, err := svc.GetOrientation(ctx, treeID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
