package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

func TestGetSkill(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sk := &domain.Skill{ID: uuid.New(), UserID: userID, Name: "Chords"}
	store := newSkillStore(sk)
	svc := newTestService(t, serviceMocks{skills: store.repo()})

	got, err := svc.GetSkill(ctxutil.WithActorID(context.Background(), userID), sk.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != sk.ID {
		t.Errorf("skill: got %v, want %v", got.ID, sk.ID)
	}

	_, err = svc.GetSkill(ctxutil.WithActorID(context.Background(), uuid.New()), sk.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign viewer: expected ErrNotFound, got %v", err)
	}
}

func TestListSkills(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	treeID := uuid.New()

	var gotFilter domain.SkillFilter
	var gotSort domain.SkillSortMode
	m := serviceMocks{
		skills: &skillRepoMock{
			ListFunc: func(ctx context.Context, uid uuid.UUID, filter domain.SkillFilter, sort domain.SkillSortMode) ([]*domain.Skill, error) {
				gotFilter = filter
				gotSort = sort
				return []*domain.Skill{}, nil
			},
		},
	}
	svc := newTestService(t, m)
	ctx := ctxutil.WithActorID(context.Background(), userID)

	_, err := svc.ListSkills(ctx, ListSkillsInput{
		TreeID: &treeID,
		Root:   ptr(true),
		Sort:   "TIME_SPENT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFilter.TreeID == nil || *gotFilter.TreeID != treeID {
		t.Errorf("filter tree: got %v", gotFilter.TreeID)
	}
	if gotFilter.Root == nil || !*gotFilter.Root {
		t.Errorf("filter root: got %v", gotFilter.Root)
	}
	if gotSort != domain.SkillSortTimeSpent {
		t.Errorf("sort: got %v", gotSort)
	}
}

func TestListSkills_Validation(t *testing.T) {
	t.Parallel()

	parentID := uuid.New()
	tests := []struct {
		name  string
		input ListSkillsInput
	}{
		{"parent and root together", ListSkillsInput{ParentSkillID: &parentID, Root: ptr(false)}},
		{"unknown sort", ListSkillsInput{Sort: "alphabetical"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, serviceMocks{})
			ctx := ctxutil.WithActorID(context.Background(), uuid.New())

			_, err := svc.ListSkills(ctx, tc.input)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
