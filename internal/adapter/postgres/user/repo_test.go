package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bproj/skilltree-backend/internal/adapter/postgres/testhelper"
	"github.com/bproj/skilltree-backend/internal/adapter/postgres/user"
	"github.com/bproj/skilltree-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

// ---------------------------------------------------------------------------
// Create + GetByID
// ---------------------------------------------------------------------------

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{
		DisplayName:       "maria",
		ProfilePictureURL: "https://cdn.skilltree.com/avatars/maria.png",
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Fatal("Create: expected a generated id")
	}
	if created.DisplayName != "maria" {
		t.Errorf("DisplayName mismatch: got %s, want maria", created.DisplayName)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByID ID mismatch: got %s, want %s", got.ID, created.ID)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// ExistsByID
// ---------------------------------------------------------------------------

func TestRepo_ExistsByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)

	exists, err := repo.ExistsByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("ExistsByID: unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected seeded user to exist")
	}

	exists, err = repo.ExistsByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ExistsByID[missing]: unexpected error: %v", err)
	}
	if exists {
		t.Error("expected random id to not exist")
	}
}

// ---------------------------------------------------------------------------
// GetByIDs
// ---------------------------------------------------------------------------

func TestRepo_GetByIDs_MissingIDsAreAbsent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	a := testhelper.SeedUser(t, pool)
	b := testhelper.SeedUser(t, pool)

	got, err := repo.GetByIDs(ctx, []uuid.UUID{a.ID, uuid.New(), b.ID})
	if err != nil {
		t.Fatalf("GetByIDs: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// GetByDisplayName
// ---------------------------------------------------------------------------

func TestRepo_GetByDisplayName_OldestWins(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	name := "dup-" + uuid.New().String()[:8]
	first, err := repo.Create(ctx, &domain.User{DisplayName: name})
	if err != nil {
		t.Fatalf("Create[1]: unexpected error: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{DisplayName: name}); err != nil {
		t.Fatalf("Create[2]: unexpected error: %v", err)
	}

	got, err := repo.GetByDisplayName(ctx, name)
	if err != nil {
		t.Fatalf("GetByDisplayName: unexpected error: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("expected oldest account %s, got %s", first.ID, got.ID)
	}
}

func TestRepo_GetByDisplayName_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByDisplayName(context.Background(), "nobody-"+uuid.New().String())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}
