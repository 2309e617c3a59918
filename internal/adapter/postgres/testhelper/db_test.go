package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	user := SeedUser(t, pool)

	var name string
	err := pool.QueryRow(
		context.Background(),
		`SELECT display_name FROM users WHERE id = $1`,
		user.ID,
	).Scan(&name)
	if err != nil {
		t.Fatalf("expected user in DB, got error: %v", err)
	}

	if name != user.DisplayName {
		t.Fatalf("expected display name %q, got %q", user.DisplayName, name)
	}
}
