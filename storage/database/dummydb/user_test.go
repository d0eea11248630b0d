package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func setup(t *testing.T) user.Repository {
	t.Helper()
	db, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return NewUserRepository(db)
}

func TestUserRepository_GetUser(t *testing.T) {
	ctx := context.Background()
	repo := setup(t)

	usr := testutil.CreateUser(t, repo, "Jane Doe", "jane@test.cd", "pwd", user.RoleTeacher, user.StatusActive)
	held := testutil.CreateUser(t, repo, "Held Guy", "held@test.cd", "pwd", user.RoleStudent, user.StatusHold)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
		if err != nil {
			t.Fatalf("GetUser() failed: %v", err)
		}
		if got.Email != usr.Email {
			t.Errorf("GetUser() email = %s, want %s", got.Email, usr.Email)
		}
	})

	t.Run("by email and status", func(t *testing.T) {
		if _, err := repo.GetUser(ctx, user.GetFilter{Email: held.Email, Status: user.StatusActive}); err != user.ErrNotFound {
			t.Errorf("GetUser() error = %v, want %v", err, user.ErrNotFound)
		}
		if _, err := repo.GetUser(ctx, user.GetFilter{Email: held.Email, Status: user.StatusHold}); err != nil {
			t.Errorf("GetUser() failed: %v", err)
		}
	})

	t.Run("empty filter", func(t *testing.T) {
		if _, err := repo.GetUser(ctx, user.GetFilter{}); err != user.ErrNotFound {
			t.Errorf("GetUser() error = %v, want %v", err, user.ErrNotFound)
		}
	})
}

func TestUserRepository_CheckEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Jane Doe", "jane@test.cd", "pwd", user.RoleTeacher, user.StatusActive)

	if err := repo.CheckEmailUniqueness(ctx, "jane@test.cd"); err != user.ErrEmailExists {
		t.Errorf("CheckEmailUniqueness() error = %v, want %v", err, user.ErrEmailExists)
	}
	if err := repo.CheckEmailUniqueness(ctx, "jane@test.cd", usr); err != nil {
		t.Errorf("CheckEmailUniqueness() with exclusion failed: %v", err)
	}
	if err := repo.CheckEmailUniqueness(ctx, "other@test.cd"); err != nil {
		t.Errorf("CheckEmailUniqueness() failed: %v", err)
	}
}

func TestUserRepository_QueryUsers(t *testing.T) {
	ctx := context.Background()
	repo := setup(t)

	day := 24 * time.Hour
	now := time.Now().UTC()
	jane := testutil.CreateUser(t, repo, "Jane Doe", "jane@test.cd", "pwd", user.RoleTeacher, user.StatusActive, now.Add(-3*day))
	john := testutil.CreateUser(t, repo, "John Doe", "john@test.cd", "pwd", user.RoleStudent, user.StatusActive, now.Add(-2*day))
	held := testutil.CreateUser(t, repo, "Held Kid", "held@test.cd", "pwd", user.RoleStudent, user.StatusHold, now.Add(-day))

	ids := func(users []user.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.ID)
		}
		return out
	}
	equal := func(t *testing.T, got, want []string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("ids = %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("ids = %v, want %v", got, want)
			}
		}
	}

	t.Run("no filter is newest first", func(t *testing.T) {
		users, err := repo.QueryUsers(ctx, nil, nil)
		if err != nil {
			t.Fatalf("QueryUsers() failed: %v", err)
		}
		equal(t, ids(users), []string{held.ID, john.ID, jane.ID})
	})

	t.Run("ascending ordering", func(t *testing.T) {
		users, err := repo.QueryUsers(ctx, nil, []core.DBOrdering{{Field: "created_at", Ascending: true}})
		if err != nil {
			t.Fatalf("QueryUsers() failed: %v", err)
		}
		equal(t, ids(users), []string{jane.ID, john.ID, held.ID})
	})

	t.Run("search matches name or email", func(t *testing.T) {
		users, err := repo.QueryUsers(ctx, &user.QueryFilter{Search: "doe"}, nil)
		if err != nil {
			t.Fatalf("QueryUsers() failed: %v", err)
		}
		equal(t, ids(users), []string{john.ID, jane.ID})
	})

	t.Run("roles and status", func(t *testing.T) {
		users, err := repo.QueryUsers(ctx, &user.QueryFilter{Roles: []string{user.RoleStudent}, Status: user.StatusActive}, nil)
		if err != nil {
			t.Fatalf("QueryUsers() failed: %v", err)
		}
		equal(t, ids(users), []string{john.ID})
	})

	t.Run("created range", func(t *testing.T) {
		users, err := repo.QueryUsers(ctx, &user.QueryFilter{
			CreatedFrom: now.Add(-2*day - time.Hour),
			CreatedTo:   now.Add(-day - time.Hour),
		}, nil)
		if err != nil {
			t.Fatalf("QueryUsers() failed: %v", err)
		}
		equal(t, ids(users), []string{john.ID})
	})
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := setup(t)
	usr := testutil.CreateUser(t, repo, "Jane Doe", "jane@test.cd", "pwd", user.RoleTeacher, user.StatusActive)

	t.Run("partial update", func(t *testing.T) {
		hold := user.StatusHold
		updated, err := repo.UpdateUser(ctx, user.User{ID: usr.ID, Name: "Jane B. Doe"}, &hold)
		if err != nil {
			t.Fatalf("UpdateUser() failed: %v", err)
		}
		if updated.Name != "Jane B. Doe" {
			t.Errorf("Name = %s, want Jane B. Doe", updated.Name)
		}
		if updated.Status != user.StatusHold {
			t.Errorf("Status = %s, want %s", updated.Status, user.StatusHold)
		}
		if updated.Email != usr.Email {
			t.Errorf("Email = %s, want untouched %s", updated.Email, usr.Email)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := repo.UpdateUser(ctx, user.User{ID: "nope"}, nil); err != user.ErrNotFound {
			t.Errorf("UpdateUser() error = %v, want %v", err, user.ErrNotFound)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteUsersByID(ctx, usr.ID); err != nil {
			t.Fatalf("DeleteUsersByID() failed: %v", err)
		}
		if _, err := repo.GetUser(ctx, user.GetFilter{ID: usr.ID}); err != user.ErrNotFound {
			t.Errorf("GetUser() error = %v, want %v", err, user.ErrNotFound)
		}
	})
}
