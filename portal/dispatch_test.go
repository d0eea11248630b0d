package portal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	"github.com/darasahq/darasa/storage/database/dummydb"
	testutil "github.com/darasahq/darasa/tests"
)

func testConfig() *core.Config {
	return &core.Config{AppName: "Darasa", SecretKey: "s3cr3t"}
}

func setup(t *testing.T) (*Dispatcher, user.Repository, *int) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewUserRepository(db)

	conf := testConfig()
	svc := user.NewServiceMock(repo, emailsvc.NewConsoleServiceMock(conf), conf)

	logouts := new(int)
	d := NewDispatcher(func() { *logouts++ }, NewDashboards(svc)...)
	return d, repo, logouts
}

func sessionFor(role string) *auth.UserSession {
	return &auth.UserSession{
		ID:     "abc",
		Email:  role + "@test.cd",
		Name:   "Awe Lol",
		Role:   role,
		Status: user.StatusActive,
	}
}

func TestDispatcher_Resolve(t *testing.T) {
	d, _, _ := setup(t)

	t.Run("loading wins over everything", func(t *testing.T) {
		assert.Equal(t, "loading", d.Resolve(sessionFor(user.RoleAdmin), true).Name())
		assert.Equal(t, "loading", d.Resolve(nil, true).Name())
	})

	t.Run("no session", func(t *testing.T) {
		assert.Equal(t, "login", d.Resolve(nil, false).Name())
	})

	t.Run("every role has a dashboard", func(t *testing.T) {
		for _, role := range user.AllRoles {
			view := d.Resolve(sessionFor(role), false)
			assert.Equal(t, role+"-dashboard", view.Name(), role)
		}
	})

	t.Run("unrecognized role falls back to login", func(t *testing.T) {
		assert.Equal(t, "login", d.Resolve(sessionFor("superuser"), false).Name())
	})
}

func TestDispatcher_Guard(t *testing.T) {
	d, _, _ := setup(t)

	t.Run("no session", func(t *testing.T) {
		assert.Equal(t, "access-denied", d.Guard(nil, user.RoleAdmin).Name())
	})

	t.Run("unrecognized role", func(t *testing.T) {
		assert.Equal(t, "access-denied", d.Guard(sessionFor("superuser"), user.RoleAdmin).Name())
	})

	t.Run("role in allow-list", func(t *testing.T) {
		view := d.Guard(sessionFor(user.RoleTeacher), user.RoleAdmin, user.RoleTeacher)
		assert.Equal(t, "teacher-dashboard", view.Name())
	})

	t.Run("role not in allow-list names required roles", func(t *testing.T) {
		view := d.Guard(sessionFor(user.RoleStudent), user.RoleAdmin, user.RoleTeacher)
		assert.Equal(t, "unauthorized", view.Name())

		var buf bytes.Buffer
		require.NoError(t, view.Render(context.Background(), &buf))
		assert.Contains(t, buf.String(), "admin, teacher")
	})

	t.Run("empty allow-list admits any recognized role", func(t *testing.T) {
		view := d.Guard(sessionFor(user.RoleParent))
		assert.Equal(t, "parent-dashboard", view.Name())
	})
}

func TestDashboards_Render(t *testing.T) {
	ctx := context.Background()
	d, repo, _ := setup(t)

	testutil.CreateUser(t, repo, "Jane Doe", "jane@test.cd", "Str0ng!Pass", user.RoleTeacher, user.StatusActive)
	testutil.CreateUser(t, repo, "John Doe", "john@test.cd", "Str0ng!Pass", user.RoleStudent, user.StatusActive)
	testutil.CreateUser(t, repo, "Held Kid", "held@test.cd", "Str0ng!Pass", user.RoleStudent, user.StatusHold)

	t.Run("admin sees account counts", func(t *testing.T) {
		var buf bytes.Buffer
		view := d.Resolve(sessionFor(user.RoleAdmin), false)
		require.NoError(t, view.Render(ctx, &buf))
		assert.Contains(t, buf.String(), "== Admin Portal ==")
		assert.Contains(t, buf.String(), "Accounts: 3 total, 1 on hold")
		assert.Less(t, strings.Index(buf.String(), "Teacher"), strings.Index(buf.String(), "Parent"))
	})

	t.Run("teacher sees active students only", func(t *testing.T) {
		var buf bytes.Buffer
		view := d.Resolve(sessionFor(user.RoleTeacher), false)
		require.NoError(t, view.Render(ctx, &buf))
		assert.Contains(t, buf.String(), "Active students: 1")
		assert.Contains(t, buf.String(), "John Doe <john@test.cd>")
		assert.NotContains(t, buf.String(), "held@test.cd")
	})

	t.Run("student greeting", func(t *testing.T) {
		var buf bytes.Buffer
		view := d.Resolve(sessionFor(user.RoleStudent), false)
		require.NoError(t, view.Render(ctx, &buf))
		assert.Contains(t, buf.String(), "Signed in as Awe Lol <student@test.cd>")
	})
}
