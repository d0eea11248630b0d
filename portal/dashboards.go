package portal

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/user"
)

// NewDashboards returns the four role view roots backed by the account service.
func NewDashboards(svc user.Service) []Dashboard {
	return []Dashboard{
		adminDashboard{svc: svc},
		teacherDashboard{svc: svc},
		studentDashboard{},
		parentDashboard{},
	}
}

type adminDashboard struct {
	svc user.Service
}

func (adminDashboard) Role() string { return user.RoleAdmin }

func (d adminDashboard) Render(ctx context.Context, w io.Writer, sess auth.UserSession, _ func()) error {
	writeHeader(w, "Admin", sess)

	users, err := d.svc.Query(ctx, nil, nil)
	if err != nil {
		return errors.Wrap(err, "querying accounts")
	}

	counts := make(map[string]int, len(user.AllRoles))
	var held int
	for _, usr := range users {
		counts[usr.Role]++
		if usr.Status == user.StatusHold {
			held++
		}
	}
	fmt.Fprintf(w, "Accounts: %d total, %d on hold\n", len(users), held)
	roles := append([]user.Role(nil), user.Roles...)
	sort.Slice(roles, func(i, j int) bool {
		return user.RolePriority(roles[i].Value) > user.RolePriority(roles[j].Value)
	})
	for _, role := range roles {
		fmt.Fprintf(w, "  %-8s %d\n", role.Name, counts[role.Value])
	}
	return nil
}

type teacherDashboard struct {
	svc user.Service
}

func (teacherDashboard) Role() string { return user.RoleTeacher }

func (d teacherDashboard) Render(ctx context.Context, w io.Writer, sess auth.UserSession, _ func()) error {
	writeHeader(w, "Teacher", sess)

	students, err := d.svc.Query(ctx, &user.QueryFilter{
		Roles:  []string{user.RoleStudent},
		Status: user.StatusActive,
	}, nil)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	fmt.Fprintf(w, "Active students: %d\n", len(students))
	for _, s := range students {
		fmt.Fprintf(w, "  %s <%s>\n", s.Name, s.Email)
	}
	return nil
}

type studentDashboard struct{}

func (studentDashboard) Role() string { return user.RoleStudent }

func (studentDashboard) Render(_ context.Context, w io.Writer, sess auth.UserSession, _ func()) error {
	writeHeader(w, "Student", sess)
	fmt.Fprintf(w, "Enrolled since %s.\n", sess.CreatedAt.Format("Jan 2, 2006"))
	return nil
}

type parentDashboard struct{}

func (parentDashboard) Role() string { return user.RoleParent }

func (parentDashboard) Render(_ context.Context, w io.Writer, sess auth.UserSession, _ func()) error {
	writeHeader(w, "Parent", sess)
	fmt.Fprintf(w, "Registered since %s.\n", sess.CreatedAt.Format("Jan 2, 2006"))
	return nil
}

func writeHeader(w io.Writer, portal string, sess auth.UserSession) {
	fmt.Fprintf(w, "== %s Portal ==\nSigned in as %s <%s>\n", portal, sess.Name, sess.Email)
}
