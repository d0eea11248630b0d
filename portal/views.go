package portal

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type loadingView struct{}

func (loadingView) Name() string { return "loading" }

func (loadingView) Render(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, "Loading...")
	return err
}

type loginView struct{}

func (loginView) Name() string { return "login" }

func (loginView) Render(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, "Please sign in with your email and password.")
	return err
}

// accessDeniedView is shown when there is no session at all.
type accessDeniedView struct{}

func (accessDeniedView) Name() string { return "access-denied" }

func (accessDeniedView) Render(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, "Access Denied: please sign in.")
	return err
}

// unauthorizedView is shown when a signed-in user's role is not in the
// allow-list; it names the required roles.
type unauthorizedView struct {
	required []string
}

func (unauthorizedView) Name() string { return "unauthorized" }

func (v unauthorizedView) Render(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Unauthorized: requires one of the following roles: %s.\n", strings.Join(v.required, ", "))
	return err
}
