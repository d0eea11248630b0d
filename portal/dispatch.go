// Package portal maps an authenticated session to exactly one view root.
package portal

import (
	"context"
	"io"

	"github.com/darasahq/darasa/core/auth"
)

type (
	// View is anything the portal can render.
	View interface {
		Name() string
		Render(ctx context.Context, w io.Writer) error
	}

	// Dashboard is a role's view root. It receives the session read-only
	// plus a logout callback; everything downstream is its own business.
	Dashboard interface {
		Role() string
		Render(ctx context.Context, w io.Writer, sess auth.UserSession, onLogout func()) error
	}

	// Dispatcher selects a view for the current session. The mapping is a
	// pure function of its inputs; it holds no session state of its own.
	Dispatcher struct {
		dashboards map[string]Dashboard
		onLogout   func()
	}
)

func NewDispatcher(onLogout func(), dashboards ...Dashboard) *Dispatcher {
	d := &Dispatcher{
		dashboards: make(map[string]Dashboard, len(dashboards)),
		onLogout:   onLogout,
	}
	for _, dash := range dashboards {
		d.dashboards[dash.Role()] = dash
	}
	return d
}

// Resolve is total: every (session, loading) combination yields a view.
// A session with an unrecognized role is treated as no session.
func (d *Dispatcher) Resolve(sess *auth.UserSession, loading bool) View {
	if loading {
		return loadingView{}
	}
	if sess == nil {
		return loginView{}
	}
	dash, ok := d.dashboards[sess.Role]
	if !ok {
		return loginView{}
	}
	return boundDashboard{dash: dash, sess: *sess, onLogout: d.onLogout}
}

// Guard applies an explicit role allow-list on top of Resolve. No session
// (or an unrecognized role) yields the access-denied view; a recognized
// role missing from a non-empty allow-list yields the unauthorized view
// naming the required roles.
func (d *Dispatcher) Guard(sess *auth.UserSession, allowed ...string) View {
	if sess == nil {
		return accessDeniedView{}
	}
	dash, ok := d.dashboards[sess.Role]
	if !ok {
		return accessDeniedView{}
	}
	if len(allowed) > 0 {
		var match bool
		for _, role := range allowed {
			if sess.Role == role {
				match = true
				break
			}
		}
		if !match {
			return unauthorizedView{required: allowed}
		}
	}
	return boundDashboard{dash: dash, sess: *sess, onLogout: d.onLogout}
}

// boundDashboard adapts a Dashboard plus its inputs to the View interface.
type boundDashboard struct {
	dash     Dashboard
	sess     auth.UserSession
	onLogout func()
}

func (b boundDashboard) Name() string { return b.dash.Role() + "-dashboard" }

func (b boundDashboard) Render(ctx context.Context, w io.Writer) error {
	return b.dash.Render(ctx, w, b.sess, b.onLogout)
}
