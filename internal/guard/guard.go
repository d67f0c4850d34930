// Package guard decides whether a page may load for the current session.
//
// Decisions are pure (Check*); the navigation that follows a refusal is done by
// a caller-supplied Navigator (Require*, Redirect*). Protected pages run exactly
// one guard before issuing any data request and stop when it refuses.
package guard

import (
	"context"

	"github.com/realestate/rems-frontend/internal/models"
)

// Navigation targets.
const (
	HomePath            = "/"
	LoginPath           = "/auth/login"
	AgentDashboardPath  = "/agent/dashboard"
	ClientDashboardPath = "/client/dashboard"
)

// SessionReader is the part of the session store the gate reads.
type SessionReader interface {
	IsAuthenticated(ctx context.Context) bool
	Role(ctx context.Context) models.Role
}

// Navigator performs the navigation side effect of a refused guard.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Decision is the outcome of a guard check. Redirect is set when Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
	Reason   string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(target, reason string) Decision {
	return Decision{Redirect: target, Reason: reason}
}

// Gate derives authentication and role predicates from a session.
type Gate struct {
	session SessionReader
}

func New(s SessionReader) *Gate { return &Gate{session: s} }

// CheckAuth allows any authenticated session; others go to the login page.
func (g *Gate) CheckAuth(ctx context.Context) Decision {
	if !g.session.IsAuthenticated(ctx) {
		return deny(LoginPath, "not authenticated")
	}
	return allow()
}

// CheckAgent allows authenticated agents; others go home.
func (g *Gate) CheckAgent(ctx context.Context) Decision {
	return g.checkRole(ctx, models.RoleAgent)
}

// CheckClient allows authenticated clients; others go home.
func (g *Gate) CheckClient(ctx context.Context) Decision {
	return g.checkRole(ctx, models.RoleClient)
}

func (g *Gate) checkRole(ctx context.Context, want models.Role) Decision {
	if !g.session.IsAuthenticated(ctx) {
		return deny(HomePath, "not authenticated")
	}
	if g.session.Role(ctx) != want {
		return deny(HomePath, "role "+string(want)+" required")
	}
	return allow()
}

// CheckGuest allows only unauthenticated sessions (login/register pages);
// authenticated ones are sent to their dashboard.
func (g *Gate) CheckGuest(ctx context.Context) Decision {
	if g.session.IsAuthenticated(ctx) {
		return deny(g.DashboardFor(ctx), "already authenticated")
	}
	return allow()
}

// DashboardFor returns the landing page matching the session role.
func (g *Gate) DashboardFor(ctx context.Context) string {
	if !g.session.IsAuthenticated(ctx) {
		return HomePath
	}
	switch g.session.Role(ctx) {
	case models.RoleAgent:
		return AgentDashboardPath
	case models.RoleClient:
		return ClientDashboardPath
	}
	return HomePath
}

// Enforce navigates when d refuses and reports whether the page may proceed.
func Enforce(d Decision, nav Navigator) bool {
	if d.Allowed {
		return true
	}
	if nav != nil {
		nav.Navigate(d.Redirect)
	}
	return false
}

func (g *Gate) RequireAuth(ctx context.Context, nav Navigator) bool {
	return Enforce(g.CheckAuth(ctx), nav)
}

func (g *Gate) RequireAgent(ctx context.Context, nav Navigator) bool {
	return Enforce(g.CheckAgent(ctx), nav)
}

func (g *Gate) RequireClient(ctx context.Context, nav Navigator) bool {
	return Enforce(g.CheckClient(ctx), nav)
}

// RedirectByRole navigates to the dashboard matching the session role.
func (g *Gate) RedirectByRole(ctx context.Context, nav Navigator) {
	if nav != nil {
		nav.Navigate(g.DashboardFor(ctx))
	}
}

// RedirectIfAuthenticated sends an authenticated session to its dashboard and
// reports whether it did.
func (g *Gate) RedirectIfAuthenticated(ctx context.Context, nav Navigator) bool {
	return !Enforce(g.CheckGuest(ctx), nav)
}
