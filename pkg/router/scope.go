package router

import (
	"context"

	"github.com/mesh-intelligence/detour/pkg/types"
)

// Scope is a read-only projection of a Router restricted to one variant of a
// nested route sum type. It accepts the inner route type's own cases,
// embeds them into the outer route before delegating, and deliberately does
// not expose override mutation: all overrides are registered on the Router
// and resolved against the fully embedded route regardless of call depth.
//
// A Scope is stateless; it merely composes a variant accessor with a
// reference to its Router, so scopes are cheap to create and safe to share.
type Scope struct {
	router  *Router
	variant Variant
}

// Scope returns a projection of the router restricted to the given variant.
func (r *Router) Scope(v Variant) *Scope {
	return &Scope{router: r, variant: v}
}

// Scope narrows further into a variant of the inner route type, for route
// trees nested more than one level deep.
func (s *Scope) Scope(v Variant) *Scope {
	return &Scope{router: s.router, variant: s.variant.Then(v)}
}

// Call embeds the inner route into the outer route type and dispatches it
// through the full router, decoding the response into out.
func (s *Scope) Call(ctx context.Context, route types.Route, out any) error {
	return s.router.Call(ctx, s.variant.Embed(route), out)
}

// Exec embeds and dispatches the inner route, discarding the response.
func (s *Scope) Exec(ctx context.Context, route types.Route) error {
	return s.router.Exec(ctx, s.variant.Embed(route))
}
