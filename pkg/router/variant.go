package router

import "github.com/mesh-intelligence/detour/pkg/types"

// Variant pairs the extract and embed functions for one case of a route sum
// type. Extract returns the wrapped inner route when the outer route holds
// this case; Embed wraps an inner route back into the outer type.
//
// For a sealed route type with a case wrapping a child route tree:
//
//	type AppRoute interface{ types.Route; isAppRoute() }
//	type Todos struct{ Route TodoRoute }
//
// the pair is:
//
//	todos := router.Variant{
//		Extract: func(r types.Route) (types.Route, bool) {
//			v, ok := r.(Todos)
//			if !ok {
//				return nil, false
//			}
//			return v.Route, true
//		},
//		Embed: func(r types.Route) types.Route {
//			return Todos{Route: r.(TodoRoute)}
//		},
//	}
//
// Variants compose with Then to address nested cases; no reflection is
// involved anywhere.
type Variant struct {
	Extract func(types.Route) (types.Route, bool)
	Embed   func(types.Route) types.Route
}

// Then composes v with a variant of the inner route type, yielding the pair
// for the nested path: Extract unwraps through both layers, Embed wraps
// through both in reverse.
func (v Variant) Then(inner Variant) Variant {
	return Variant{
		Extract: func(r types.Route) (types.Route, bool) {
			mid, ok := v.Extract(r)
			if !ok {
				return nil, false
			}
			return inner.Extract(mid)
		},
		Embed: func(r types.Route) types.Route {
			return v.Embed(inner.Embed(r))
		},
	}
}
