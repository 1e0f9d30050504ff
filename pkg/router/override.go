package router

import (
	"context"

	"github.com/mesh-intelligence/detour/pkg/types"
)

// Producer yields the result of a matched override: a value to encode
// through the router's codec, or an error to surface to the caller in place
// of an execution error.
type Producer func(ctx context.Context, route types.Route) (any, error)

// Value builds a producer returning a fixed success value.
func Value(v any) Producer {
	return func(context.Context, types.Route) (any, error) {
		return v, nil
	}
}

// Failure builds a producer returning a fixed error.
func Failure(err error) Producer {
	return func(context.Context, types.Route) (any, error) {
		return nil, err
	}
}

// FromRoute builds a producer computing its result from the full route
// value, so an override can branch on the exact arguments of the call.
func FromRoute(fn func(ctx context.Context, route types.Route) (any, error)) Producer {
	return Producer(fn)
}

// FromDescriptor builds a producer computing its result from the derived
// descriptor, for table- or kind-level overrides that do not need the
// original route type.
func FromDescriptor(fn func(ctx context.Context, d types.Descriptor) (any, error)) Producer {
	return func(ctx context.Context, route types.Route) (any, error) {
		d, err := route.Descriptor(ctx)
		if err != nil {
			return nil, err
		}
		return fn(ctx, d)
	}
}

// Override is an immutable predicate + producer pair. Overrides are compared
// only by insertion position, never by value.
type Override struct {
	match   func(ctx context.Context, route types.Route) (bool, error)
	produce Producer
}

// OverrideRoute matches routes whose descriptor equals the target route's
// descriptor, field by field (the Custom handler excluded).
func OverrideRoute(target types.Route, produce Producer) Override {
	return Override{
		match: func(ctx context.Context, route types.Route) (bool, error) {
			want, err := target.Descriptor(ctx)
			if err != nil {
				return false, err
			}
			got, err := route.Descriptor(ctx)
			if err != nil {
				return false, err
			}
			return got.Equal(want), nil
		},
		produce: produce,
	}
}

// OverrideKind matches routes by operation kind. An empty table matches the
// kind on any table.
func OverrideKind(kind types.Kind, table string, produce Producer) Override {
	return overrideDescriptor(func(d types.Descriptor) bool {
		return d.Kind == kind && (table == "" || d.Table == table)
	}, produce)
}

// OverrideID matches routes whose descriptor carries the given route-author
// identifier. An empty table matches the identifier on any table.
func OverrideID(id, table string, produce Producer) Override {
	return overrideDescriptor(func(d types.Descriptor) bool {
		return d.ID == id && (table == "" || d.Table == table)
	}, produce)
}

// OverrideVariant matches any route that unwraps to the given variant,
// regardless of the variant's own field values. Matching always operates on
// the fully embedded route, so overrides registered here intercept calls no
// matter how deep in a Scope chain they originate.
func OverrideVariant(v Variant, produce Producer) Override {
	return Override{
		match: func(_ context.Context, route types.Route) (bool, error) {
			_, ok := v.Extract(route)
			return ok, nil
		},
		produce: produce,
	}
}

func overrideDescriptor(pred func(types.Descriptor) bool, produce Producer) Override {
	return Override{
		match: func(ctx context.Context, route types.Route) (bool, error) {
			d, err := route.Descriptor(ctx)
			if err != nil {
				return false, err
			}
			return pred(d), nil
		},
		produce: produce,
	}
}
