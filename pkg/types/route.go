package types

import "context"

// Route is any value that can produce exactly one Descriptor. Conversion
// must be a pure function of the Route's own fields and may fail or suspend.
//
// A Route is often one case of a sealed sum type, and a parent sum type may
// wrap a child route type as one of its variants; see the router package for
// scoped dispatch into such nested route trees.
type Route interface {
	Descriptor(ctx context.Context) (Descriptor, error)
}

// Executor performs the real operation described by a Descriptor and returns
// the raw serialized response. It is supplied once at router construction
// and never mutated; retry policy, if any, belongs to the executor itself.
type Executor func(ctx context.Context, d Descriptor) ([]byte, error)
