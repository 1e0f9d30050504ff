package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/detour/pkg/types"
)

// Router dispatches routes through an ordered override list with fallback to
// an injected executor.
//
// Thread-safety model:
//   - AddOverride / ClearOverrides: safe from any goroutine
//   - Call / Exec: safe from any goroutine; the override list is snapshotted
//     under the mutex and predicates/producers run outside it, so a
//     long-running or recursive override cannot block registration
//
// The codec and executor are immutable after construction and shared across
// concurrent calls without further synchronization.
type Router struct {
	mu        sync.Mutex
	overrides []Override // front = most recently added

	codec types.Codec
	exec  types.Executor
	log   *slog.Logger
}

// RouterOption configures a Router at construction.
type RouterOption func(*Router)

// WithCodec replaces the default JSON codec.
func WithCodec(c types.Codec) RouterOption {
	return func(r *Router) {
		r.codec = c
	}
}

// WithLogger sets the logger used for swallowed matching diagnostics.
func WithLogger(log *slog.Logger) RouterOption {
	return func(r *Router) {
		r.log = log
	}
}

// New creates a Router around the given executor.
func New(exec types.Executor, opts ...RouterOption) *Router {
	r := &Router{
		codec: types.DefaultCodec,
		exec:  exec,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddOverride inserts an override at the front of the list. When several
// overrides match the same route, the most recently added one wins, so test
// code can progressively narrow earlier broad overrides without removing
// them.
func (r *Router) AddOverride(o Override) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = append([]Override{o}, r.overrides...)
}

// ClearOverrides removes all registered overrides.
func (r *Router) ClearOverrides() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = nil
}

// Call resolves one route and decodes the response into out. A nil out
// discards the payload after dispatch. Decode failures are reported as
// *types.DecodeError, distinct from executor and producer errors, which
// propagate verbatim.
func (r *Router) Call(ctx context.Context, route types.Route, out any) error {
	raw, err := r.dispatch(ctx, route)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := r.codec.Decode(raw, out); err != nil {
		return &types.DecodeError{Err: err}
	}
	return nil
}

// Exec resolves one route and discards the response payload. A matching
// override still short-circuits the executor, so a void override such as
// "pretend the delete succeeded" never touches the backend.
func (r *Router) Exec(ctx context.Context, route types.Route) error {
	_, err := r.dispatch(ctx, route)
	return err
}

// dispatch scans overrides newest-first, producing from the first match, and
// falls back to the executor otherwise. For a single call the suspension
// points run strictly in order: predicate, producer, executor, encode.
func (r *Router) dispatch(ctx context.Context, route types.Route) ([]byte, error) {
	r.mu.Lock()
	overrides := make([]Override, len(r.overrides))
	copy(overrides, r.overrides)
	r.mu.Unlock()

	for _, o := range overrides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := o.match(ctx, route)
		if err != nil {
			// A broken override must not poison dispatch of unrelated
			// routes; skip it and keep scanning.
			r.log.WarnContext(ctx, "override match failed, skipping", "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := o.produce(ctx, route)
		if err != nil {
			return nil, err
		}
		raw, err := r.codec.Encode(result)
		if err != nil {
			return nil, fmt.Errorf("encode override result: %w", err)
		}
		return raw, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := route.Descriptor(ctx)
	if err != nil {
		return nil, err
	}
	return r.exec(ctx, d)
}
