package router

import (
	"context"
	"errors"
	"sync"

	"github.com/mesh-intelligence/detour/pkg/types"
)

// Test route tree:
//
//	rootRoute
//	  api(appRoute)
//	    todos(todoRoute)      fetchTodos | deleteTodo | insertTodo
//	    alsoTodos(todoRoute)  structurally identical sibling variant
//
// The tree exercises nested variant matching and scoped dispatch.

type todoRoute interface {
	types.Route
	isTodoRoute()
}

type fetchTodos struct {
	Done *bool
}

func (fetchTodos) isTodoRoute() {}

func (r fetchTodos) Descriptor(context.Context) (types.Descriptor, error) {
	var opts []types.Option
	if r.Done != nil {
		opts = append(opts, types.WithFilters(types.Eq("done", *r.Done)))
	}
	return types.FetchMany("todos", opts...), nil
}

type deleteTodo struct {
	ID int
}

func (deleteTodo) isTodoRoute() {}

func (r deleteTodo) Descriptor(context.Context) (types.Descriptor, error) {
	return types.Delete("todos", types.WithFilters(types.Eq("id", r.ID))), nil
}

type insertTodo struct {
	Title string
}

func (insertTodo) isTodoRoute() {}

func (r insertTodo) Descriptor(context.Context) (types.Descriptor, error) {
	return types.Insert("todos", map[string]any{"title": r.Title})
}

type updateTodo struct {
	ID    int
	Title string
}

func (updateTodo) isTodoRoute() {}

func (r updateTodo) Descriptor(context.Context) (types.Descriptor, error) {
	return types.Update("todos",
		map[string]any{"title": r.Title},
		types.WithFilters(types.Eq("id", r.ID)))
}

// brokenRoute fails descriptor conversion.
type brokenRoute struct{}

func (brokenRoute) isTodoRoute() {}

func (brokenRoute) Descriptor(context.Context) (types.Descriptor, error) {
	return types.Descriptor{}, errors.New("conversion failed")
}

// identifiedRoute carries a route-author identifier.
type identifiedRoute struct {
	id string
}

func (r identifiedRoute) Descriptor(context.Context) (types.Descriptor, error) {
	return types.FetchOne("sessions", types.WithID(r.id)), nil
}

type appRoute interface {
	types.Route
	isAppRoute()
}

type todosCase struct {
	route todoRoute
}

func (todosCase) isAppRoute() {}

func (c todosCase) Descriptor(ctx context.Context) (types.Descriptor, error) {
	return c.route.Descriptor(ctx)
}

type alsoTodosCase struct {
	route todoRoute
}

func (alsoTodosCase) isAppRoute() {}

func (c alsoTodosCase) Descriptor(ctx context.Context) (types.Descriptor, error) {
	return c.route.Descriptor(ctx)
}

type apiCase struct {
	route appRoute
}

func (c apiCase) Descriptor(ctx context.Context) (types.Descriptor, error) {
	return c.route.Descriptor(ctx)
}

var todosVariant = Variant{
	Extract: func(r types.Route) (types.Route, bool) {
		c, ok := r.(todosCase)
		if !ok {
			return nil, false
		}
		return c.route, true
	},
	Embed: func(r types.Route) types.Route {
		return todosCase{route: r.(todoRoute)}
	},
}

var alsoTodosVariant = Variant{
	Extract: func(r types.Route) (types.Route, bool) {
		c, ok := r.(alsoTodosCase)
		if !ok {
			return nil, false
		}
		return c.route, true
	},
	Embed: func(r types.Route) types.Route {
		return alsoTodosCase{route: r.(todoRoute)}
	},
}

var apiVariant = Variant{
	Extract: func(r types.Route) (types.Route, bool) {
		c, ok := r.(apiCase)
		if !ok {
			return nil, false
		}
		return c.route, true
	},
	Embed: func(r types.Route) types.Route {
		return apiCase{route: r.(appRoute)}
	},
}

var fetchTodosVariant = Variant{
	Extract: func(r types.Route) (types.Route, bool) {
		c, ok := r.(fetchTodos)
		if !ok {
			return nil, false
		}
		return c, true
	},
	Embed: func(r types.Route) types.Route {
		return r.(fetchTodos)
	},
}

// recordingExecutor records every descriptor it receives and returns a
// canned response.
type recordingExecutor struct {
	mu       sync.Mutex
	calls    []types.Descriptor
	response []byte
	err      error
}

func (e *recordingExecutor) Execute(_ context.Context, d types.Descriptor) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, d)
	if e.err != nil {
		return nil, e.err
	}
	return e.response, nil
}

func (e *recordingExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func boolPtr(b bool) *bool {
	return &b
}
