// Package router implements rule-based interception and fallback execution
// for data operations described as Routes.
//
// A Router holds an ordered list of overrides and an injected executor.
// Calls scan the overrides newest-first; the first match produces the result
// and the executor is never touched. With no match, the route's Descriptor
// is handed to the executor. Either way the response passes through the same
// codec, so override and live paths are indistinguishable to the caller:
//
//	r := router.New(backend.Execute)
//	r.AddOverride(router.OverrideKind(types.KindFetchMany, "todos",
//		router.Value([]Todo{{Title: "stub"}})))
//
//	var todos []Todo
//	err := r.Call(ctx, FetchTodos{}, &todos)
//
// Overrides exist for test doubles, preview fixtures, and request tracing;
// production code normally runs with an empty override list.
package router
