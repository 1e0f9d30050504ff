// Package types defines the Descriptor value describing one data operation,
// the Route, Executor, and Codec contracts between the dispatch engine and
// its collaborators, and the standard errors shared across the detour module.
package types
