package engine

import "fmt"

// invariantError panics with a formatted message. Per spec.md §7, an
// invariant violation mid-tick (flow exceeding capacity, a propagation
// entering a wall, an out-of-range direction) is a programming error:
// there is no retry or partial-failure degradation, so the engine
// unconditionally aborts instead of returning an error value.
func invariantError(format string, args ...any) {
	panic(fmt.Sprintf("engine: invariant violation: "+format, args...))
}

func assertf(cond bool, format string, args ...any) {
	if !cond {
		invariantError(format, args...)
	}
}
