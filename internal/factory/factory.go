// Package factory instantiates a tick engine for a chosen (P, V, VF)
// numeric type triple, mirroring the original's get_field dispatcher.
// Go has no compile-time monomorphization over a configuration string,
// so "specialization" here just means constructing the three Number
// zero values the engine runs on — the engine itself is always the
// single dynamic-dispatch variant spec.md §9 sanctions.
package factory

import (
	"fmt"

	"github.com/pthm-cable/fluidsim/internal/engine"
	"github.com/pthm-cable/fluidsim/internal/numeric"
)

// New builds an Engine specialized over the numeric type tags pTag,
// vTag, vfTag (e.g. "DOUBLE", "FIXED(32,16)", "FAST_FIXED(64,24)").
// Per spec.md §7's "unknown type-size combination" policy: any tag this
// process can parse is accepted (there is no compile-time specialization
// table to miss in a dynamic-dispatch implementation), and a malformed
// tag fails fast rather than silently falling back.
func New(pTag, vTag, vfTag string, params engine.Params) (*engine.Engine, error) {
	pZero, err := numeric.ZeroFromTag(pTag)
	if err != nil {
		return nil, fmt.Errorf("factory: p-type: %w", err)
	}
	vZero, err := numeric.ZeroFromTag(vTag)
	if err != nil {
		return nil, fmt.Errorf("factory: v-type: %w", err)
	}
	vfZero, err := numeric.ZeroFromTag(vfTag)
	if err != nil {
		return nil, fmt.Errorf("factory: v-flow-type: %w", err)
	}
	return engine.NewWithParams(pZero, vZero, vfZero, params), nil
}
