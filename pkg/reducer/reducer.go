// Package reducer implements the single-pass streaming fold abstraction the
// fingerprinting engine is built on, together with the combinators that let
// many statistics share one scan of the data.
//
// # Overview
//
// A Fold is an (Init, Step, Done) triple. Combinators build new folds from
// existing ones:
//   - Fuse runs several folds in lockstep over the same input
//   - PreStep maps the input before it reaches a fold
//   - PostDone maps the finalized result
//   - Rollup partitions the input by key and folds each group independently
//
// Fuse is the performance core of the engine: fingerprinting every column of
// a table is one fused fold over the rows, never one scan per column.
//
// # Ownership
//
// Each call to Reduce allocates fresh state via Init and owns it exclusively
// for the duration of the pass. Fold values themselves are immutable recipes
// and safe to share; concurrent Reduce calls on the same Fold never share
// accumulator state.
package reducer

import "sort"

// Fold is a stateful streaming reducer: Init allocates the accumulator, Step
// folds one input into it, Done finalizes it into the output. Step may
// mutate and return its argument or return a fresh value; callers must only
// use the returned state.
type Fold[I, S, O any] struct {
	Init func() S
	Step func(S, I) S
	Done func(S) O
}

// Reduce runs the fold over a finite slice of inputs.
func (f Fold[I, S, O]) Reduce(inputs []I) O {
	state := f.Init()
	for _, in := range inputs {
		state = f.Step(state, in)
	}
	return f.Done(state)
}

// Erased is a fold with hidden state and output types, so that folds over
// the same input can be collected into one Fuse.
type Erased[I any] Fold[I, any, any]

// Erase hides a fold's state and output types.
func Erase[I, S, O any](f Fold[I, S, O]) Erased[I] {
	return Erased[I]{
		Init: func() any { return f.Init() },
		Step: func(s any, in I) any { return f.Step(s.(S), in) },
		Done: func(s any) any { return f.Done(s.(S)) },
	}
}

// Fuse builds the product of several folds: one pass steps every component
// on every input, and finalization yields the component results keyed by
// name. Component order is fixed by sorting the names, so state layout and
// evaluation order are deterministic.
func Fuse[I any](parts map[string]Erased[I]) Fold[I, []any, map[string]any] {
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	return Fold[I, []any, map[string]any]{
		Init: func() []any {
			states := make([]any, len(names))
			for i, name := range names {
				states[i] = parts[name].Init()
			}
			return states
		},
		Step: func(states []any, in I) []any {
			for i, name := range names {
				states[i] = parts[name].Step(states[i], in)
			}
			return states
		},
		Done: func(states []any) map[string]any {
			out := make(map[string]any, len(names))
			for i, name := range names {
				out[name] = parts[name].Done(states[i])
			}
			return out
		},
	}
}

// PreStep maps every input through fn before it reaches the fold. This is
// the contravariant combinator used to parse raw cells and to extract one
// column from a row inside a fused table pass.
func PreStep[I2, I1, S, O any](f Fold[I1, S, O], fn func(I2) I1) Fold[I2, S, O] {
	return Fold[I2, S, O]{
		Init: f.Init,
		Step: func(s S, in I2) S { return f.Step(s, fn(in)) },
		Done: f.Done,
	}
}

// PostDone maps the finalized output through fn. This is the covariant
// combinator used to derive higher-level summaries from raw sketch results.
func PostDone[I, S, O1, O2 any](f Fold[I, S, O1], fn func(O1) O2) Fold[I, S, O2] {
	return Fold[I, S, O2]{
		Init: f.Init,
		Step: f.Step,
		Done: func(s S) O2 { return fn(f.Done(s)) },
	}
}

// Group is one lazily created per-key reducer instance inside a Rollup.
type Group[I any] struct {
	fold  Erased[I]
	state any
}

// Rollup partitions the input by key and folds every group with an
// independent reducer instance, created on first use by factory. The output
// maps each observed key to its group's finalized result.
func Rollup[I any, K comparable](factory func() Erased[I], key func(I) K) Fold[I, map[K]*Group[I], map[K]any] {
	return Fold[I, map[K]*Group[I], map[K]any]{
		Init: func() map[K]*Group[I] {
			return make(map[K]*Group[I])
		},
		Step: func(groups map[K]*Group[I], in I) map[K]*Group[I] {
			k := key(in)
			g, ok := groups[k]
			if !ok {
				fold := factory()
				g = &Group[I]{fold: fold, state: fold.Init()}
				groups[k] = g
			}
			g.state = g.fold.Step(g.state, in)
			return groups
		},
		Done: func(groups map[K]*Group[I]) map[K]any {
			out := make(map[K]any, len(groups))
			for k, g := range groups {
				out[k] = g.fold.Done(g.state)
			}
			return out
		},
	}
}
