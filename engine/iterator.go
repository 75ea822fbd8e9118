package engine

import (
	"fmt"
	"math"

	"github.com/agentspeak/reason/nondet"
)

// Range enumerates the integers from start to end for v. If v is unbound, the stream yields an extended copy of u
// for each value in ascending order. Otherwise it yields u once if v's value lies within the interval.
// Bounds are truncated to integers and must fit in int64.
func Range(v, start, end Term, u *Unifier) (*nondet.Stream[*Unifier], error) {
	from, err := bound(start, u)
	if err != nil {
		return nil, err
	}
	to, err := bound(end, u)
	if err != nil {
		return nil, err
	}

	if w, ok := v.(Variable); ok {
		if _, ok := u.Lookup(u.Dereference(w)); !ok {
			if w.Negated {
				return nil, evaluationError(w, ErrNotNumeric)
			}
			i, done := from, from > to
			return nondet.Generate(func() (*Unifier, bool, error) {
				if done {
					return nil, false, nil
				}
				n := i
				if i == to {
					done = true
				} else {
					i++
				}
				c := u.Clone()
				if !c.UnifyNoUndo(w, Number(n)) {
					return nil, false, fmt.Errorf("can't bind %s to %d", w, n)
				}
				return c, true, nil
			}), nil
		}
	}

	f, err := Solve(v, u)
	if err != nil {
		return nil, err
	}
	if n := math.Trunc(f); math.IsNaN(n) || n < float64(from) || n > float64(to) {
		return nondet.Empty[*Unifier](), nil
	}
	return nondet.Unit(u), nil
}

func bound(t Term, u *Unifier) (int64, error) {
	f, err := Solve(t, u)
	if err != nil {
		return 0, err
	}
	// float64(math.MaxInt64) is 2^63, one past the largest int64.
	if f = math.Trunc(f); !(f >= math.MinInt64 && f < math.MaxInt64) {
		return 0, evaluationError(t, ErrOutOfRange)
	}
	return int64(f), nil
}

// Match yields an extended copy of u for each candidate that unifies with pattern, in the order of candidates.
func Match(pattern Term, candidates []Term, u *Unifier) *nondet.Stream[*Unifier] {
	ks := make([]func() *nondet.Stream[*Unifier], len(candidates))
	for i, c := range candidates {
		c := c
		ks[i] = func() *nondet.Stream[*Unifier] {
			v := u.Clone()
			if !v.UnifyNoUndo(pattern, c) {
				return nondet.Empty[*Unifier]()
			}
			return nondet.Unit(v)
		}
	}
	return nondet.Delay(ks...)
}
