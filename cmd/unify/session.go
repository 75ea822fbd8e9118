package main

import (
	"fmt"
	"strings"

	"github.com/agentspeak/reason/codec"
	"github.com/agentspeak/reason/engine"
)

// session is an interactive series of equations sharing one unifier. Each line is a YAML sequence of the two
// terms to unify, e.g. [X, {functor: p, args: [1]}]. A failed equation leaves the bindings as they were unless
// the runner is destructive.
type session struct {
	*runner
	u *engine.Unifier
}

func (s *session) handleLine(line string) error {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return nil
	case "clear":
		s.u = nil
		return nil
	}

	e, err := parseEquation(line)
	if err != nil {
		return err
	}
	if s.u == nil {
		s.u = engine.NewUnifier()
	}
	ok := s.unify(s.u, e)
	return s.report(fmt.Sprintf("%s = %s", e.Left, e.Right), s.u, ok, false)
}

func parseEquation(line string) (codec.Equation, error) {
	t, err := codec.Parse(line)
	if err != nil {
		return codec.Equation{}, err
	}
	l, ok := t.(engine.List)
	if !ok || len(l) != 2 {
		return codec.Equation{}, fmt.Errorf("%w: expected [left, right]", codec.ErrInvalidTerm)
	}
	return codec.Equation{Left: codec.Term{Term: l[0]}, Right: codec.Term{Term: l[1]}}, nil
}
