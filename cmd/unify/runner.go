package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/agentspeak/reason/codec"
	"github.com/agentspeak/reason/engine"
)

// runner solves cases and reports the outcomes, in plain text for a terminal or as YAML documents otherwise.
type runner struct {
	out         io.Writer
	destructive bool
	pretty      bool

	enc *yaml.Encoder
}

type result struct {
	Case       string     `yaml:"case"`
	Unified    bool       `yaml:"unified"`
	Unexpected bool       `yaml:"unexpected,omitempty"`
	Bindings   *yaml.Node `yaml:"bindings,omitempty"`
}

func (r *runner) unify(u *engine.Unifier, e codec.Equation) bool {
	if r.destructive {
		return u.UnifyNoUndo(e.Left.Term, e.Right.Term)
	}
	return u.Unify(e.Left.Term, e.Right.Term)
}

// solve unifies the given equations of c and then its own on a fresh unifier.
func (r *runner) solve(c codec.Case) (*engine.Unifier, bool) {
	u := engine.NewUnifier()
	for _, g := range c.Given {
		if !r.unify(u, g) {
			logrus.WithFields(logrus.Fields{
				"case":  c.Name,
				"left":  g.Left,
				"right": g.Right,
			}).Debug("given equation failed")
			return u, false
		}
	}
	return u, r.unify(u, c.Equation)
}

// run solves cs in order and reports whether every outcome matched its expectation.
func (r *runner) run(cs []codec.Case) (bool, error) {
	pass := true
	for _, c := range cs {
		u, ok := r.solve(c)
		unexpected := c.Expect != nil && *c.Expect != ok
		if unexpected {
			pass = false
		}
		if err := r.report(title(c), u, ok, unexpected); err != nil {
			return false, err
		}
	}
	return pass, nil
}

func title(c codec.Case) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s = %s", c.Left, c.Right)
}

func (r *runner) report(name string, u *engine.Unifier, ok, unexpected bool) error {
	if r.pretty {
		return r.print(name, u, ok, unexpected)
	}

	res := result{Case: name, Unified: ok, Unexpected: unexpected}
	if ok && u.Len() > 0 {
		n, err := codec.EncodeBindings(u.Bindings())
		if err != nil {
			return err
		}
		res.Bindings = n
	}
	if r.enc == nil {
		r.enc = yaml.NewEncoder(r.out)
		r.enc.SetIndent(2)
	}
	return r.enc.Encode(&res)
}

func (r *runner) print(name string, u *engine.Unifier, ok, unexpected bool) error {
	var sb strings.Builder
	_, _ = sb.WriteString(name)
	_, _ = sb.WriteString(": ")
	if ok {
		_, _ = sb.WriteString("yes")
	} else {
		_, _ = sb.WriteString("no")
	}
	if unexpected {
		_, _ = sb.WriteString(" (unexpected)")
	}
	_, _ = sb.WriteString("\n")
	if ok {
		for _, b := range u.Bindings() {
			_, _ = fmt.Fprintf(&sb, "  %s = %s\n", b.Variable, b.Value)
		}
	}
	_, err := io.WriteString(r.out, sb.String())
	return err
}

// close finishes the YAML stream, if any.
func (r *runner) close() error {
	if r.enc == nil {
		return nil
	}
	err := r.enc.Close()
	r.enc = nil
	return err
}
