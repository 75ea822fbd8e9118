// Package codec reads and writes terms in YAML.
//
// A scalar is a number, a variable if its name starts with an upper-case letter or an underscore, or an atom
// otherwise. A leading ~ negates it. A sequence is a list. A mapping is a structure if it has a functor key,
// an annotated variable if it has a var key, an arithmetic expression if it has an op key, or a cyclic term if
// it has a cycle key:
//
//	- {functor: p, args: [1, X], annots: [source(self)], tail: R, negated: true}
//	- {var: X, annots: [a]}
//	- {op: "+", args: [X, 1]}
//	- {cycle: X, body: {functor: f, args: [X]}}
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/agentspeak/reason/engine"
)

// ErrInvalidTerm is reported when a YAML node doesn't denote a term.
var ErrInvalidTerm = errors.New("invalid term")

func invalid(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("%d:%d: %w: %s", n.Line, n.Column, ErrInvalidTerm, fmt.Sprintf(format, args...))
}

// Parse builds a term from YAML text, e.g. `{functor: p, args: [X]}`.
func Parse(s string) (engine.Term, error) {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(s), &n); err != nil {
		return nil, err
	}
	return Decode(&n)
}

// Decode builds a term from a YAML node.
func Decode(n *yaml.Node) (engine.Term, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, invalid(n, "empty document")
		}
		return Decode(n.Content[0])
	case yaml.AliasNode:
		return Decode(n.Alias)
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		ts, err := decodeAll(n)
		if err != nil {
			return nil, err
		}
		return engine.NewList(ts...), nil
	case yaml.MappingNode:
		return decodeMapping(n)
	default:
		return nil, invalid(n, "unexpected node")
	}
}

func decodeAll(n *yaml.Node) ([]engine.Term, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(n, "expected a sequence")
	}
	ts := make([]engine.Term, len(n.Content))
	for i, c := range n.Content {
		t, err := Decode(c)
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return ts, nil
}

func decodeScalar(n *yaml.Node) (engine.Term, error) {
	switch n.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, invalid(n, "%v", err)
		}
		return engine.Number(f), nil
	case "!!null":
		return nil, invalid(n, "null")
	default:
		return decodeName(n, n.Value)
	}
}

func decodeName(n *yaml.Node, s string) (engine.Term, error) {
	name := strings.TrimPrefix(s, "~")
	negated := len(name) < len(s)
	if name == "" {
		return nil, invalid(n, "empty name")
	}
	if isVariableName(name) {
		return engine.Variable{Name: name, Negated: negated}, nil
	}
	if negated {
		return &engine.Structure{Functor: name, Negated: true}, nil
	}
	return engine.Atom(name), nil
}

func isVariableName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r == '_' || unicode.IsUpper(r)
}

var keys = map[string][]string{
	"functor": {"functor", "args", "annots", "tail", "negated"},
	"var":     {"var", "annots", "tail", "negated"},
	"op":      {"op", "args"},
	"cycle":   {"cycle", "body"},
}

func decodeMapping(n *yaml.Node) (engine.Term, error) {
	fs := map[string]*yaml.Node{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, ok := fs[k.Value]; ok {
			return nil, invalid(k, "duplicate key %s", k.Value)
		}
		fs[k.Value] = v
	}

	var kind string
	for k := range keys {
		if _, ok := fs[k]; ok {
			if kind != "" {
				return nil, invalid(n, "both %s and %s", kind, k)
			}
			kind = k
		}
	}
	if kind == "" {
		return nil, invalid(n, "expected one of functor, var, op, or cycle")
	}
	for k := range fs {
		if !allowed(kind, k) {
			return nil, invalid(n, "unexpected key %s", k)
		}
	}

	switch kind {
	case "functor":
		return decodeStructure(fs)
	case "var":
		return decodeVariable(fs)
	case "op":
		return decodeExpr(fs)
	default:
		return decodeCycle(fs)
	}
}

func allowed(kind, key string) bool {
	for _, k := range keys[kind] {
		if k == key {
			return true
		}
	}
	return false
}

func decodeStructure(fs map[string]*yaml.Node) (engine.Term, error) {
	functor := fs["functor"]
	if functor.Kind != yaml.ScalarNode || functor.Value == "" {
		return nil, invalid(functor, "functor must be a name")
	}
	s := engine.Structure{Functor: functor.Value}
	if n, ok := fs["args"]; ok {
		args, err := decodeAll(n)
		if err != nil {
			return nil, err
		}
		s.Args = args
	}
	if err := decodeAnnotations(fs, &s.Annots, &s.Tail, &s.Negated); err != nil {
		return nil, err
	}
	return s.WithAnnots(s.Annots...), nil
}

func decodeVariable(fs map[string]*yaml.Node) (engine.Term, error) {
	n := fs["var"]
	if n.Kind != yaml.ScalarNode || !isVariableName(n.Value) {
		return nil, invalid(n, "var must be a variable name")
	}
	v := engine.Variable{Name: n.Value}
	if err := decodeAnnotations(fs, &v.Annots, &v.Tail, &v.Negated); err != nil {
		return nil, err
	}
	return v.WithAnnots(v.Annots...), nil
}

func decodeAnnotations(fs map[string]*yaml.Node, annots *[]engine.Term, tail **engine.Variable, negated *bool) error {
	if n, ok := fs["annots"]; ok {
		as, err := decodeAll(n)
		if err != nil {
			return err
		}
		*annots = as
	}
	if n, ok := fs["tail"]; ok {
		if n.Kind != yaml.ScalarNode || !isVariableName(n.Value) {
			return invalid(n, "tail must be a variable name")
		}
		*tail = &engine.Variable{Name: n.Value}
	}
	if n, ok := fs["negated"]; ok {
		if err := n.Decode(negated); err != nil {
			return invalid(n, "%v", err)
		}
	}
	return nil
}

func decodeExpr(fs map[string]*yaml.Node) (engine.Term, error) {
	op := fs["op"]
	if op.Kind != yaml.ScalarNode || op.Value == "" {
		return nil, invalid(op, "op must be an operator")
	}
	n, ok := fs["args"]
	if !ok {
		return nil, invalid(op, "missing args")
	}
	args, err := decodeAll(n)
	if err != nil {
		return nil, err
	}
	return engine.NewExpr(op.Value, args...), nil
}

func decodeCycle(fs map[string]*yaml.Node) (engine.Term, error) {
	n := fs["cycle"]
	if n.Kind != yaml.ScalarNode || !isVariableName(n.Value) {
		return nil, invalid(n, "cycle must be a variable name")
	}
	b, ok := fs["body"]
	if !ok {
		return nil, invalid(n, "missing body")
	}
	body, err := Decode(b)
	if err != nil {
		return nil, err
	}
	l, ok := body.(engine.Literal)
	if !ok {
		return nil, invalid(b, "body must be a literal")
	}
	return &engine.CyclicTerm{Body: l, Var: engine.Variable{Name: n.Value}}, nil
}

// Encode converts a term to a YAML node which Decode converts back to an equal term.
func Encode(t engine.Term) (*yaml.Node, error) {
	switch t := t.(type) {
	case engine.Number:
		return encodeNumber(t), nil
	case engine.Atom:
		if isPlainName(string(t)) {
			return scalar("!!str", string(t)), nil
		}
		return mapping(pair("functor", scalar("!!str", string(t)))), nil
	case engine.Variable:
		if !t.HasAnnotations() {
			return scalar("!!str", t.String()), nil
		}
		ps := []*yaml.Node{pair("var", scalar("!!str", t.Name))}
		ps, err := encodeAnnotations(ps, t.Annots, t.Tail, t.Negated)
		if err != nil {
			return nil, err
		}
		return mapping(ps...), nil
	case *engine.Structure:
		if len(t.Args) == 0 && len(t.Annots) == 0 && t.Tail == nil && t.Negated && isPlainName(t.Functor) {
			return scalar("!!str", "~"+t.Functor), nil
		}
		ps := []*yaml.Node{pair("functor", scalar("!!str", t.Functor))}
		if len(t.Args) > 0 {
			args, err := encodeAll(t.Args)
			if err != nil {
				return nil, err
			}
			ps = append(ps, pair("args", args))
		}
		ps, err := encodeAnnotations(ps, t.Annots, t.Tail, t.Negated)
		if err != nil {
			return nil, err
		}
		return mapping(ps...), nil
	case engine.List:
		return encodeAll(t)
	case *engine.Expr:
		args, err := encodeAll(t.Args)
		if err != nil {
			return nil, err
		}
		return mapping(pair("op", scalar("!!str", t.Op)), pair("args", args)), nil
	case *engine.CyclicTerm:
		body, err := Encode(t.Body)
		if err != nil {
			return nil, err
		}
		return mapping(pair("cycle", scalar("!!str", t.Var.Name)), pair("body", body)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidTerm, t)
	}
}

func encodeNumber(n engine.Number) *yaml.Node {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return scalar("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalar("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalar("!!float", "-.inf")
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return scalar("!!int", strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return scalar("!!float", n.String())
	}
}

// isPlainName checks if a scalar name reads back as an atom.
func isPlainName(name string) bool {
	if name == "" || strings.HasPrefix(name, "~") || isVariableName(name) {
		return false
	}
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(name), &n); err != nil || len(n.Content) != 1 {
		return false
	}
	c := n.Content[0]
	return c.Kind == yaml.ScalarNode && c.ShortTag() == "!!str" && c.Value == name
}

func encodeAll(ts []engine.Term) (*yaml.Node, error) {
	n := yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, t := range ts {
		c, err := Encode(t)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, c)
	}
	return &n, nil
}

func encodeAnnotations(ps []*yaml.Node, annots []engine.Term, tail *engine.Variable, negated bool) ([]*yaml.Node, error) {
	if len(annots) > 0 {
		as, err := encodeAll(annots)
		if err != nil {
			return nil, err
		}
		ps = append(ps, pair("annots", as))
	}
	if tail != nil {
		ps = append(ps, pair("tail", scalar("!!str", tail.Name)))
	}
	if negated {
		ps = append(ps, pair("negated", scalar("!!bool", "true")))
	}
	return ps, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// pair is a key-value pair of a mapping held in a two-element node.
func pair(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{Content: []*yaml.Node{scalar("!!str", key), value}}
}

func mapping(ps ...*yaml.Node) *yaml.Node {
	n := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}
	for _, p := range ps {
		n.Content = append(n.Content, p.Content...)
	}
	return &n
}
