package engine

import (
	"cmp"
	"fmt"
	"strings"
)

// Term is a term of the agent language: Variable, Atom, *Structure, List, Number, *Expr or *CyclicTerm.
type Term interface {
	fmt.Stringer

	// Clone returns a structural copy of the term.
	Clone() Term

	term()
}

// Literal is a term with a functor, ordered arguments and a polarity.
type Literal interface {
	Term
	Name() string
	Arity() int
	Arg(int) Term
	IsNegated() bool
}

// Annotated is a term that carries an annotation set and optionally a remainder variable for it.
type Annotated interface {
	Term
	Annotations() []Term
	AnnotationTail() *Variable
}

// Numeric is a term that evaluates to a number.
type Numeric interface {
	Term
	Solve(*Unifier) (float64, error)
}

// Equal checks if a and b are structurally equal.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Compare(a, b) == 0
}

// Compare compares a and b in the standard order:
// numbers < atoms and structures (by arity, then functor) < lists (by length) < variables.
func Compare(a, b Term) int {
	if d := rank(a) - rank(b); d != 0 {
		return sign(d)
	}

	switch a := a.(type) {
	case Number:
		// NaN is smaller than any other number.
		return cmp.Compare(float64(a), float64(b.(Number)))
	case Variable:
		b := b.(Variable)
		if d := strings.Compare(a.Name, b.Name); d != 0 {
			return d
		}
		return compareBool(a.Negated, b.Negated)
	case List:
		b := b.(List)
		if d := len(a) - len(b); d != 0 {
			return sign(d)
		}
		for i := range a {
			if d := Compare(a[i], b[i]); d != 0 {
				return d
			}
		}
		return 0
	default:
		return compareLiterals(asLiteral(a), asLiteral(b))
	}
}

func compareLiterals(a, b Literal) int {
	if d := a.Arity() - b.Arity(); d != 0 {
		return sign(d)
	}
	if d := strings.Compare(a.Name(), b.Name()); d != 0 {
		return d
	}
	if d := compareBool(a.IsNegated(), b.IsNegated()); d != 0 {
		return d
	}
	for i := 0; i < a.Arity(); i++ {
		if d := Compare(a.Arg(i), b.Arg(i)); d != 0 {
			return d
		}
	}
	as, bs := annotationsOf(a), annotationsOf(b)
	if d := len(as) - len(bs); d != 0 {
		return sign(d)
	}
	for i := range as {
		if d := Compare(as[i], bs[i]); d != 0 {
			return d
		}
	}
	return 0
}

func rank(t Term) int {
	switch t.(type) {
	case Number:
		return 0
	case List:
		return 2
	case Variable:
		return 3
	default:
		return 1
	}
}

// asLiteral views atoms, structures, cyclic terms and expressions uniformly.
func asLiteral(t Term) Literal {
	switch t := t.(type) {
	case Literal:
		return t
	case *Expr:
		return NewStructure(t.Op, t.Args...)
	default:
		return Atom(t.String())
	}
}

func annotationsOf(t Term) []Term {
	if a, ok := t.(Annotated); ok {
		return a.Annotations()
	}
	return nil
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// Negate returns t with its polarity flipped. Terms without a polarity are returned as they are.
func Negate(t Term) Term {
	switch t := t.(type) {
	case Variable:
		return t.Negate()
	case Atom:
		return t.Negate()
	case *Structure:
		return t.Negate()
	case *CyclicTerm:
		return &CyclicTerm{Body: Negate(t.Body).(Literal), Var: t.Var}
	default:
		return t
	}
}

// Occurs checks if v occurs in t after dereferencing through u.
func Occurs(v Variable, t Term, u *Unifier) bool {
	return occurs(v.key(), t, u, map[varKey]struct{}{})
}

func occurs(k varKey, t Term, u *Unifier, visited map[varKey]struct{}) bool {
	switch t := t.(type) {
	case Variable:
		if t.key() == k {
			return true
		}
		for _, a := range t.Annots {
			if occurs(k, a, u, visited) {
				return true
			}
		}
		if t.Tail != nil && occurs(k, *t.Tail, u, visited) {
			return true
		}
		if _, ok := visited[t.key()]; ok {
			return false
		}
		visited[t.key()] = struct{}{}
		if u == nil {
			return false
		}
		ref, ok := u.bindings[t.key()]
		if !ok {
			return false
		}
		return occurs(k, ref, u, visited)
	case *CyclicTerm:
		if t.Var.key() == k {
			return true
		}
		visited[t.Var.key()] = struct{}{}
		return occurs(k, t.Body, u, visited)
	case *Structure:
		for _, a := range t.Args {
			if occurs(k, a, u, visited) {
				return true
			}
		}
		for _, a := range t.Annots {
			if occurs(k, a, u, visited) {
				return true
			}
		}
		return t.Tail != nil && occurs(k, *t.Tail, u, visited)
	case List:
		for _, e := range t {
			if occurs(k, e, u, visited) {
				return true
			}
		}
		return false
	case *Expr:
		for _, a := range t.Args {
			if occurs(k, a, u, visited) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func cloneTerms(ts []Term) []Term {
	if ts == nil {
		return nil
	}
	ret := make([]Term, len(ts))
	for i, t := range ts {
		ret[i] = t.Clone()
	}
	return ret
}

func writeTerms(sb *strings.Builder, ts []Term) {
	for i, t := range ts {
		if i > 0 {
			_, _ = sb.WriteString(",")
		}
		_, _ = sb.WriteString(t.String())
	}
}

func writeAnnotations(sb *strings.Builder, annots []Term, tail *Variable) {
	if len(annots) == 0 && tail == nil {
		return
	}
	_, _ = sb.WriteString("[")
	writeTerms(sb, annots)
	if tail != nil {
		_, _ = sb.WriteString("|")
		_, _ = sb.WriteString(tail.String())
	}
	_, _ = sb.WriteString("]")
}
