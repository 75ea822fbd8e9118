package engine

import (
	"github.com/sirupsen/logrus"
)

// Unify unifies t1 with t2. If it fails, the substitution is restored to the state before the call.
func (u *Unifier) Unify(t1, t2 Term) bool {
	saved := u.Clone()
	if u.UnifyNoUndo(t1, t2) {
		return true
	}
	u.bindings = saved.bindings
	return false
}

// UnifyNoUndo unifies t1 with t2 in place. It's faster than Unify but a failure may leave some bindings behind,
// so the caller is responsible for cloning beforehand if it needs to try other alternatives.
//
// Unification is not symmetric with respect to annotations: the annotations of t1 must be a subset of those of t2.
func (u *Unifier) UnifyNoUndo(t1, t2 Term) bool {
	if annotatedVariable(t1) || annotatedVariable(t2) {
		np1, np2 := u.predicate(t1), u.predicate(t2)
		if np1 != nil && np2 != nil && !u.AnnotationsSubset(np1, np2) {
			return false
		}
	}

	c1, ok1 := t1.(*CyclicTerm)
	c2, ok2 := t2.(*CyclicTerm)
	if ok1 && ok2 {
		return u.unifyCyclic(c1, c2)
	}
	if ok1 || ok2 {
		c, t := c1, t2
		if ok2 {
			c, t = c2, t1
		}
		u.ensureCycle(c)

		// Comparing a cyclic term with a term it was already compared with further up means that the
		// comparison went around the cycle. Assume it succeeds.
		if u.isAssumed(c, t) {
			return true
		}
		u.assumed = append(u.assumed, assumption{cycle: c.Var.key(), term: t})
		defer u.unassume()
	}

	ok := u.unifyTerms(t1, t2)

	// X[a] = p(1)[a,b] binds X to p(1), not to p(1)[a,b]. The remaining annotations are captured by X[a|R].
	if ok {
		u.clearAnnots(t1)
		u.clearAnnots(t2)
	}

	return ok
}

// unifyCyclic compares the bodies of two cyclic terms with their cycle variables removed so that the comparison
// doesn't revisit them. The removed bindings are put back afterwards.
func (u *Unifier) unifyCyclic(c1, c2 *CyclicTerm) bool {
	v1, ok1 := u.Remove(c1.Var)
	v2, ok2 := u.Remove(c2.Var)
	defer func() {
		if ok1 {
			u.put(c1.Var.key(), v1)
		}
		if ok2 {
			u.put(c2.Var.key(), v2)
		}
	}()
	return u.UnifyNoUndo(c1.Body, c2.Body)
}

// ensureCycle reintroduces the binding of the cycle variable if it was removed.
func (u *Unifier) ensureCycle(c *CyclicTerm) {
	if _, ok := u.Lookup(c.Var); ok {
		return
	}
	u.put(c.Var.key(), c)
}

type assumption struct {
	cycle varKey
	term  Term
}

func (u *Unifier) isAssumed(c *CyclicTerm, t Term) bool {
	for _, a := range u.assumed {
		if a.cycle == c.Var.key() && Equal(a.term, t) {
			return true
		}
	}
	return false
}

func (u *Unifier) unassume() {
	n := len(u.assumed) - 1
	if n == 0 {
		u.assumed = nil
		return
	}
	u.assumed = u.assumed[:n]
}

func (u *Unifier) unifyTerms(t1, t2 Term) bool {
	t1, t2 = u.evaluate(t1), u.evaluate(t2)

	v1, isVar1 := t1.(Variable)
	v2, isVar2 := t2.(Variable)
	if isVar1 || isVar2 {
		val1, bound1 := t1, true
		if isVar1 {
			v1 = u.Dereference(v1)
			val1, bound1 = u.Lookup(v1)
		}
		val2, bound2 := t2, true
		if isVar2 {
			v2 = u.Dereference(v2)
			val2, bound2 = u.Lookup(v2)
		}

		switch {
		case bound1 && bound2:
			return u.UnifyNoUndo(val1, val2)
		case bound1:
			return u.Bind(v2, val1)
		case bound2:
			return u.Bind(v1, val2)
		default:
			return u.BindVariables(v1, v2)
		}
	}

	// Numbers and unevaluated expressions must be equal. Lists are literals here.
	l1, ok1 := t1.(Literal)
	l2, ok2 := t2.(Literal)
	if !ok1 || !ok2 {
		return Equal(t1, t2)
	}

	if isList(l1) != isList(l2) {
		return false
	}
	if l1.Arity() != l2.Arity() {
		return false
	}
	if l1.IsNegated() != l2.IsNegated() {
		return false
	}
	if l1.Name() != l2.Name() {
		return false
	}

	// Left to right, as later arguments may refer to variables bound by earlier ones.
	for i := 0; i < l1.Arity(); i++ {
		if !u.UnifyNoUndo(l1.Arg(i), l2.Arg(i)) {
			return false
		}
	}

	a1, ok := l1.(Annotated)
	if !ok {
		return true
	}
	a2, _ := l2.(Annotated)
	return u.AnnotationsSubset(a1, a2)
}

// evaluate reduces an arithmetic expression to a number. An expression that can't be evaluated yet is kept.
func (u *Unifier) evaluate(t Term) Term {
	e, ok := t.(*Expr)
	if !ok {
		return t
	}
	n, err := Evaluate(e, u)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"term":  e,
			"error": err,
		}).Debug("unevaluated expression")
		return e
	}
	return n
}

// AnnotationsSubset checks if every annotation of a unifies with a distinct annotation of b.
// If a has an annotation tail, it is unified with the annotations of b that weren't matched.
func (u *Unifier) AnnotationsSubset(a, b Annotated) bool {
	as, tail := a.Annotations(), a.AnnotationTail()
	if len(as) == 0 && tail == nil {
		return true
	}

	var rest []Term
	if b != nil {
		rest = append(rest, b.Annotations()...)
	}

	for _, x := range as {
		found := false
		for i, y := range rest {
			if u.Unify(x, y) {
				rest = append(rest[:i:i], rest[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			logrus.WithFields(logrus.Fields{
				"annotation": x,
				"of":         b,
			}).Debug("missing annotation")
			return false
		}
	}

	if tail != nil {
		return u.UnifyNoUndo(*tail, NewList(rest...))
	}
	return true
}

func (u *Unifier) clearAnnots(t Term) {
	if !annotatedVariable(t) {
		return
	}
	v := u.Dereference(t.(Variable))
	s, ok := u.bindings[v.key()].(*Structure)
	if !ok || (len(s.Annots) == 0 && s.Tail == nil) {
		return
	}
	u.put(v.key(), s.ClearAnnots())
}

// predicate returns the annotated term t stands for. A variable without annotations of its own stands for its
// value, if any.
func (u *Unifier) predicate(t Term) Annotated {
	switch t := t.(type) {
	case Variable:
		if t.HasAnnotations() {
			return t
		}
		v, ok := u.Lookup(t)
		if !ok {
			return nil
		}
		if _, ok := v.(Variable); ok {
			return nil
		}
		return u.predicate(v)
	case Annotated:
		return t
	default:
		return nil
	}
}

func annotatedVariable(t Term) bool {
	v, ok := t.(Variable)
	return ok && v.HasAnnotations()
}

func isList(l Literal) bool {
	switch l := l.(type) {
	case List:
		return true
	case *CyclicTerm:
		return isList(l.Body)
	default:
		return false
	}
}
