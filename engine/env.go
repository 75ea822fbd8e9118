package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
)

// Unifier is a substitution from variables to terms together with the algorithm that extends it.
// A Unifier is owned by a single search branch; use Clone to start an independent one.
// The zero value is an empty substitution.
type Unifier struct {
	bindings map[varKey]Term

	// assumed holds the pairs of a cyclic term and another term under comparison.
	assumed []assumption
}

// NewUnifier returns an empty substitution.
func NewUnifier() *Unifier {
	return &Unifier{bindings: map[varKey]Term{}}
}

func (u *Unifier) put(k varKey, t Term) {
	if u.bindings == nil {
		u.bindings = map[varKey]Term{}
	}
	u.bindings[k] = t
}

// Dereference follows the chain of variable-to-variable bindings starting from v and returns the last variable.
// The entry for v is rewritten to point directly at that variable.
func (u *Unifier) Dereference(v Variable) Variable {
	first := v.key()
	k := first
	for {
		ref, ok := u.bindings[k]
		if !ok {
			break
		}
		w, ok := ref.(Variable)
		if !ok {
			break
		}
		k = w.key()
		if k == first {
			break
		}
	}
	if k != first {
		u.bindings[first] = k.variable()
	}
	return k.variable()
}

// Lookup returns the value bound to v. If the variable at the end of the chain from v has no value but its
// complementary variable is bound to a positive literal, the negation of that literal is returned.
func (u *Unifier) Lookup(v Variable) (Term, bool) {
	k, t, ok := u.lookup(v.key())
	if ok {
		return t, true
	}
	k.negated = !k.negated
	_, t, ok = u.lookup(k)
	if !ok {
		return nil, false
	}
	if l, ok := t.(Literal); !ok || l.IsNegated() {
		return nil, false
	}
	return flip(t)
}

// lookup follows the chain of variables from k and returns the last key and its value if any.
func (u *Unifier) lookup(k varKey) (varKey, Term, bool) {
	seen := map[varKey]struct{}{}
	for {
		ref, ok := u.bindings[k]
		if !ok {
			return k, nil, false
		}
		w, ok := ref.(Variable)
		if !ok {
			return k, ref, true
		}
		if _, ok := seen[k]; ok {
			return k, nil, false
		}
		seen[k] = struct{}{}
		k = w.key()
	}
}

// Bind binds v to t. A negated variable binds only to a negated literal, in which case the positive
// counterpart of v is also bound to the positive literal. If v occurs in t, v is bound to a CyclicTerm.
func (u *Unifier) Bind(v Variable, t Term) bool {
	if w, ok := t.(Variable); ok {
		return u.BindVariables(v, w)
	}

	if v.Negated {
		l, ok := t.(Literal)
		if !ok || !l.IsNegated() {
			return false
		}
		_ = u.Unify(v.Positive().bare(), positive(l))
	}

	if _, ok := t.(*CyclicTerm); !ok && Occurs(v, t, u) {
		l, ok := t.(Literal)
		if !ok {
			return false
		}
		logrus.WithFields(logrus.Fields{
			"variable": v.bare(),
			"term":     t,
		}).Debug("cyclic term")
		t = &CyclicTerm{Body: l, Var: v.bare()}
	}

	u.put(v.key(), t.Clone())
	return true
}

// BindVariables binds two variables. The smaller variable in the standard order becomes the key so that the
// result doesn't depend on the order of the arguments. ~A = ~B is solved as A = B.
func (u *Unifier) BindVariables(v, w Variable) bool {
	v, w = v.bare(), w.bare()
	if v.Negated && w.Negated {
		// The positive variables may be bound already.
		return u.UnifyNoUndo(v.Positive(), w.Positive())
	}

	switch c := Compare(v, w); {
	case c < 0:
		u.put(v.key(), w)
	case c > 0:
		u.put(w.key(), v)
	}
	return true
}

// Remove removes the binding of v and returns its value.
func (u *Unifier) Remove(v Variable) (Term, bool) {
	t, ok := u.bindings[v.key()]
	if ok {
		delete(u.bindings, v.key())
	}
	return t, ok
}

// Clear removes all the bindings.
func (u *Unifier) Clear() {
	u.bindings = map[varKey]Term{}
}

// Len returns the number of bindings.
func (u *Unifier) Len() int {
	return len(u.bindings)
}

// Clone returns an independent copy of the substitution. Terms are shared since they're never mutated.
func (u *Unifier) Clone() *Unifier {
	c := Unifier{bindings: make(map[varKey]Term, len(u.bindings))}
	for k, t := range u.bindings {
		c.bindings[k] = t
	}
	return &c
}

// Compose adds the bindings of o. When a variable already has a value and either value is a variable, the two
// values are unified instead of overwritten.
func (u *Unifier) Compose(o *Unifier) {
	for _, k := range o.keys() {
		t := o.bindings[k]
		cur, ok := u.bindings[k]
		if !ok {
			cur, ok = u.Lookup(k.variable())
		}
		_, curVar := cur.(Variable)
		_, tVar := t.(Variable)
		if ok && (curVar || tVar) {
			_ = u.Unify(t, cur)
			continue
		}
		u.put(k, t.Clone())
	}
}

// VarFromValue returns a variable bound to t.
func (u *Unifier) VarFromValue(t Term) (Variable, bool) {
	for _, k := range u.keys() {
		if Equal(u.bindings[k], t) {
			return k.variable(), true
		}
	}
	return Variable{}, false
}

// Apply replaces the bound variables in t with their values. Cyclic terms are kept as they are.
func (u *Unifier) Apply(t Term) Term {
	return u.apply(t, map[varKey]struct{}{})
}

func (u *Unifier) apply(t Term, visiting map[varKey]struct{}) Term {
	switch t := t.(type) {
	case Variable:
		d := u.Dereference(t)
		if _, ok := visiting[d.key()]; ok {
			return d
		}
		v, ok := u.Lookup(d)
		if !ok {
			if t.HasAnnotations() {
				return d.WithAnnots(u.applyAll(t.Annots, visiting)...)
			}
			return d
		}
		if _, ok := v.(*CyclicTerm); ok {
			return v
		}
		visiting[d.key()] = struct{}{}
		defer delete(visiting, d.key())
		return u.apply(v, visiting)
	case *Structure:
		s := Structure{
			Functor: t.Functor,
			Args:    u.applyAll(t.Args, visiting),
			Annots:  u.applyAll(t.Annots, visiting),
			Tail:    t.Tail,
			Negated: t.Negated,
		}
		if s.Tail != nil {
			if rest, ok := u.Lookup(*s.Tail); ok {
				if l, ok := rest.(List); ok {
					s.Annots = append(s.Annots, u.applyAll(l, visiting)...)
					s.Tail = nil
				}
			}
		}
		s.Annots = normalizeAnnots(s.Annots)
		return &s
	case List:
		return List(u.applyAll(t, visiting))
	case *Expr:
		e := &Expr{Op: t.Op, Args: u.applyAll(t.Args, visiting)}
		if f, err := e.Solve(u); err == nil {
			return Number(f)
		}
		return e
	default:
		return t
	}
}

func (u *Unifier) applyAll(ts []Term, visiting map[varKey]struct{}) []Term {
	if ts == nil {
		return nil
	}
	ret := make([]Term, len(ts))
	for i, t := range ts {
		ret[i] = u.apply(t, visiting)
	}
	return ret
}

// Equal checks if u and o have the same bindings.
func (u *Unifier) Equal(o *Unifier) bool {
	if u.Len() != o.Len() {
		return false
	}
	for k, t := range u.bindings {
		s, ok := o.bindings[k]
		if !ok || !Equal(t, s) {
			return false
		}
	}
	return true
}

// Hash returns a hash of the bindings which doesn't depend on their order. Equal unifiers have the same hash.
func (u *Unifier) Hash() uint64 {
	var sb strings.Builder
	for _, k := range u.keys() {
		writeCanonical(&sb, k.variable())
		_, _ = sb.WriteString("=")
		writeCanonical(&sb, u.bindings[k])
		_, _ = sb.WriteString(";")
	}
	return xxhash.Sum64String(sb.String())
}

// writeCanonical writes what Compare looks at: terms that compare equal are written the same.
func writeCanonical(sb *strings.Builder, t Term) {
	switch t := t.(type) {
	case Number:
		f := float64(t)
		if f == 0 {
			f = 0 // also -0
		}
		_, _ = sb.WriteString("#")
		_, _ = sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case Variable:
		if t.Negated {
			_, _ = sb.WriteString("~")
		}
		_, _ = sb.WriteString("?")
		_, _ = sb.WriteString(t.Name)
	case List:
		_, _ = sb.WriteString("[")
		writeAllCanonical(sb, t)
		_, _ = sb.WriteString("]")
	default:
		l := asLiteral(t)
		if l.IsNegated() {
			_, _ = sb.WriteString("~")
		}
		_, _ = sb.WriteString(strconv.Quote(l.Name()))
		_, _ = sb.WriteString("(")
		for i := 0; i < l.Arity(); i++ {
			if i > 0 {
				_, _ = sb.WriteString(",")
			}
			writeCanonical(sb, l.Arg(i))
		}
		_, _ = sb.WriteString(")[")
		writeAllCanonical(sb, annotationsOf(l))
		_, _ = sb.WriteString("]")
	}
}

func writeAllCanonical(sb *strings.Builder, ts []Term) {
	for i, t := range ts {
		if i > 0 {
			_, _ = sb.WriteString(",")
		}
		writeCanonical(sb, t)
	}
}

func (u *Unifier) String() string {
	var sb strings.Builder
	_, _ = sb.WriteString("{")
	for i, k := range u.keys() {
		if i > 0 {
			_, _ = sb.WriteString(", ")
		}
		_, _ = sb.WriteString(k.variable().String())
		_, _ = sb.WriteString("=")
		_, _ = sb.WriteString(u.bindings[k].String())
	}
	_, _ = sb.WriteString("}")
	return sb.String()
}

// keys returns the bound variables in the standard order.
func (u *Unifier) keys() []varKey {
	ks := make([]varKey, 0, len(u.bindings))
	for k := range u.bindings {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool {
		return Compare(ks[i].variable(), ks[j].variable()) < 0
	})
	return ks
}
