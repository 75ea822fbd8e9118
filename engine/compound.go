package engine

import (
	"sort"
	"strings"
)

// Structure is a literal with a functor, arguments, an annotation set and a polarity, e.g. ~p(1,X)[source(self)].
type Structure struct {
	Functor string
	Args    []Term
	Annots  []Term
	Tail    *Variable
	Negated bool
}

// NewStructure creates a positive structure without annotations.
func NewStructure(functor string, args ...Term) *Structure {
	return &Structure{Functor: functor, Args: args}
}

// Pred creates a positive structure annotated with annots.
func Pred(functor string, args []Term, annots ...Term) *Structure {
	return &Structure{Functor: functor, Args: args, Annots: normalizeAnnots(annots)}
}

func (*Structure) term() {}

// Name returns the functor.
func (s *Structure) Name() string {
	return s.Functor
}

// Arity returns the number of arguments.
func (s *Structure) Arity() int {
	return len(s.Args)
}

// Arg returns the nth argument.
func (s *Structure) Arg(n int) Term {
	return s.Args[n]
}

// IsNegated checks if the structure is a strong negation.
func (s *Structure) IsNegated() bool {
	return s.Negated
}

// Annotations returns the annotation set.
func (s *Structure) Annotations() []Term {
	return s.Annots
}

// AnnotationTail returns the remainder variable of the annotations.
func (s *Structure) AnnotationTail() *Variable {
	return s.Tail
}

// WithAnnots returns a copy of s annotated with annots.
func (s *Structure) WithAnnots(annots ...Term) *Structure {
	c := *s
	c.Annots = normalizeAnnots(annots)
	return &c
}

// WithTail returns a copy of s whose unmatched annotations are captured by tail.
func (s *Structure) WithTail(tail Variable) *Structure {
	c := *s
	t := tail.bare()
	c.Tail = &t
	return &c
}

// ClearAnnots returns a copy of s without annotations.
func (s *Structure) ClearAnnots() *Structure {
	c := *s
	c.Annots = nil
	c.Tail = nil
	return &c
}

// Negate returns a copy of s with its polarity flipped.
func (s *Structure) Negate() Literal {
	c := *s
	c.Negated = !c.Negated
	return &c
}

// Clone returns a structural copy of s.
func (s *Structure) Clone() Term {
	c := Structure{
		Functor: s.Functor,
		Args:    cloneTerms(s.Args),
		Annots:  cloneTerms(s.Annots),
		Negated: s.Negated,
	}
	if s.Tail != nil {
		t := *s.Tail
		c.Tail = &t
	}
	return &c
}

func (s *Structure) String() string {
	var sb strings.Builder
	if s.Negated {
		_, _ = sb.WriteString("~")
	}
	_, _ = sb.WriteString(s.Functor)
	if len(s.Args) > 0 {
		_, _ = sb.WriteString("(")
		writeTerms(&sb, s.Args)
		_, _ = sb.WriteString(")")
	}
	writeAnnotations(&sb, s.Annots, s.Tail)
	return sb.String()
}

// normalizeAnnots sorts annotations in the standard order and removes duplicates.
func normalizeAnnots(annots []Term) []Term {
	if len(annots) == 0 {
		return nil
	}
	ts := make([]Term, len(annots))
	copy(ts, annots)
	sort.SliceStable(ts, func(i, j int) bool {
		return Compare(ts[i], ts[j]) < 0
	})
	us := ts[:1]
	for _, t := range ts[1:] {
		if Compare(us[len(us)-1], t) == 0 {
			continue
		}
		us = append(us, t)
	}
	return us
}

// positive returns l with a positive polarity.
func positive(l Literal) Literal {
	if !l.IsNegated() {
		return l
	}
	switch l := l.(type) {
	case *Structure:
		return l.Negate()
	case *CyclicTerm:
		return &CyclicTerm{Body: positive(l.Body), Var: l.Var}
	default:
		return l
	}
}

// flip returns t with its polarity flipped if it's a literal that can be negated.
func flip(t Term) (Term, bool) {
	switch t := t.(type) {
	case Atom, *Structure, *CyclicTerm:
		return Negate(t), true
	default:
		return t, false
	}
}
