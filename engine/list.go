package engine

import "strings"

// List is a finite sequence of terms. For unification it is a literal whose arity is its length.
type List []Term

// NewList returns a list of ts.
func NewList(ts ...Term) List {
	return List(ts)
}

func (List) term() {}

// Name returns the implicit functor of lists.
func (l List) Name() string {
	return "."
}

// Arity returns the length of the list.
func (l List) Arity() int {
	return len(l)
}

// Arg returns the nth element.
func (l List) Arg(n int) Term {
	return l[n]
}

// IsNegated returns false.
func (l List) IsNegated() bool {
	return false
}

// Clone returns a structural copy of the list.
func (l List) Clone() Term {
	return List(cloneTerms(l))
}

func (l List) String() string {
	var sb strings.Builder
	_, _ = sb.WriteString("[")
	writeTerms(&sb, l)
	_, _ = sb.WriteString("]")
	return sb.String()
}
