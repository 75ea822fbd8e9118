package engine

// Atom is a positive literal with neither arguments nor annotations, e.g. tell.
type Atom string

func (Atom) term() {}

// Name returns the functor of the atom.
func (a Atom) Name() string {
	return string(a)
}

// Arity returns 0.
func (a Atom) Arity() int {
	return 0
}

// Arg panics since an atom has no arguments.
func (a Atom) Arg(n int) Term {
	panic("engine: atom has no arguments")
}

// IsNegated returns false.
func (a Atom) IsNegated() bool {
	return false
}

// Annotations returns nil.
func (a Atom) Annotations() []Term {
	return nil
}

// AnnotationTail returns nil.
func (a Atom) AnnotationTail() *Variable {
	return nil
}

// Negate returns ~a.
func (a Atom) Negate() Literal {
	return &Structure{Functor: string(a), Negated: true}
}

// Apply returns a Structure which functor is the Atom and arguments are args. If args are empty, returns itself.
func (a Atom) Apply(args ...Term) Term {
	if len(args) == 0 {
		return a
	}
	return NewStructure(string(a), args...)
}

// Clone returns the atom itself since it's immutable.
func (a Atom) Clone() Term {
	return a
}

func (a Atom) String() string {
	return string(a)
}
