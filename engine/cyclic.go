package engine

import "fmt"

// CyclicTerm is a literal that contains the variable it is bound to, e.g. X = f(X).
// The cycle is kept as data so that no term refers to itself in memory.
type CyclicTerm struct {
	Body Literal
	Var  Variable
}

func (*CyclicTerm) term() {}

// Name returns the functor of the body.
func (c *CyclicTerm) Name() string {
	return c.Body.Name()
}

// Arity returns the arity of the body.
func (c *CyclicTerm) Arity() int {
	return c.Body.Arity()
}

// Arg returns the nth argument of the body.
func (c *CyclicTerm) Arg(n int) Term {
	return c.Body.Arg(n)
}

// IsNegated checks if the body is negated.
func (c *CyclicTerm) IsNegated() bool {
	return c.Body.IsNegated()
}

// Annotations returns the annotations of the body.
func (c *CyclicTerm) Annotations() []Term {
	return annotationsOf(c.Body)
}

// AnnotationTail returns the annotation remainder of the body.
func (c *CyclicTerm) AnnotationTail() *Variable {
	if a, ok := c.Body.(Annotated); ok {
		return a.AnnotationTail()
	}
	return nil
}

// Clone returns a structural copy of the cyclic term.
func (c *CyclicTerm) Clone() Term {
	return &CyclicTerm{
		Body: c.Body.Clone().(Literal),
		Var:  c.Var.bare(),
	}
}

func (c *CyclicTerm) String() string {
	return fmt.Sprintf("...%s", c.Body)
}
