package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtom(t *testing.T) {
	a := Atom("tell")
	assert.Equal(t, "tell", a.Name())
	assert.Equal(t, 0, a.Arity())
	assert.False(t, a.IsNegated())
	assert.Empty(t, a.Annotations())
	assert.Nil(t, a.AnnotationTail())
	assert.Panics(t, func() { a.Arg(0) })
}

func TestAtom_Apply(t *testing.T) {
	assert.Equal(t, NewStructure("p", Number(1), Var("X")), Atom("p").Apply(Number(1), Var("X")))
}

func TestAtom_Negate(t *testing.T) {
	n := Atom("p").Negate()
	assert.True(t, n.IsNegated())
	assert.Equal(t, "~p", n.String())
	assert.True(t, Equal(Atom("p"), Negate(n)))
}
