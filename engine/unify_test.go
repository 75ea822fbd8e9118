package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestUnifier_Unify(t *testing.T) {
	x, y, z := Var("X"), Var("Y"), Var("Z")

	t.Run("itself", func(t *testing.T) {
		ts := []Term{
			Atom("a"),
			Number(1),
			x,
			NewStructure("p", x, NewList(Number(1), y), Pred("q", []Term{z}, Atom("a")).Negate()),
			NewExpr("+", x, Number(1)),
			x.WithAnnots(Atom("a")),
		}
		for _, tt := range ts {
			t.Run(tt.String(), func(t *testing.T) {
				u := NewUnifier()
				assert.True(t, u.Unify(tt, tt))
				assert.Equal(t, 0, u.Len())
			})
		}
	})

	t.Run("atoms", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(Atom("a"), Atom("a")))
		assert.True(t, u.Unify(Atom("a"), NewStructure("a")))
		assert.False(t, u.Unify(Atom("a"), Atom("b")))
		assert.False(t, u.Unify(Atom("a"), Number(1)))
		assert.False(t, u.Unify(Atom("a"), NewList()))
	})

	t.Run("numbers", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(Number(1), Number(1.0)))
		assert.False(t, u.Unify(Number(1), Number(2)))
	})

	t.Run("structures", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(NewStructure("p", x, Atom("b")), NewStructure("p", Atom("a"), y)))
		assert.Equal(t, "{X=a, Y=b}", u.String())

		assert.False(t, u.Unify(NewStructure("p", z), NewStructure("q", z)))
		assert.False(t, u.Unify(NewStructure("p", z), NewStructure("p", z, z)))
		assert.False(t, u.Unify(NewStructure("p", z), NewStructure("p", z).Negate()))
		assert.True(t, u.Unify(NewStructure("p", z).Negate(), NewStructure("p", Number(1)).Negate()))
	})

	t.Run("lists", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(NewList(Number(1), x), NewList(Number(1), NewList(Atom("a")))))
		assert.Equal(t, "{X=[a]}", u.String())
		assert.False(t, u.Unify(NewList(y), NewList(y, y)))
		assert.False(t, u.Unify(NewList(Atom("a")), NewStructure(".", Atom("a"))))
	})

	t.Run("left to right", func(t *testing.T) {
		u := NewUnifier()
		assert.False(t, u.Unify(NewStructure("p", x, x), NewStructure("p", Number(1), Number(2))))
		assert.True(t, u.Unify(NewStructure("p", x, NewExpr("+", x, Number(1))), NewStructure("p", Number(1), Number(2))))
		assert.Equal(t, "{X=1}", u.String())
	})

	t.Run("arithmetic", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(NewExpr("*", Number(2), Number(3)), Number(6)))
		assert.True(t, u.Unify(x, NewExpr("-", Number(10), Number(4))))
		v, _ := u.Lookup(x)
		assert.Equal(t, Number(6), v)
		assert.False(t, u.Unify(NewExpr("+", y, Number(1)), Number(2)))
		assert.False(t, u.Unify(NewExpr("/", Number(1), Number(0)), Number(1)))
	})

	t.Run("variables", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(y, x))
		assert.Equal(t, "{X=Y}", u.String())
		assert.True(t, u.Unify(x, Atom("a")))
		assert.Equal(t, "{X=Y, Y=a}", u.String())
		assert.True(t, u.Unify(y, Atom("a")))
		assert.False(t, u.Unify(x, Atom("b")))
	})

	t.Run("negation", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(x.Negate(), NewStructure("p", Number(1)).Negate()))
		v, ok := u.Lookup(x)
		assert.True(t, ok)
		assert.Equal(t, "p(1)", v.String())

		assert.True(t, u.Unify(x, NewStructure("p", Number(1))))
		assert.False(t, u.Unify(x, NewStructure("p", Number(1)).Negate()))
		assert.True(t, u.Unify(x.Negate(), NewStructure("p", Number(1)).Negate()))

		u = NewUnifier()
		assert.False(t, u.Unify(x.Negate(), NewStructure("p", Number(1))))
		assert.Equal(t, 0, u.Len())
	})
}

func TestUnifier_Unify_annotations(t *testing.T) {
	x := Var("X")
	one := []Term{Number(1)}

	t.Run("subset", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(Pred("p", one, Atom("a")), Pred("p", one, Atom("a"), Atom("b"))))
		assert.False(t, u.Unify(Pred("p", one, Atom("a"), Atom("b")), Pred("p", one, Atom("a"))))
		assert.True(t, u.Unify(NewStructure("p", Number(1)), Pred("p", one, Atom("a"))))
		assert.False(t, u.Unify(Pred("p", one, Atom("a")), NewStructure("p", Number(1))))
		assert.Equal(t, 0, u.Len())
	})

	t.Run("variables in annotations", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(
			Pred("p", one, NewStructure("source", x)),
			Pred("p", one, Atom("a"), NewStructure("source", Atom("self"))),
		))
		v, _ := u.Lookup(x)
		assert.Equal(t, Atom("self"), v)
	})

	t.Run("each annotation matches a distinct one", func(t *testing.T) {
		u := NewUnifier()
		y := Var("Y")
		assert.True(t, u.Unify(Pred("p", nil, x, y), Pred("p", nil, Atom("a"), Atom("b"))))
		assert.Equal(t, "{X=a, Y=b}", u.String())
	})

	t.Run("annotated variable", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(x.WithAnnots(Atom("a")), Pred("p", one, Atom("a"), Atom("b"))))
		v, _ := u.Lookup(x)
		assert.Equal(t, "p(1)", v.String())

		u = NewUnifier()
		assert.False(t, u.Unify(x.WithAnnots(Atom("c")), Pred("p", one, Atom("a"), Atom("b"))))
		assert.Equal(t, 0, u.Len())

		u = NewUnifier()
		assert.False(t, u.Unify(x.WithAnnots(Atom("c")), Atom("foo")))
	})

	t.Run("remaining annotations", func(t *testing.T) {
		u := NewUnifier()
		r := Var("R")
		assert.True(t, u.Unify(x.WithAnnots(Atom("a")).WithTail(r), Pred("p", one, Atom("a"), Atom("b"))))
		v, _ := u.Lookup(x)
		assert.Equal(t, "p(1)", v.String())
		v, _ = u.Lookup(r)
		assert.Equal(t, "[b]", v.String())
	})

	t.Run("annotated variable bound earlier", func(t *testing.T) {
		u := NewUnifier()
		y := Var("Y")
		assert.True(t, u.Unify(y, Pred("p", one, Atom("a"))))
		assert.True(t, u.Unify(x.WithAnnots(Atom("a")), y))
		v, _ := u.Lookup(x)
		assert.Equal(t, "p(1)", v.String())
	})
}

func TestUnifier_Unify_cyclic(t *testing.T) {
	x, y := Var("X"), Var("Y")

	t.Run("materialize", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(x, NewStructure("f", x)))
		v, ok := u.Lookup(x)
		assert.True(t, ok)
		c, ok := v.(*CyclicTerm)
		assert.True(t, ok)
		assert.Equal(t, x, c.Var)
		assert.Equal(t, "f(X)", c.Body.String())
	})

	t.Run("both cyclic", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(x, NewStructure("f", x)))
		assert.True(t, u.Unify(y, NewStructure("f", y)))
		assert.True(t, u.Unify(x, y))

		v, _ := u.Lookup(x)
		assert.IsType(t, &CyclicTerm{}, v)
		v, _ = u.Lookup(y)
		assert.IsType(t, &CyclicTerm{}, v)
	})

	t.Run("different bodies", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(x, NewStructure("f", x, Atom("a"))))
		assert.True(t, u.Unify(y, NewStructure("f", y, Atom("b"))))
		before := u.Clone()
		assert.False(t, u.Unify(x, y))
		assert.True(t, before.Equal(u))
	})

	t.Run("cyclic and acyclic", func(t *testing.T) {
		u := NewUnifier()
		z := Var("Z")
		assert.True(t, u.Unify(x, NewStructure("f", x)))
		assert.True(t, u.Unify(x, NewStructure("f", NewStructure("f", z))))
		v, _ := u.Lookup(z)
		assert.IsType(t, &CyclicTerm{}, v)
		assert.False(t, u.Unify(x, NewStructure("g", z)))
	})

	t.Run("cycle through a plain binding", func(t *testing.T) {
		u := NewUnifier()
		z := Var("Z")
		assert.True(t, u.Unify(x, NewStructure("f", y)))
		assert.True(t, u.Unify(y, NewStructure("g", x)))
		assert.True(t, u.Unify(z, NewStructure("f", NewStructure("g", z))))
		assert.Equal(t, "{X=f(Y), Y=...g(X), Z=...f(g(Z))}", u.String())

		before := u.Clone()
		assert.True(t, u.Unify(x, z))
		assert.True(t, before.Equal(u))
		assert.Empty(t, u.assumed)

		w := Var("W")
		assert.True(t, u.Unify(w, NewStructure("f", NewStructure("h", w))))
		before = u.Clone()
		assert.False(t, u.Unify(x, w))
		assert.True(t, before.Equal(u))
	})

	t.Run("removed cycle variable", func(t *testing.T) {
		u := NewUnifier()
		c := &CyclicTerm{Body: NewStructure("f", x), Var: x}
		assert.True(t, u.UnifyNoUndo(c, NewStructure("f", NewStructure("f", y))))
		v, ok := u.Lookup(x)
		assert.True(t, ok)
		assert.Equal(t, c, v)
	})
}

func TestUnifier_Unify_rollback(t *testing.T) {
	a, b, c, x, y := Var("A"), Var("B"), Var("C"), Var("X"), Var("Y")

	newUnifier := func() *Unifier {
		u := NewUnifier()
		assert.True(t, u.Unify(a, Number(1)))
		assert.True(t, u.Unify(b, NewStructure("p", c)))
		assert.True(t, u.Unify(Var("D"), Var("E")))
		assert.True(t, u.Unify(Var("E"), Var("F")))
		return u
	}

	tests := []struct {
		title  string
		t1, t2 Term
	}{
		{title: "late mismatch", t1: NewStructure("f", x, y, a), t2: NewStructure("f", Number(1), Number(2), Number(3))},
		{title: "bound variable", t1: b, t2: NewStructure("p", Number(1), Number(2))},
		{title: "annotations", t1: Pred("q", []Term{x}, Atom("a")), t2: NewStructure("q", Number(1))},
		{title: "chain", t1: NewStructure("g", Var("D"), c, Var("D")), t2: NewStructure("g", Number(1), NewList(), Number(2))},
		{title: "negation", t1: x.Negate(), t2: NewStructure("p", Number(1))},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			u := newUnifier()
			before := u.Clone()
			assert.False(t, u.Unify(tt.t1, tt.t2))
			assert.Empty(t, cmp.Diff(before, u, cmp.AllowUnexported(Unifier{}, varKey{})))
		})
	}

	t.Run("no undo", func(t *testing.T) {
		u := newUnifier()
		assert.False(t, u.UnifyNoUndo(NewStructure("f", x, y, a), NewStructure("f", Number(1), Number(2), Number(3))))
		v, ok := u.Lookup(x)
		assert.True(t, ok)
		assert.Equal(t, Number(1), v)
	})
}
