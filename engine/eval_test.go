package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		title string
		expr  Term
		n     Number
	}{
		{title: "addition", expr: NewExpr("+", Number(0.1), Number(0.2)), n: 0.3},
		{title: "subtraction", expr: NewExpr("-", Number(0.3), Number(0.1)), n: 0.2},
		{title: "multiplication", expr: NewExpr("*", Number(1.1), Number(3)), n: 3.3},
		{title: "division", expr: NewExpr("/", Number(1), Number(4)), n: 0.25},
		{title: "integer division", expr: NewExpr("div", Number(7), Number(2)), n: 3},
		{title: "modulo", expr: NewExpr("mod", Number(7), Number(3)), n: 1},
		{title: "power", expr: NewExpr("**", Number(2), Number(10)), n: 1024},
		{title: "negation", expr: NewExpr("-", Number(5)), n: -5},
		{title: "plus", expr: NewExpr("+", Number(5)), n: 5},
		{title: "nested", expr: NewExpr("*", NewExpr("+", Number(1), Number(2)), NewExpr("-", Number(4))), n: -12},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			n, err := Evaluate(tt.expr, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.n, n)
		})
	}

	t.Run("variable", func(t *testing.T) {
		u := NewUnifier()
		assert.True(t, u.Unify(Var("X"), Number(41)))

		n, err := Evaluate(NewExpr("+", Var("X"), Number(1)), u)
		assert.NoError(t, err)
		assert.Equal(t, Number(42), n)
	})

	t.Run("not an expression", func(t *testing.T) {
		n, err := Evaluate(Atom("a"), nil)
		assert.NoError(t, err)
		assert.Equal(t, Atom("a"), n)
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := Evaluate(NewExpr("/", Number(1), Number(0)), nil)
		var ee *EvaluationError
		assert.True(t, errors.As(err, &ee))
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := Evaluate(NewExpr("foo", Number(1), Number(2)), nil)
		assert.ErrorIs(t, err, ErrUnknownOperator)
	})

	t.Run("unbound variable", func(t *testing.T) {
		_, err := Evaluate(NewExpr("+", Var("X"), Number(1)), NewUnifier())
		assert.ErrorIs(t, err, ErrInstantiation)

		var ee *EvaluationError
		assert.True(t, errors.As(err, &ee))
		assert.Equal(t, Var("X"), ee.Term)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := Evaluate(NewExpr("+", Atom("a"), Number(1)), nil)
		assert.ErrorIs(t, err, ErrNotNumeric)
	})
}

func TestSolve(t *testing.T) {
	u := NewUnifier()
	assert.True(t, u.Unify(Var("X"), NewExpr("*", Number(2), Number(3))))

	f, err := Solve(Var("X"), u)
	assert.NoError(t, err)
	assert.Equal(t, 6.0, f)

	f, err = Solve(Number(1.5), u)
	assert.NoError(t, err)
	assert.Equal(t, 1.5, f)

	_, err = Solve(Var("Y"), u)
	assert.ErrorIs(t, err, ErrInstantiation)

	_, err = Solve(NewStructure("p", Number(1)), u)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestEvaluationError_Error(t *testing.T) {
	err := evaluationError(Var("X"), ErrInstantiation)
	assert.Equal(t, "evaluation of X failed: instantiation error", err.Error())

	// An error already attributed to a term keeps the innermost term.
	assert.Equal(t, err, evaluationError(NewExpr("+", Var("X"), Number(1)), err))
}
