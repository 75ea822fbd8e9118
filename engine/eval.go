package engine

import (
	"github.com/cockroachdb/apd"
)

// decimalContext carries out arithmetic in decimal so that 0.1+0.2 evaluates to 0.3.
var decimalContext = apd.BaseContext.WithPrecision(34)

type (
	unaryOp  func(d, x *apd.Decimal) (apd.Condition, error)
	binaryOp func(d, x, y *apd.Decimal) (apd.Condition, error)
)

var (
	unaryOps = map[string]unaryOp{
		"-": decimalContext.Neg,
		"+": func(d, x *apd.Decimal) (apd.Condition, error) {
			d.Set(x)
			return 0, nil
		},
	}
	binaryOps = map[string]binaryOp{
		"+":   decimalContext.Add,
		"-":   decimalContext.Sub,
		"*":   decimalContext.Mul,
		"/":   decimalContext.Quo,
		"div": decimalContext.QuoInteger,
		"mod": decimalContext.Rem,
		"**":  decimalContext.Pow,
	}
)

// Solve evaluates the expression under u.
func (e *Expr) Solve(u *Unifier) (float64, error) {
	d, err := e.decimal(u)
	if err != nil {
		return 0, err
	}
	f, err := d.Float64()
	if err != nil {
		return 0, evaluationError(e, err)
	}
	return f, nil
}

func (e *Expr) decimal(u *Unifier) (*apd.Decimal, error) {
	switch len(e.Args) {
	case 1:
		op, ok := unaryOps[e.Op]
		if !ok {
			return nil, evaluationError(e, ErrUnknownOperator)
		}
		x, err := decimal(e.Args[0], u)
		if err != nil {
			return nil, evaluationError(e, err)
		}
		var d apd.Decimal
		if _, err := op(&d, x); err != nil {
			return nil, evaluationError(e, err)
		}
		return &d, nil
	case 2:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, evaluationError(e, ErrUnknownOperator)
		}
		x, err := decimal(e.Args[0], u)
		if err != nil {
			return nil, evaluationError(e, err)
		}
		y, err := decimal(e.Args[1], u)
		if err != nil {
			return nil, evaluationError(e, err)
		}
		var d apd.Decimal
		if _, err := op(&d, x, y); err != nil {
			return nil, evaluationError(e, err)
		}
		return &d, nil
	default:
		return nil, evaluationError(e, ErrUnknownOperator)
	}
}

func decimal(t Term, u *Unifier) (*apd.Decimal, error) {
	switch t := t.(type) {
	case Number:
		d, err := new(apd.Decimal).SetFloat64(float64(t))
		if err != nil {
			return nil, evaluationError(t, err)
		}
		return d, nil
	case *Expr:
		return t.decimal(u)
	case Variable:
		if u == nil {
			return nil, evaluationError(t, ErrInstantiation)
		}
		v, ok := u.Lookup(t)
		if !ok {
			return nil, evaluationError(t, ErrInstantiation)
		}
		return decimal(v, u)
	default:
		return nil, evaluationError(t, ErrNotNumeric)
	}
}

// Evaluate reduces t to a Number if it's an arithmetic expression. Other terms are returned as they are.
func Evaluate(t Term, u *Unifier) (Term, error) {
	e, ok := t.(*Expr)
	if !ok {
		return t, nil
	}
	f, err := e.Solve(u)
	if err != nil {
		return nil, err
	}
	return Number(f), nil
}

// Solve evaluates a numeric term under u.
func Solve(t Term, u *Unifier) (float64, error) {
	switch t := t.(type) {
	case Numeric:
		return t.Solve(u)
	case Variable:
		if u == nil {
			return 0, evaluationError(t, ErrInstantiation)
		}
		v, ok := u.Lookup(t)
		if !ok {
			return 0, evaluationError(t, ErrInstantiation)
		}
		return Solve(v, u)
	default:
		return 0, evaluationError(t, ErrNotNumeric)
	}
}
