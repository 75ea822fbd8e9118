package engine

import (
	"strconv"
	"strings"
)

// Number is a numeric constant.
type Number float64

func (Number) term() {}

// Solve returns the value of the number.
func (n Number) Solve(*Unifier) (float64, error) {
	return float64(n), nil
}

// Clone returns the number itself since it's immutable.
func (n Number) Clone() Term {
	return n
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Expr is an arithmetic expression such as X+1. It is reduced to a Number before structural comparison.
type Expr struct {
	Op   string
	Args []Term
}

// NewExpr creates an arithmetic expression.
func NewExpr(op string, args ...Term) *Expr {
	return &Expr{Op: op, Args: args}
}

func (*Expr) term() {}

// Clone returns a structural copy of the expression.
func (e *Expr) Clone() Term {
	return &Expr{Op: e.Op, Args: cloneTerms(e.Args)}
}

func (e *Expr) String() string {
	var sb strings.Builder
	switch len(e.Args) {
	case 1:
		_, _ = sb.WriteString("(")
		_, _ = sb.WriteString(e.Op)
		_, _ = sb.WriteString(e.Args[0].String())
		_, _ = sb.WriteString(")")
	case 2:
		_, _ = sb.WriteString("(")
		_, _ = sb.WriteString(e.Args[0].String())
		_, _ = sb.WriteString(e.Op)
		_, _ = sb.WriteString(e.Args[1].String())
		_, _ = sb.WriteString(")")
	default:
		_, _ = sb.WriteString(e.Op)
		_, _ = sb.WriteString("(")
		writeTerms(&sb, e.Args)
		_, _ = sb.WriteString(")")
	}
	return sb.String()
}
