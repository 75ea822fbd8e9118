package engine

import (
	"strings"

	"github.com/google/uuid"
)

// Binding is a pair of a variable and its value.
type Binding struct {
	Variable Variable
	Value    Term
}

// Bindings returns the bindings in the standard order of their variables. The variables inside the values are
// replaced with fresh placeholders so that the internal aliasing doesn't leak to the receiver. Within one call,
// the same variable is always replaced with the same placeholder.
func (u *Unifier) Bindings() []Binding {
	ks := u.keys()
	ret := make([]Binding, 0, len(ks))
	placeholders := map[string]string{}
	for _, k := range ks {
		ret = append(ret, Binding{
			Variable: k.variable(),
			Value:    anonymize(u.bindings[k], placeholders),
		})
	}
	return ret
}

func anonymize(t Term, placeholders map[string]string) Term {
	switch t := t.(type) {
	case Variable:
		name, ok := placeholders[t.Name]
		if !ok {
			name = "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
			placeholders[t.Name] = name
		}
		v := Variable{
			Name:    name,
			Negated: t.Negated,
			Annots:  anonymizeAll(t.Annots, placeholders),
		}
		if t.Tail != nil {
			tail := anonymize(*t.Tail, placeholders).(Variable)
			v.Tail = &tail
		}
		return v
	case *Structure:
		s := Structure{
			Functor: t.Functor,
			Args:    anonymizeAll(t.Args, placeholders),
			Annots:  anonymizeAll(t.Annots, placeholders),
			Negated: t.Negated,
		}
		if t.Tail != nil {
			tail := anonymize(*t.Tail, placeholders).(Variable)
			s.Tail = &tail
		}
		return &s
	case List:
		return List(anonymizeAll(t, placeholders))
	case *Expr:
		return &Expr{Op: t.Op, Args: anonymizeAll(t.Args, placeholders)}
	case *CyclicTerm:
		return &CyclicTerm{
			Body: anonymize(t.Body, placeholders).(Literal),
			Var:  anonymize(t.Var, placeholders).(Variable),
		}
	default:
		return t
	}
}

func anonymizeAll(ts []Term, placeholders map[string]string) []Term {
	if ts == nil {
		return nil
	}
	ret := make([]Term, len(ts))
	for i, t := range ts {
		ret[i] = anonymize(t, placeholders)
	}
	return ret
}
