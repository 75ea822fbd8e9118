package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var varCounter uint64

// Variable is a logical variable. Two variables denote the same binding site iff their names and polarities match.
type Variable struct {
	Name    string
	Negated bool

	// Annots are annotations a matched literal must carry, as in X[source(self)].
	Annots []Term

	// Tail, if any, captures the annotations of the matched literal that Annots didn't mention.
	Tail *Variable
}

// NewVariable creates a new anonymous variable.
func NewVariable() Variable {
	n := atomic.AddUint64(&varCounter, 1)
	return Variable{Name: fmt.Sprintf("_%d", n)}
}

// Var returns a positive variable named name.
func Var(name string) Variable {
	return Variable{Name: name}
}

func (Variable) term() {}

// varKey identifies a binding site.
type varKey struct {
	name    string
	negated bool
}

func (v Variable) key() varKey {
	return varKey{name: v.Name, negated: v.Negated}
}

func (k varKey) variable() Variable {
	return Variable{Name: k.name, Negated: k.negated}
}

// bare returns the binding site of v without annotations.
func (v Variable) bare() Variable {
	return Variable{Name: v.Name, Negated: v.Negated}
}

// Positive returns v with a positive polarity.
func (v Variable) Positive() Variable {
	v.Negated = false
	return v
}

// Negate returns v with its polarity flipped.
func (v Variable) Negate() Variable {
	v.Negated = !v.Negated
	return v
}

// IsNegated checks if v denotes a negated proposition.
func (v Variable) IsNegated() bool {
	return v.Negated
}

// Annotations returns the annotations attached to the variable.
func (v Variable) Annotations() []Term {
	return v.Annots
}

// AnnotationTail returns the remainder variable of the annotations.
func (v Variable) AnnotationTail() *Variable {
	return v.Tail
}

// HasAnnotations checks if the variable carries annotations or an annotation remainder.
func (v Variable) HasAnnotations() bool {
	return len(v.Annots) > 0 || v.Tail != nil
}

// WithAnnots returns v annotated with annots.
func (v Variable) WithAnnots(annots ...Term) Variable {
	v.Annots = normalizeAnnots(annots)
	return v
}

// WithTail returns v whose remaining annotations are captured by tail.
func (v Variable) WithTail(tail Variable) Variable {
	t := tail.bare()
	v.Tail = &t
	return v
}

// Clone returns a copy of the variable.
func (v Variable) Clone() Term {
	v.Annots = cloneTerms(v.Annots)
	if v.Tail != nil {
		t := *v.Tail
		v.Tail = &t
	}
	return v
}

func (v Variable) String() string {
	var sb strings.Builder
	if v.Negated {
		_, _ = sb.WriteString("~")
	}
	_, _ = sb.WriteString(v.Name)
	writeAnnotations(&sb, v.Annots, v.Tail)
	return sb.String()
}

// Anonymous checks if the variable was created by NewVariable or by anonymizing an exported value.
func (v Variable) Anonymous() bool {
	return strings.HasPrefix(v.Name, "_")
}
