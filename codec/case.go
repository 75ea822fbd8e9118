package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/agentspeak/reason/engine"
)

// Term is a term that can be a field of a YAML document.
type Term struct {
	engine.Term
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Term) UnmarshalYAML(n *yaml.Node) error {
	v, err := Decode(n)
	if err != nil {
		return err
	}
	t.Term = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Term) MarshalYAML() (interface{}, error) {
	return Encode(t.Term)
}

// Equation is a pair of terms to unify.
type Equation struct {
	Left  Term `yaml:"left"`
	Right Term `yaml:"right"`
}

// Case is a unification problem. The equations in Given are solved first, in order, and the result is
// discarded unless all of them succeed. Expect, if present, is the anticipated outcome of the last equation.
type Case struct {
	Name     string     `yaml:"name,omitempty"`
	Given    []Equation `yaml:"given,omitempty"`
	Equation `yaml:",inline"`
	Expect   *bool `yaml:"expect,omitempty"`
}

// ReadCases reads the cases of all the YAML documents in r. Each document is a sequence of cases.
func ReadCases(r io.Reader) ([]Case, error) {
	var ret []Case
	d := yaml.NewDecoder(r)
	for {
		var cs []Case
		if err := d.Decode(&cs); err != nil {
			if errors.Is(err, io.EOF) {
				return ret, nil
			}
			return nil, err
		}
		for i, c := range cs {
			if err := c.validate(); err != nil {
				return nil, fmt.Errorf("case %d: %w", len(ret)+i+1, err)
			}
		}
		ret = append(ret, cs...)
	}
}

func (c *Case) validate() error {
	if err := c.Equation.validate(); err != nil {
		return err
	}
	for _, e := range c.Given {
		if err := e.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Equation) validate() error {
	if e.Left.Term == nil || e.Right.Term == nil {
		return fmt.Errorf("%w: equation needs left and right", ErrInvalidTerm)
	}
	return nil
}

// EncodeBindings converts bs to a YAML mapping from variables to values, in the order of bs.
func EncodeBindings(bs []engine.Binding) (*yaml.Node, error) {
	n := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, b := range bs {
		v, err := Encode(b.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, scalar("!!str", b.Variable.String()), v)
	}
	return &n, nil
}

// MarshalBindings returns bs as a YAML document.
func MarshalBindings(bs []engine.Binding) ([]byte, error) {
	n, err := EncodeBindings(bs)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}
