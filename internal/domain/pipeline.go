package domain

import (
	"fmt"
	"strings"
	"time"
)

// PipelineState is the state a pipeline is set to.
type PipelineState string

const (
	StateNull    PipelineState = "null"
	StateReady   PipelineState = "ready"
	StatePaused  PipelineState = "paused"
	StatePlaying PipelineState = "playing"
)

// ValidStates contains all valid pipeline states.
var ValidStates = []PipelineState{StateNull, StateReady, StatePaused, StatePlaying}

// IsValid checks if the state is a valid pipeline state.
func (s PipelineState) IsValid() bool {
	for _, v := range ValidStates {
		if s == v {
			return true
		}
	}
	return false
}

// Pipeline is a named pipeline created from a textual description.
type Pipeline struct {
	Name        string
	Description string
	State       PipelineState
	Elements    []*Element
	CreatedAt   time.Time
}

// Element is one element of a pipeline. Properties hold the values given
// in the description or set later, as text.
type Element struct {
	Name       string
	Factory    string
	Properties map[string]string
}

// Element returns the element called name, or nil.
func (p *Pipeline) Element(name string) *Element {
	for _, e := range p.Elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// ElementNames returns the element names in description order.
func (p *Pipeline) ElementNames() []string {
	names := make([]string, 0, len(p.Elements))
	for _, e := range p.Elements {
		names = append(names, e.Name)
	}
	return names
}

// NewPipeline parses description and returns a pipeline in the null state.
//
// The description is a list of elements separated by "!". Each element is
// a factory name followed by property=value pairs. Elements without a name
// property are named after their factory and a per-factory counter, like
// "fakesrc0".
func NewPipeline(name, description string) (*Pipeline, error) {
	if name == "" {
		return nil, &DomainError{Code: CodeMissingName, Message: "Pipeline name is required"}
	}
	if strings.TrimSpace(description) == "" {
		return nil, NewBadDescriptionError("empty description")
	}

	p := &Pipeline{
		Name:        name,
		Description: description,
		State:       StateNull,
		CreatedAt:   time.Now().UTC(),
	}

	counters := map[string]int{}
	for i, segment := range strings.Split(description, "!") {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			return nil, NewBadDescriptionError(fmt.Sprintf("empty element at position %d", i))
		}

		factory := fields[0]
		if strings.Contains(factory, "=") {
			return nil, NewBadDescriptionError(fmt.Sprintf("element %d has no factory", i))
		}

		e := &Element{Factory: factory, Properties: map[string]string{}}
		for _, field := range fields[1:] {
			key, value, ok := strings.Cut(field, "=")
			if !ok || key == "" {
				return nil, NewBadDescriptionError(fmt.Sprintf("malformed property %q", field))
			}
			e.Properties[key] = strings.Trim(value, `"`)
		}

		if n, ok := e.Properties["name"]; ok {
			e.Name = n
		} else {
			e.Name = fmt.Sprintf("%s%d", factory, counters[factory])
			counters[factory]++
		}
		if p.Element(e.Name) != nil {
			return nil, NewBadDescriptionError(fmt.Sprintf("duplicate element name %q", e.Name))
		}
		p.Elements = append(p.Elements, e)
	}

	return p, nil
}
