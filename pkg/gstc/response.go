package gstc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decoder extracts a named integer field from a daemon response.
type Decoder interface {
	Int(response, field string) (int, error)
}

// PayloadDecoder is implemented by decoders that can also read the
// response payload returned by read commands.
type PayloadDecoder interface {
	Decoder
	// String returns a top-level string field such as "description".
	String(response, field string) (string, error)
	// Nodes returns the names of the child nodes listed in the payload.
	Nodes(response string) ([]string, error)
	// Value returns the payload's value rendered as text.
	Value(response string) (string, error)
}

// JSONDecoder reads gstd's JSON responses:
//
//	{"code": 0, "description": "Success", "response": {...}}
type JSONDecoder struct{}

var _ PayloadDecoder = JSONDecoder{}

func (JSONDecoder) fields(response string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(response), &fields); err != nil {
		return nil, newError(StatusMalformed, "decode", err)
	}
	if fields == nil {
		return nil, newError(StatusMalformed, "decode", fmt.Errorf("response is not an object"))
	}
	return fields, nil
}

func (d JSONDecoder) field(response, field string) (json.RawMessage, error) {
	fields, err := d.fields(response)
	if err != nil {
		return nil, err
	}
	raw, ok := fields[field]
	if !ok {
		return nil, newError(StatusNotFound, "decode", fmt.Errorf("field %q not found", field))
	}
	return raw, nil
}

// Int returns the integer stored under field.
func (d JSONDecoder) Int(response, field string) (int, error) {
	raw, err := d.field(response, field)
	if err != nil {
		return 0, err
	}
	var value int
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, newError(StatusTypeError, "decode", fmt.Errorf("field %q is not an integer", field))
	}
	return value, nil
}

// String returns the string stored under field.
func (d JSONDecoder) String(response, field string) (string, error) {
	raw, err := d.field(response, field)
	if err != nil {
		return "", err
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", newError(StatusTypeError, "decode", fmt.Errorf("field %q is not a string", field))
	}
	return value, nil
}

// payload mirrors the "response" object gstd attaches to read commands.
type payload struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
	Nodes []struct {
		Name string `json:"name"`
	} `json:"nodes"`
}

func (d JSONDecoder) payload(response string) (*payload, error) {
	raw, err := d.field(response, "response")
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, newError(StatusMalformed, "decode", err)
	}
	return &p, nil
}

// Nodes returns the names listed under response.nodes.
func (d JSONDecoder) Nodes(response string) ([]string, error) {
	p, err := d.payload(response)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		names = append(names, n.Name)
	}
	return names, nil
}

// Value returns response.value. Strings are returned unquoted; numbers,
// booleans and objects in their JSON form.
func (d JSONDecoder) Value(response string) (string, error) {
	p, err := d.payload(response)
	if err != nil {
		return "", err
	}
	if len(p.Value) == 0 {
		return "", newError(StatusNotFound, "decode", fmt.Errorf("field %q not found", "value"))
	}
	var s string
	if err := json.Unmarshal(p.Value, &s); err == nil {
		return s, nil
	}
	return strings.TrimSpace(string(p.Value)), nil
}
