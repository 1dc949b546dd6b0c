package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for tri-state JSON and query
// parameters:
//   - Present=false: field absent (no filter / don't change)
//   - Present=true, Value=nil: explicit null
//   - Present=true, Value=&"id": a concrete value
type OptionalString struct {
	Present bool
	Value   *string
}

// Null is a present, null OptionalString.
func Null() OptionalString {
	return OptionalString{Present: true}
}

// Some is a present OptionalString holding s.
func Some(s string) OptionalString {
	return OptionalString{Present: true, Value: &s}
}

// FromPtr is Null for nil and Some otherwise.
func FromPtr(s *string) OptionalString {
	if s == nil {
		return Null()
	}
	return Some(*s)
}

// UnmarshalJSON is only called when the field is present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON writes null for an absent or null value. Callers that must omit
// absent fields check Present themselves.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// QueryParam decodes a query parameter where the literal "null" means an
// explicit null.
func QueryParam(values map[string][]string, name string) OptionalString {
	v, ok := values[name]
	if !ok || len(v) == 0 {
		return OptionalString{}
	}
	if v[0] == "null" {
		return Null()
	}
	return Some(v[0])
}

// QueryValue is the inverse of QueryParam. ok is false when absent.
func (o OptionalString) QueryValue() (value string, ok bool) {
	if !o.Present {
		return "", false
	}
	if o.Value == nil {
		return "null", true
	}
	return *o.Value, true
}
