// Package schema describes tool parameters declaratively and validates decoded
// arguments against the same description that is sent to the model.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Type is a JSON schema primitive type.
type Type string

const (
	Object  Type = "object"
	Array   Type = "array"
	String  Type = "string"
	Integer Type = "integer"
	Number  Type = "number"
	Boolean Type = "boolean"
)

// Property is a named object member. Declaration order is kept for rendering.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is the subset of JSON schema used by tool definitions.
type Schema struct {
	Type        Type
	Description string
	Enum        []string
	Properties  []Property
	Required    []string
	// AllowAdditional permits members not listed in Properties.
	AllowAdditional bool
	Items           *Schema
}

// Obj builds an object schema. Required lists the mandatory members.
func Obj(props []Property, required ...string) *Schema {
	return &Schema{Type: Object, Properties: props, Required: required}
}

// ArrayOf builds an array schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: Array, Items: items}
}

// Str builds a string schema, optionally restricted to enum values.
func Str(enum ...string) *Schema {
	return &Schema{Type: String, Enum: enum}
}

// Int builds an integer schema.
func Int() *Schema { return &Schema{Type: Integer} }

// Bool builds a boolean schema.
func Bool() *Schema { return &Schema{Type: Boolean} }

// Prop pairs a name with a schema.
func Prop(name string, s *Schema) Property { return Property{Name: name, Schema: s} }

// Describe sets the description and returns s.
func (s *Schema) Describe(text string) *Schema {
	s.Description = text
	return s
}

// Property looks up a member schema by name.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// ToMap renders the schema as the JSON-compatible map the provider SDKs take.
func (s *Schema) ToMap() map[string]any {
	if s == nil {
		return map[string]any{"type": string(Object)}
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		for i, v := range s.Enum {
			enum[i] = v
		}
		out["enum"] = enum
	}
	switch s.Type {
	case Object:
		props := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.ToMap()
		}
		out["properties"] = props
		required := make([]any, len(s.Required))
		for i, r := range s.Required {
			required[i] = r
		}
		out["required"] = required
		out["additionalProperties"] = s.AllowAdditional
	case Array:
		if s.Items != nil {
			out["items"] = s.Items.ToMap()
		}
	}
	return out
}

// MarshalJSON renders the schema in JSON schema form.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// CheckStrict reports whether every object lists all of its properties as required
// and forbids additional members, the contract strict tool calling depends on.
func (s *Schema) CheckStrict() error {
	return s.checkStrict("$")
}

func (s *Schema) checkStrict(path string) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case Object:
		if s.AllowAdditional {
			return fmt.Errorf("%s: additional properties must be disallowed", path)
		}
		required := make(map[string]bool, len(s.Required))
		for _, r := range s.Required {
			required[r] = true
		}
		for _, p := range s.Properties {
			if !required[p.Name] {
				return fmt.Errorf("%s.%s: property must be required", path, p.Name)
			}
			if err := p.Schema.checkStrict(path + "." + p.Name); err != nil {
				return err
			}
		}
		for _, r := range s.Required {
			if _, ok := s.Property(r); !ok {
				return fmt.Errorf("%s.%s: required property is not declared", path, r)
			}
		}
	case Array:
		return s.Items.checkStrict(path + "[]")
	}
	return nil
}

// Error is a validation failure at a JSON path.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Reason
}

// ValidateJSON decodes doc and validates it.
func (s *Schema) ValidateJSON(doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return &Error{Path: "$", Reason: "invalid json: " + err.Error()}
	}
	return s.Validate(v)
}

// Validate checks a value produced by encoding/json against the schema.
func (s *Schema) Validate(v any) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v any) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case Object:
		obj, ok := v.(map[string]any)
		if !ok {
			return &Error{Path: path, Reason: "expected object, got " + kindOf(v)}
		}
		for _, r := range s.Required {
			if _, ok := obj[r]; !ok {
				return &Error{Path: path + "." + r, Reason: "is required"}
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			prop, ok := s.Property(k)
			if !ok {
				if !s.AllowAdditional {
					return &Error{Path: path + "." + k, Reason: "is not allowed"}
				}
				continue
			}
			if err := prop.validate(path+"."+k, obj[k]); err != nil {
				return err
			}
		}
	case Array:
		arr, ok := v.([]any)
		if !ok {
			return &Error{Path: path, Reason: "expected array, got " + kindOf(v)}
		}
		for i, item := range arr {
			if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case String:
		str, ok := v.(string)
		if !ok {
			return &Error{Path: path, Reason: "expected string, got " + kindOf(v)}
		}
		if len(s.Enum) > 0 && !contains(s.Enum, str) {
			return &Error{Path: path, Reason: fmt.Sprintf("must be one of %s", strings.Join(s.Enum, ", "))}
		}
	case Integer:
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			return &Error{Path: path, Reason: "expected integer, got " + kindOf(v)}
		}
	case Number:
		if _, ok := v.(float64); !ok {
			return &Error{Path: path, Reason: "expected number, got " + kindOf(v)}
		}
	case Boolean:
		if _, ok := v.(bool); !ok {
			return &Error{Path: path, Reason: "expected boolean, got " + kindOf(v)}
		}
	}
	return nil
}

func kindOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		if t == math.Trunc(t) {
			return "integer"
		}
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
