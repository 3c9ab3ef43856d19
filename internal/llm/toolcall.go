package llm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ArgumentsKind tags how a tool call carried its arguments.
type ArgumentsKind int

const (
	// ArgumentsMissing means the call had no arguments field.
	ArgumentsMissing ArgumentsKind = iota
	// ArgumentsStringEncoded means arguments arrived as a JSON document inside a string.
	ArgumentsStringEncoded
	// ArgumentsDecoded means arguments arrived as a structured JSON value.
	ArgumentsDecoded
)

func (k ArgumentsKind) String() string {
	switch k {
	case ArgumentsStringEncoded:
		return "string"
	case ArgumentsDecoded:
		return "decoded"
	default:
		return "missing"
	}
}

// RawArguments is the undecoded argument payload of a tool call.
type RawArguments struct {
	Kind ArgumentsKind
	// Encoded holds the string payload when Kind is ArgumentsStringEncoded.
	Encoded string
	// Value holds the JSON value when Kind is ArgumentsDecoded.
	Value json.RawMessage
}

// StringArguments wraps a string-encoded payload.
func StringArguments(s string) RawArguments {
	return RawArguments{Kind: ArgumentsStringEncoded, Encoded: s}
}

// DecodedArguments wraps an already structured payload.
func DecodedArguments(v json.RawMessage) RawArguments {
	return RawArguments{Kind: ArgumentsDecoded, Value: v}
}

// ErrMissingArguments is returned by Document when the call carried no arguments.
var ErrMissingArguments = errors.New("tool call has no arguments")

// Document returns the arguments as a JSON document regardless of representation.
func (a RawArguments) Document() ([]byte, error) {
	switch a.Kind {
	case ArgumentsStringEncoded:
		if !json.Valid([]byte(a.Encoded)) {
			return nil, fmt.Errorf("string-encoded arguments are not valid json")
		}
		return []byte(a.Encoded), nil
	case ArgumentsDecoded:
		if len(a.Value) == 0 {
			return nil, ErrMissingArguments
		}
		return a.Value, nil
	default:
		return nil, ErrMissingArguments
	}
}

// MarshalJSON renders the payload as it arrived, for error details.
func (a RawArguments) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ArgumentsStringEncoded:
		return json.Marshal(a.Encoded)
	case ArgumentsDecoded:
		if json.Valid(a.Value) {
			return a.Value, nil
		}
	}
	return []byte("null"), nil
}

// ToolCall is a structured call the model emitted.
type ToolCall struct {
	ID        string       `json:"id,omitempty"`
	CallID    string       `json:"call_id,omitempty"`
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	Arguments RawArguments `json:"arguments"`
}

// Output item types that carry a function call. "tool_call" is the legacy spelling.
const (
	outputFunctionCall = "function_call"
	outputToolCall     = "tool_call"
)

// FindToolCall scans the "output" list of a Responses payload for a call to name.
// function_call entries take precedence over legacy tool_call entries.
func FindToolCall(raw []byte, name string) (*ToolCall, bool) {
	output := gjson.GetBytes(raw, "output")
	if !output.IsArray() {
		return nil, false
	}
	for _, kind := range []string{outputFunctionCall, outputToolCall} {
		var found *ToolCall
		output.ForEach(func(_, item gjson.Result) bool {
			if item.Get("type").String() != kind || item.Get("name").String() != name {
				return true
			}
			found = &ToolCall{
				ID:        item.Get("id").String(),
				CallID:    item.Get("call_id").String(),
				Type:      kind,
				Name:      name,
				Arguments: argumentsOf(item.Get("arguments")),
			}
			return false
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

func argumentsOf(v gjson.Result) RawArguments {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return RawArguments{Kind: ArgumentsMissing}
	case v.Type == gjson.String:
		return StringArguments(v.String())
	default:
		return DecodedArguments(json.RawMessage(v.Raw))
	}
}
