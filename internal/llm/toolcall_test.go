package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFindToolCallStringArguments(t *testing.T) {
	raw := []byte(`{"output":[
		{"type":"reasoning","id":"rs_1"},
		{"type":"function_call","id":"fc_1","call_id":"call_1","name":"emit_item_order","arguments":"{\"purchase_order\":[]}"}
	]}`)
	call, ok := FindToolCall(raw, "emit_item_order")
	if !ok {
		t.Fatalf("expected tool call")
	}
	if call.Arguments.Kind != ArgumentsStringEncoded {
		t.Fatalf("expected string-encoded arguments, got %s", call.Arguments.Kind)
	}
	if call.CallID != "call_1" || call.Type != "function_call" {
		t.Fatalf("unexpected call %+v", call)
	}
	doc, err := call.Arguments.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if string(doc) != `{"purchase_order":[]}` {
		t.Fatalf("unexpected document %s", doc)
	}
}

func TestFindToolCallDecodedArguments(t *testing.T) {
	raw := []byte(`{"output":[{"type":"tool_call","name":"emit_item_order","arguments":{"purchase_order":[{"item":"Tango"}]}}]}`)
	call, ok := FindToolCall(raw, "emit_item_order")
	if !ok {
		t.Fatalf("expected legacy tool_call to match")
	}
	if call.Arguments.Kind != ArgumentsDecoded {
		t.Fatalf("expected decoded arguments, got %s", call.Arguments.Kind)
	}
	doc, err := call.Arguments.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal(doc, &v); err != nil {
		t.Fatalf("decoded document is not json: %v", err)
	}
}

func TestFindToolCallPrefersFunctionCall(t *testing.T) {
	raw := []byte(`{"output":[
		{"type":"tool_call","name":"emit_item_order","arguments":"{\"legacy\":true}"},
		{"type":"function_call","name":"emit_item_order","arguments":"{\"legacy\":false}"}
	]}`)
	call, ok := FindToolCall(raw, "emit_item_order")
	if !ok || call.Type != "function_call" {
		t.Fatalf("expected function_call to win, got %+v", call)
	}
}

func TestFindToolCallNoMatch(t *testing.T) {
	tests := map[string]string{
		"other tool":  `{"output":[{"type":"function_call","name":"emit_tick_extract","arguments":"{}"}]}`,
		"text only":   `{"output":[{"type":"message","content":[{"type":"output_text","text":"hi"}]}]}`,
		"no output":   `{"id":"resp_1"}`,
		"not json":    `nope`,
		"empty array": `{"output":[]}`,
	}
	for name, raw := range tests {
		if _, ok := FindToolCall([]byte(raw), "emit_item_order"); ok {
			t.Fatalf("%s: expected no match", name)
		}
	}
}

func TestRawArgumentsDocumentErrors(t *testing.T) {
	if _, err := (RawArguments{}).Document(); !errors.Is(err, ErrMissingArguments) {
		t.Fatalf("expected ErrMissingArguments, got %v", err)
	}
	if _, err := StringArguments("{not json").Document(); err == nil {
		t.Fatalf("expected error for invalid string payload")
	}
}

func TestRawArgumentsMarshalJSON(t *testing.T) {
	enc, _ := json.Marshal(StringArguments(`{"a":1}`))
	if string(enc) != `"{\"a\":1}"` {
		t.Fatalf("unexpected string encoding %s", enc)
	}
	dec, _ := json.Marshal(DecodedArguments(json.RawMessage(`{"a":1}`)))
	if string(dec) != `{"a":1}` {
		t.Fatalf("unexpected decoded encoding %s", dec)
	}
}
