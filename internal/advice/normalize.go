package advice

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/llm/schema"
)

type orderArguments struct {
	PurchaseOrder PurchaseOrder `json:"purchase_order"`
}

// Normalize decodes a tool call into a PurchaseOrder. Arguments may arrive
// string-encoded or already decoded; both are validated against the tool schema.
// Rows are not repaired.
func Normalize(call *llm.ToolCall) (PurchaseOrder, error) {
	if call == nil {
		return nil, &MalformedArgumentsError{Reason: "no tool call"}
	}
	args := call.Arguments

	var doc []byte
	switch args.Kind {
	case llm.ArgumentsStringEncoded:
		doc = []byte(args.Encoded)
		if !json.Valid(doc) {
			return nil, &MalformedArgumentsError{Reason: "arguments string is not valid json", Arguments: args}
		}
	case llm.ArgumentsDecoded:
		doc = args.Value
	default:
		return nil, &MalformedArgumentsError{Reason: "arguments are missing", Arguments: args}
	}

	if err := orderSchema.ValidateJSON(doc); err != nil {
		var serr *schema.Error
		if errors.As(err, &serr) {
			return nil, &MalformedArgumentsError{Reason: serr.Error(), Arguments: args}
		}
		return nil, &MalformedArgumentsError{Reason: err.Error(), Arguments: args}
	}

	var parsed orderArguments
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return nil, &MalformedArgumentsError{Reason: err.Error(), Arguments: args}
	}
	for i, row := range parsed.PurchaseOrder {
		if strings.TrimSpace(row.Item) == "" {
			return nil, &MalformedArgumentsError{
				Reason:    "$.purchase_order[" + strconv.Itoa(i) + "].item: must not be empty",
				Arguments: args,
			}
		}
	}
	if parsed.PurchaseOrder == nil {
		parsed.PurchaseOrder = PurchaseOrder{}
	}
	return parsed.PurchaseOrder, nil
}

// EncodeArguments renders an order in the tool's wire form.
func EncodeArguments(order PurchaseOrder) ([]byte, error) {
	if order == nil {
		order = PurchaseOrder{}
	}
	return json.Marshal(orderArguments{PurchaseOrder: order})
}
