package advice

import (
	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/llm/schema"
)

// ToolName is the function the model must call.
const ToolName = "emit_item_order"

var orderSchema = schema.Obj([]schema.Property{
	schema.Prop("purchase_order", schema.ArrayOf(schema.Obj([]schema.Property{
		schema.Prop("item", schema.Str().Describe("Name of the recommended item to purchase.")),
		schema.Prop("why", schema.Str().Describe("Reason for purchasing this item.")),
		schema.Prop("phase", schema.Str(Phases...).Describe("Game phase for this item purchase.")),
	}, "item", "why", "phase")).Describe("List of recommended item purchases in order, with explanation and game phase for each.")),
}, "purchase_order")

// PurchaseOrderTool is the strict tool offered on every advice call.
func PurchaseOrderTool() llm.Tool {
	return llm.Tool{
		Name:        ToolName,
		Description: "Returns only the recommended item purchase order.",
		Parameters:  orderSchema,
		Strict:      true,
	}
}
