package advice

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"dota-coach-backend/internal/catalog"
	"dota-coach-backend/internal/llm"
)

// scriptedLLM replays one scripted reply per call and records every invocation.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []reply
	calls   []llm.Invocation
}

type reply struct {
	res llm.Result
	err error
}

func (s *scriptedLLM) Invoke(ctx context.Context, inv llm.Invocation) (llm.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, inv)
	if err := ctx.Err(); err != nil {
		return llm.Result{}, llm.NewTransportError("invoke "+inv.Tool.Name, 0, err)
	}
	idx := len(s.calls) - 1
	if idx >= len(s.replies) {
		return llm.Result{}, &llm.NoToolCallError{Tool: inv.Tool.Name}
	}
	return s.replies[idx].res, s.replies[idx].err
}

func (s *scriptedLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedLLM) Invocation(i int) llm.Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func newScripted(replies ...reply) *scriptedLLM {
	return &scriptedLLM{replies: replies}
}

func orderReply(t *testing.T, order PurchaseOrder) reply {
	t.Helper()
	doc, err := EncodeArguments(order)
	if err != nil {
		t.Fatalf("encode order: %v", err)
	}
	return reply{res: llm.Result{
		Raw: json.RawMessage(`{"output":[]}`),
		ToolCall: &llm.ToolCall{
			Type:      "function_call",
			Name:      ToolName,
			Arguments: llm.StringArguments(string(doc)),
		},
	}}
}

func argsReply(args llm.RawArguments) reply {
	return reply{res: llm.Result{ToolCall: &llm.ToolCall{Type: "function_call", Name: ToolName, Arguments: args}}}
}

func errReply(err error) reply {
	return reply{err: err}
}

func testCatalog() *catalog.Catalog {
	return catalog.New(map[string]int{
		"Tango":          90,
		"Iron Branch":    50,
		"Healing Salve":  100,
		"Clarity":        50,
		"Boots of Speed": 500,
		"Magic Wand":     450,
	}, nil)
}

// order700 and friends are starting sets with known totals under testCatalog.
func order700() PurchaseOrder {
	return PurchaseOrder{
		{Item: "Boots of Speed", Why: "early rotations and lane mobility", Phase: PhaseStarting},
		{Item: "Healing Salve x2", Why: "sustain through a harsh offlane", Phase: PhaseStarting},
		{Item: "Magic Wand", Why: "burst heal against spell spam", Phase: PhaseEarly},
	}
}

func order600() PurchaseOrder {
	return PurchaseOrder{
		{Item: "Boots of Speed", Why: "early rotations and lane mobility", Phase: PhaseStarting},
		{Item: "Healing Salve", Why: "sustain through a harsh offlane", Phase: PhaseStarting},
		{Item: "Magic Wand", Why: "burst heal against spell spam", Phase: PhaseEarly},
	}
}

func order900() PurchaseOrder {
	return PurchaseOrder{
		{Item: "Boots of Speed", Why: "early rotations and lane mobility", Phase: PhaseStarting},
		{Item: "Healing Salve x4", Why: "sustain through a harsh offlane", Phase: PhaseStarting},
	}
}

func order850() PurchaseOrder {
	return PurchaseOrder{
		{Item: "Boots of Speed", Why: "early rotations and lane mobility", Phase: PhaseStarting},
		{Item: "Healing Salve x2", Why: "sustain through a harsh offlane", Phase: PhaseStarting},
		{Item: "Iron Branch x3", Why: "cheap stats to survive harass", Phase: PhaseStarting},
	}
}

func order230() PurchaseOrder {
	return PurchaseOrder{
		{Item: "Tango x2", Why: "regen for the first waves", Phase: PhaseStarting},
		{Item: "Iron Branch", Why: "cheap stats to survive harass", Phase: PhaseStarting},
		{Item: "Magic Wand", Why: "burst heal against spell spam", Phase: PhaseEarly},
	}
}

func testRequestContext() RequestContext {
	return RequestContext{
		Hero:    "Lion",
		Role:    "Hard Support",
		Rank:    "Ancient",
		Patch:   "7.39d",
		Enemies: []string{"Anti-Mage", "Sniper", "Axe", "Lina", "Shadow Shaman"},
	}
}
