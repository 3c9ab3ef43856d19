package advice

import (
	"context"
	"errors"
	"time"

	"dota-coach-backend/internal/catalog"
	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/shared/metrics"
	"dota-coach-backend/internal/shared/telemetry"
	"dota-coach-backend/internal/shared/util"
)

// DefaultStartingBudget is the starting-phase gold ceiling.
const DefaultStartingBudget = 625

// State is where a budget run ended.
type State int

const (
	StateInitial State = iota
	StateCorrected
	StateFailed
)

// Run describes one pass through the budget loop.
type Run struct {
	State        State
	Order        PurchaseOrder
	InitialTotal int
	FinalTotal   int
	// Calls counts outbound invocations, at most two.
	Calls int
}

// Enforcer asks for a purchase order and holds its starting items to Budget,
// with exactly one correction round.
type Enforcer struct {
	LLM     llm.Invoker
	Catalog *catalog.Catalog
	Budget  int
}

// Enforce runs the loop. An over-budget first answer triggers one corrective call
// carrying the prior answer. If the correction is still over budget or unusable the
// result is a *BudgetExceededError with the first total and order. Transport errors
// on either call are returned as is.
func (e *Enforcer) Enforce(ctx context.Context, p Prompt) (Run, error) {
	budget := e.budget()
	tool := PurchaseOrderTool()
	run := Run{State: StateInitial}

	first := llm.NewInvocation(p.Instructions, p.Data, tool)
	res, err := e.invoke(ctx, first, 1)
	run.Calls++
	if err != nil {
		return run, err
	}
	order, err := Normalize(res.ToolCall)
	if err != nil {
		return run, err
	}
	total := e.Catalog.SumStartingGold(order.Rows())
	run.InitialTotal = total
	run.FinalTotal = total
	if total <= budget {
		run.Order = order
		return run, nil
	}

	metrics.IncAdviceCorrections()
	telemetry.Info("advice.correction", map[string]any{
		"initial_total": total,
		"budget":        budget,
		"rows":          len(order),
	})

	prior, err := priorAnswer(res.ToolCall, order)
	if err != nil {
		return run, err
	}
	fix := llm.Invocation{
		Instructions: p.Instructions,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: p.Data},
			{Role: llm.RoleAssistant, Content: prior},
			{Role: llm.RoleUser, Content: correctionMessage(total, budget)},
		},
		Tool: tool,
	}
	exceeded := &BudgetExceededError{Total: total, Budget: budget, Order: order}

	res, err = e.invoke(ctx, fix, 2)
	run.Calls++
	run.State = StateFailed
	if err != nil {
		var noCall *llm.NoToolCallError
		if errors.As(err, &noCall) {
			return run, exceeded
		}
		return run, err
	}
	corrected, err := Normalize(res.ToolCall)
	if err != nil {
		telemetry.Warn("advice.correction_unusable", map[string]any{"error": util.SanitizeError(err)})
		return run, exceeded
	}
	correctedTotal := e.Catalog.SumStartingGold(corrected.Rows())
	run.FinalTotal = correctedTotal
	if correctedTotal > budget {
		return run, exceeded
	}
	run.State = StateCorrected
	run.Order = corrected
	return run, nil
}

func (e *Enforcer) budget() int {
	if e.Budget > 0 {
		return e.Budget
	}
	return DefaultStartingBudget
}

func (e *Enforcer) invoke(ctx context.Context, inv llm.Invocation, attempt int) (llm.Result, error) {
	start := time.Now()
	res, err := e.LLM.Invoke(ctx, inv)
	fields := map[string]any{
		"attempt":     attempt,
		"tool":        inv.Tool.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = util.SanitizeError(err)
		telemetry.Warn("advice.invoke", fields)
		return res, err
	}
	if res.ToolCall != nil {
		fields["arguments"] = res.ToolCall.Arguments.Kind.String()
	}
	telemetry.Info("advice.invoke", fields)
	return res, nil
}

// priorAnswer is the assistant turn replayed in the correction request.
func priorAnswer(call *llm.ToolCall, order PurchaseOrder) (string, error) {
	if call != nil {
		if doc, err := call.Arguments.Document(); err == nil {
			return string(doc), nil
		}
	}
	doc, err := EncodeArguments(order)
	if err != nil {
		return "", err
	}
	return string(doc), nil
}
