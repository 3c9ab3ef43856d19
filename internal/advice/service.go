package advice

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dota-coach-backend/internal/audit"
	"dota-coach-backend/internal/catalog"
	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/shared/metrics"
	"dota-coach-backend/internal/shared/telemetry"
	"dota-coach-backend/internal/shared/tracing"
	"dota-coach-backend/internal/shared/util"
)

// Service runs the purchase-order pipeline. It holds no per-request state; the
// catalog and the LLM handle are shared read-only across requests.
type Service struct {
	LLM          llm.Invoker
	Catalog      *catalog.Catalog
	Budget       int
	DefaultPatch string
	Audit        *audit.Recorder
}

// Result is a pipeline run as seen by the handler.
type Result struct {
	Recommendation Recommendation
	Outcome        string
	Run            Run
}

// Recommend builds the prompt, calls the model and enforces the starting budget.
func (s *Service) Recommend(ctx context.Context, rc RequestContext, requestID string) (Result, error) {
	ctx, span := tracing.Tracer("advice").Start(ctx, "advice.recommend")
	defer span.End()
	span.SetAttributes(
		attribute.String("dota.hero", rc.Hero),
		attribute.String("dota.role", rc.Role),
		attribute.String("dota.patch", rc.Patch),
	)

	start := time.Now()
	enforcer := &Enforcer{LLM: s.LLM, Catalog: s.Catalog, Budget: s.Budget}
	run, err := enforcer.Enforce(ctx, BuildPrompt(rc, enforcer.budget()))

	outcome := outcomeOf(run, err)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.ObserveAdvice(outcome, durationMs)
	span.SetAttributes(
		attribute.String("advice.outcome", outcome),
		attribute.Int("advice.llm_calls", run.Calls),
		attribute.Int("advice.initial_total", run.InitialTotal),
		attribute.Int("advice.final_total", run.FinalTotal),
	)

	fields := map[string]any{
		"request_id":    requestID,
		"hero":          rc.Hero,
		"role":          rc.Role,
		"outcome":       outcome,
		"llm_calls":     run.Calls,
		"initial_total": run.InitialTotal,
		"final_total":   run.FinalTotal,
		"duration_ms":   durationMs,
	}
	rec := audit.Record{
		RequestID:    requestID,
		Hero:         rc.Hero,
		Role:         rc.Role,
		Rank:         rc.Rank,
		Patch:        rc.Patch,
		Minute:       rc.Minute,
		Outcome:      outcome,
		InitialTotal: run.InitialTotal,
		FinalTotal:   run.FinalTotal,
		LLMCalls:     run.Calls,
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		fields["error"] = util.SanitizeError(err)
		rec.ErrorCode = ErrorCode(err)
		telemetry.Warn("advice.outcome", fields)
		s.Audit.Record(ctx, rec)
		return Result{Outcome: outcome, Run: run}, err
	}

	telemetry.Info("advice.outcome", fields)
	s.Audit.Record(ctx, rec)
	return Result{
		Recommendation: Recommendation{
			Hero:          rc.Hero,
			Role:          rc.Role,
			Rank:          rc.Rank,
			Patch:         rc.Patch,
			Enemies:       rc.Enemies,
			Minute:        rc.Minute,
			PurchaseOrder: run.Order,
		},
		Outcome: outcome,
		Run:     run,
	}, nil
}

func outcomeOf(run Run, err error) string {
	var exceeded *BudgetExceededError
	switch {
	case errors.As(err, &exceeded):
		return OutcomeBudgetExceeded
	case err != nil:
		return OutcomeFailed
	case run.State == StateCorrected:
		return OutcomeCorrected
	default:
		return OutcomeAccepted
	}
}
