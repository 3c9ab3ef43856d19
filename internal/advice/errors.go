package advice

import (
	"fmt"
	"strings"

	"dota-coach-backend/internal/llm"
)

// Error tags written in the "error" member of failure responses.
const (
	ErrorCodeBadRequest     = "bad_request"
	ErrorCodeNoToolCall     = "no_tool_call"
	ErrorCodeBadToolArgs    = "bad_tool_args"
	ErrorCodeBudgetExceeded = "starting_budget_exceeded"
	ErrorCodeTimeout        = "openai_timeout"
	ErrorCodeCanceled       = "request_canceled"
	ErrorCodeFailed         = "openai_failed"
)

// FieldError names one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError rejects a request before any model call is made.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Issue
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, issue string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Issue: issue})
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// MalformedArgumentsError reports tool arguments that do not match the order schema.
type MalformedArgumentsError struct {
	Reason    string
	Arguments llm.RawArguments
}

func (e *MalformedArgumentsError) Error() string {
	return "malformed tool arguments: " + e.Reason
}

// BudgetExceededError is returned when the one correction round did not bring the
// starting items under budget. Total and Order are from the first answer.
type BudgetExceededError struct {
	Total  int
	Budget int
	Order  PurchaseOrder
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("starting items cost %d gold, budget is %d", e.Total, e.Budget)
}
