package llm

import (
	"context"
	"encoding/json"
	"errors"

	"dota-coach-backend/internal/llm/schema"
)

// Role identifies who authored a message in an invocation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversational turn sent after the instructions.
type Message struct {
	Role    Role
	Content string
}

// Tool is the single function offered to the model. The model is forced to call it.
type Tool struct {
	Name        string
	Description string
	Parameters  *schema.Schema
	Strict      bool
}

// Invocation is one outbound call.
type Invocation struct {
	// Instructions are sent with developer priority.
	Instructions string
	Messages     []Message
	Tool         Tool
	// ImageDataURL, when set, is attached as an extra user content part.
	ImageDataURL string
}

// Result carries the provider's raw response and the matched tool call.
type Result struct {
	Raw      json.RawMessage
	ToolCall *ToolCall
}

// Invoker calls an external model with exactly one forced tool.
// Implementations return a *TransportError when the call itself fails and a
// *NoToolCallError when the response has no call to the offered tool.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) (Result, error)
}

// NewInvocation builds a single-turn invocation.
func NewInvocation(instructions, data string, tool Tool) Invocation {
	return Invocation{
		Instructions: instructions,
		Messages:     []Message{{Role: RoleUser, Content: data}},
		Tool:         tool,
	}
}

// ErrNotImplemented is returned by the placeholder invoker.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderInvoker is used when no provider is configured.
type PlaceholderInvoker struct{}

// Invoke returns ErrNotImplemented wrapped in a TransportError.
func (PlaceholderInvoker) Invoke(_ context.Context, inv Invocation) (Result, error) {
	return Result{}, &TransportError{Op: "invoke " + inv.Tool.Name, Err: ErrNotImplemented}
}
